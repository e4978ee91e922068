package models

import "time"

// Promotion is an append-only record of a rank change.
type Promotion struct {
	ID                int64     `db:"id" json:"id"`
	PersonnelID       int64     `db:"personnel_id" json:"personnelId"`
	FromRankID        int64     `db:"from_rank_id" json:"fromRankId"`
	ToRankID          int64     `db:"to_rank_id" json:"toRankId"`
	PointsAtPromotion int       `db:"points_at_promotion" json:"pointsAtPromotion"`
	PromotedBy        int64     `db:"promoted_by" json:"promotedBy"`
	PromotionDate     time.Time `db:"promotion_date" json:"promotionDate"`
	Notes             *string   `db:"notes" json:"notes,omitempty"`
}

// PromotionFilter narrows promotion listings.
type PromotionFilter struct {
	PersonnelID *int64
}

// CreatePromotionRequest is the payload for promoting a member.
type CreatePromotionRequest struct {
	PersonnelID int64   `json:"personnelId" validate:"required,gt=0"`
	ToRankID    int64   `json:"toRankId" validate:"required,gt=0"`
	Notes       *string `json:"notes" validate:"omitempty,max=1000"`
}
