package models

import "time"

// Personnel is a member of the unit. TotalPoints mirrors the sum of the member's ledger entries.
type Personnel struct {
	ID                int64     `db:"id" json:"id"`
	ArmyID            string    `db:"army_id" json:"armyId"`
	FirstName         string    `db:"first_name" json:"firstName"`
	LastName          string    `db:"last_name" json:"lastName"`
	CurrentRankID     int64     `db:"current_rank_id" json:"currentRankId"`
	TotalPoints       int       `db:"total_points" json:"totalPoints"`
	SpecialPositionID *int64    `db:"special_position_id" json:"specialPositionId"`
	IsActive          bool      `db:"is_active" json:"isActive"`
	JoinDate          time.Time `db:"join_date" json:"joinDate"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time `db:"updated_at" json:"updatedAt"`
}

// PersonnelDetail joins a member with their rank and special position.
type PersonnelDetail struct {
	Personnel
	CurrentRank     *Rank            `json:"currentRank"`
	SpecialPosition *SpecialPosition `json:"specialPosition"`
	Eligibility     *Eligibility     `json:"eligibility,omitempty"`
}

// PersonnelFilter captures list criteria.
type PersonnelFilter struct {
	Active   *bool
	RankID   *int64
	Search   string
	Page     int
	PageSize int
}

// CreatePersonnelRequest is the payload for adding a member.
type CreatePersonnelRequest struct {
	ArmyID            string `json:"armyId" validate:"required,max=32"`
	FirstName         string `json:"firstName" validate:"required,max=100"`
	LastName          string `json:"lastName" validate:"required,max=100"`
	CurrentRankID     int64  `json:"currentRankId" validate:"required,gt=0"`
	SpecialPositionID *int64 `json:"specialPositionId" validate:"omitempty,gt=0"`
	JoinDate          *Date  `json:"joinDate"`
}

// UpdatePersonnelRequest patches mutable member fields. Rank changes go through promotions and
// points through the ledger.
type UpdatePersonnelRequest struct {
	FirstName         *string         `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName          *string         `json:"lastName" validate:"omitempty,min=1,max=100"`
	SpecialPositionID Optional[int64] `json:"specialPositionId"`
	IsActive          *bool           `json:"isActive"`
}

// PersonnelUpdate is the resolved set of column changes.
type PersonnelUpdate struct {
	FirstName          *string
	LastName           *string
	SetSpecialPosition bool
	SpecialPositionID  *int64
	IsActive           *bool
}
