package models

import "time"

// Activity point bounds per person per week.
const (
	MinActivityPoints = 0
	MaxActivityPoints = 35
)

// PointEntry is one week of recorded points for a member. Entries are immutable.
type PointEntry struct {
	ID                    int64     `db:"id" json:"id"`
	PersonnelID           int64     `db:"personnel_id" json:"personnelId"`
	WeekStart             Date      `db:"week_start" json:"weekStart"`
	ActivityPoints        int       `db:"activity_points" json:"activityPoints"`
	SpecialPositionPoints int       `db:"special_position_points" json:"specialPositionPoints"`
	TotalWeekPoints       int       `db:"total_week_points" json:"totalWeekPoints"`
	Notes                 *string   `db:"notes" json:"notes,omitempty"`
	EnteredBy             int64     `db:"entered_by" json:"enteredBy"`
	CreatedAt             time.Time `db:"created_at" json:"createdAt"`
}

// PointEntryFilter narrows ledger listings.
type PointEntryFilter struct {
	PersonnelID *int64
	WeekStart   *Date
}

// CreatePointEntryRequest is the payload for recording a week of points.
type CreatePointEntryRequest struct {
	PersonnelID    int64   `json:"personnelId" validate:"required,gt=0"`
	WeekStart      Date    `json:"weekStart"`
	ActivityPoints *int    `json:"activityPoints" validate:"required,min=0,max=35"`
	Notes          *string `json:"notes" validate:"omitempty,max=1000"`
}

// PointEntryResult carries the stored entry and the member's recomputed total.
type PointEntryResult struct {
	Entry       PointEntry `json:"entry"`
	TotalPoints int        `json:"totalPoints"`
}

// ApplyBonus snapshots the member's weekly bonus onto the entry and derives the week total.
func (e *PointEntry) ApplyBonus(bonus int) {
	e.SpecialPositionPoints = bonus
	e.TotalWeekPoints = e.ActivityPoints + bonus
}
