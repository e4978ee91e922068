package models

// Difficulty tiers for special positions.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// SpecialPosition is a bonus role granting a fixed number of points each week.
type SpecialPosition struct {
	ID                 int64   `db:"id" json:"id"`
	Name               string  `db:"name" json:"name"`
	Difficulty         string  `db:"difficulty" json:"difficulty"`
	BonusPointsPerWeek int     `db:"bonus_points_per_week" json:"bonusPointsPerWeek"`
	Description        *string `db:"description" json:"description,omitempty"`
}
