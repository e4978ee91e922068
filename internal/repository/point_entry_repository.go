package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/army-personnel-api/internal/models"
	"github.com/noah-isme/army-personnel-api/pkg/database"
)

const (
	pointEntryColumns        = `id, personnel_id, week_start, activity_points, special_position_points, total_week_points, notes, entered_by, created_at`
	pointEntryWeekConstraint = "point_entries_personnel_week_key"
)

// PointEntryRepository owns the weekly point ledger and the cached member totals derived from it.
type PointEntryRepository struct {
	db *sqlx.DB
}

// NewPointEntryRepository constructs a point entry repository.
func NewPointEntryRepository(db *sqlx.DB) *PointEntryRepository {
	return &PointEntryRepository{db: db}
}

// List returns ledger rows, most recent week first.
func (r *PointEntryRepository) List(ctx context.Context, filter models.PointEntryFilter) ([]models.PointEntry, error) {
	var conditions []string
	var args []interface{}
	if filter.PersonnelID != nil {
		args = append(args, *filter.PersonnelID)
		conditions = append(conditions, fmt.Sprintf("personnel_id = $%d", len(args)))
	}
	if filter.WeekStart != nil {
		args = append(args, *filter.WeekStart)
		conditions = append(conditions, fmt.Sprintf("week_start = $%d", len(args)))
	}

	query := `SELECT ` + pointEntryColumns + ` FROM point_entries`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY week_start DESC, id DESC"

	var entries []models.PointEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list point entries: %w", err)
	}
	return entries, nil
}

// Create records entry and rewrites the member's total as the full ledger sum, in one
// transaction holding the member row lock. The bonus is snapshotted from the member's
// current special position. It returns the new total.
func (r *PointEntryRepository) Create(ctx context.Context, entry *models.PointEntry) (total int, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin point entry transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var bonus int
	const lockQuery = `SELECT COALESCE(sp.bonus_points_per_week, 0) FROM personnel p
LEFT JOIN special_positions sp ON sp.id = p.special_position_id
WHERE p.id = $1 FOR UPDATE OF p`
	if err = tx.GetContext(ctx, &bonus, lockQuery, entry.PersonnelID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, err
		}
		return 0, fmt.Errorf("lock personnel: %w", err)
	}

	var exists bool
	const existsQuery = `SELECT EXISTS (SELECT 1 FROM point_entries WHERE personnel_id = $1 AND week_start = $2)`
	if err = tx.GetContext(ctx, &exists, existsQuery, entry.PersonnelID, entry.WeekStart); err != nil {
		return 0, fmt.Errorf("check existing point entry: %w", err)
	}
	if exists {
		err = ErrDuplicatePointEntry
		return 0, err
	}

	entry.ApplyBonus(bonus)
	entry.CreatedAt = time.Now().UTC()
	const insertQuery = `INSERT INTO point_entries (personnel_id, week_start, activity_points, special_position_points, total_week_points, notes, entered_by, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err = tx.QueryRowxContext(ctx, insertQuery,
		entry.PersonnelID, entry.WeekStart, entry.ActivityPoints, entry.SpecialPositionPoints, entry.TotalWeekPoints, entry.Notes, entry.EnteredBy, entry.CreatedAt,
	).Scan(&entry.ID); err != nil {
		if database.IsUniqueViolation(err, pointEntryWeekConstraint) {
			err = ErrDuplicatePointEntry
			return 0, err
		}
		return 0, fmt.Errorf("insert point entry: %w", err)
	}

	const sumQuery = `SELECT COALESCE(SUM(total_week_points), 0) FROM point_entries WHERE personnel_id = $1`
	if err = tx.GetContext(ctx, &total, sumQuery, entry.PersonnelID); err != nil {
		return 0, fmt.Errorf("sum point entries: %w", err)
	}

	const updateQuery = `UPDATE personnel SET total_points = $2, updated_at = $3 WHERE id = $1`
	if _, err = tx.ExecContext(ctx, updateQuery, entry.PersonnelID, total, entry.CreatedAt); err != nil {
		return 0, fmt.Errorf("update personnel total: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit point entry: %w", err)
	}
	return total, nil
}
