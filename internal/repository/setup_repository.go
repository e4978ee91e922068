package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/army-personnel-api/internal/models"
)

// setupLockKey is the pg advisory lock id serialising concurrent bootstrap calls.
const setupLockKey int64 = 0x41524d59 // "ARMY"

// SetupRepository performs the one-time bootstrap.
type SetupRepository struct {
	db *sqlx.DB
}

// NewSetupRepository constructs a setup repository.
func NewSetupRepository(db *sqlx.DB) *SetupRepository {
	return &SetupRepository{db: db}
}

// SeedResult counts the reference rows actually inserted.
type SeedResult struct {
	Ranks     int
	Positions int
}

// Bootstrap creates the first admin and installs the reference data. It fails with
// ErrAlreadyInitialized when any admin exists. Reference rows that are already present are
// left untouched.
func (r *SetupRepository) Bootstrap(ctx context.Context, admin *models.AdminUser, ranks []models.Rank, positions []models.SpecialPosition) (result SeedResult, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("begin setup transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, setupLockKey); err != nil {
		return result, fmt.Errorf("acquire setup lock: %w", err)
	}

	var admins int
	if err = tx.GetContext(ctx, &admins, `SELECT COUNT(*) FROM admin_users`); err != nil {
		return result, fmt.Errorf("count admin users: %w", err)
	}
	if admins > 0 {
		err = ErrAlreadyInitialized
		return result, err
	}

	now := time.Now().UTC()
	admin.IsActive = true
	admin.CreatedAt = now
	admin.UpdatedAt = now
	const adminQuery = `INSERT INTO admin_users (username, password_hash, first_name, last_name, email, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err = tx.QueryRowxContext(ctx, adminQuery,
		admin.Username, admin.PasswordHash, admin.FirstName, admin.LastName, admin.Email, admin.IsActive, admin.CreatedAt, admin.UpdatedAt,
	).Scan(&admin.ID); err != nil {
		return result, fmt.Errorf("insert admin user: %w", err)
	}

	const rankQuery = `INSERT INTO ranks (level, name, points_required, points_from_previous) VALUES ($1, $2, $3, $4) ON CONFLICT (level) DO NOTHING`
	for _, rank := range ranks {
		res, execErr := tx.ExecContext(ctx, rankQuery, rank.Level, rank.Name, rank.PointsRequired, rank.PointsFromPrevious)
		if execErr != nil {
			err = fmt.Errorf("seed rank %d: %w", rank.Level, execErr)
			return result, err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			result.Ranks++
		}
	}

	const positionQuery = `INSERT INTO special_positions (name, difficulty, bonus_points_per_week, description) VALUES ($1, $2, $3, $4) ON CONFLICT (name) DO NOTHING`
	for _, pos := range positions {
		res, execErr := tx.ExecContext(ctx, positionQuery, pos.Name, pos.Difficulty, pos.BonusPointsPerWeek, pos.Description)
		if execErr != nil {
			err = fmt.Errorf("seed special position %s: %w", pos.Name, execErr)
			return result, err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			result.Positions++
		}
	}

	if err = tx.Commit(); err != nil {
		return result, fmt.Errorf("commit setup: %w", err)
	}
	return result, nil
}
