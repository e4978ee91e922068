package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/army-personnel-api/internal/models"
)

const promotionColumns = `id, personnel_id, from_rank_id, to_rank_id, points_at_promotion, promoted_by, promotion_date, notes`

// PromotionRepository owns the append-only promotion history.
type PromotionRepository struct {
	db *sqlx.DB
}

// NewPromotionRepository constructs a promotion repository.
func NewPromotionRepository(db *sqlx.DB) *PromotionRepository {
	return &PromotionRepository{db: db}
}

// List returns promotions, newest first.
func (r *PromotionRepository) List(ctx context.Context, filter models.PromotionFilter) ([]models.Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions`
	var args []interface{}
	if filter.PersonnelID != nil {
		query += " WHERE personnel_id = $1"
		args = append(args, *filter.PersonnelID)
	}
	query += " ORDER BY promotion_date DESC, id DESC"

	var promotions []models.Promotion
	if err := r.db.SelectContext(ctx, &promotions, query, args...); err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	return promotions, nil
}

// Create records a promotion and moves the member to the target rank. The previous rank and
// points snapshot are read under the member row lock, so they reflect the moment of the call.
// A call targeting the current rank is still recorded.
func (r *PromotionRepository) Create(ctx context.Context, p *models.Promotion) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin promotion transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current struct {
		RankID      int64 `db:"current_rank_id"`
		TotalPoints int   `db:"total_points"`
	}
	const lockQuery = `SELECT current_rank_id, total_points FROM personnel WHERE id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &current, lockQuery, p.PersonnelID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return fmt.Errorf("lock personnel: %w", err)
	}
	p.FromRankID = current.RankID
	p.PointsAtPromotion = current.TotalPoints
	p.PromotionDate = time.Now().UTC()

	const insertQuery = `INSERT INTO promotions (personnel_id, from_rank_id, to_rank_id, points_at_promotion, promoted_by, promotion_date, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err = tx.QueryRowxContext(ctx, insertQuery,
		p.PersonnelID, p.FromRankID, p.ToRankID, p.PointsAtPromotion, p.PromotedBy, p.PromotionDate, p.Notes,
	).Scan(&p.ID); err != nil {
		return fmt.Errorf("insert promotion: %w", err)
	}

	const updateQuery = `UPDATE personnel SET current_rank_id = $2, updated_at = $3 WHERE id = $1`
	if _, err = tx.ExecContext(ctx, updateQuery, p.PersonnelID, p.ToRankID, p.PromotionDate); err != nil {
		return fmt.Errorf("update personnel rank: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit promotion: %w", err)
	}
	return nil
}
