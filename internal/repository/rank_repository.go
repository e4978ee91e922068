package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/army-personnel-api/internal/models"
)

const rankColumns = `id, level, name, points_required, points_from_previous`

// RankRepository reads the rank ladder.
type RankRepository struct {
	db *sqlx.DB
}

// NewRankRepository constructs a rank repository.
func NewRankRepository(db *sqlx.DB) *RankRepository {
	return &RankRepository{db: db}
}

// List returns all ranks ordered by level.
func (r *RankRepository) List(ctx context.Context) ([]models.Rank, error) {
	const query = `SELECT ` + rankColumns + ` FROM ranks ORDER BY level ASC`
	var ranks []models.Rank
	if err := r.db.SelectContext(ctx, &ranks, query); err != nil {
		return nil, fmt.Errorf("list ranks: %w", err)
	}
	return ranks, nil
}

// FindByID returns a rank by identifier.
func (r *RankRepository) FindByID(ctx context.Context, id int64) (*models.Rank, error) {
	const query = `SELECT ` + rankColumns + ` FROM ranks WHERE id = $1`
	var rank models.Rank
	if err := r.db.GetContext(ctx, &rank, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find rank by id: %w", err)
	}
	return &rank, nil
}
