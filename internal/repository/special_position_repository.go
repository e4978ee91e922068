package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/army-personnel-api/internal/models"
)

const specialPositionColumns = `id, name, difficulty, bonus_points_per_week, description`

// SpecialPositionRepository reads the special position catalog.
type SpecialPositionRepository struct {
	db *sqlx.DB
}

// NewSpecialPositionRepository constructs a special position repository.
func NewSpecialPositionRepository(db *sqlx.DB) *SpecialPositionRepository {
	return &SpecialPositionRepository{db: db}
}

// List returns all special positions ordered by name.
func (r *SpecialPositionRepository) List(ctx context.Context) ([]models.SpecialPosition, error) {
	const query = `SELECT ` + specialPositionColumns + ` FROM special_positions ORDER BY name ASC`
	var positions []models.SpecialPosition
	if err := r.db.SelectContext(ctx, &positions, query); err != nil {
		return nil, fmt.Errorf("list special positions: %w", err)
	}
	return positions, nil
}

// FindByID returns a special position by identifier.
func (r *SpecialPositionRepository) FindByID(ctx context.Context, id int64) (*models.SpecialPosition, error) {
	const query = `SELECT ` + specialPositionColumns + ` FROM special_positions WHERE id = $1`
	var position models.SpecialPosition
	if err := r.db.GetContext(ctx, &position, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find special position by id: %w", err)
	}
	return &position, nil
}
