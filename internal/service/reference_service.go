package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/noah-isme/army-personnel-api/internal/models"
	appErrors "github.com/noah-isme/army-personnel-api/pkg/errors"
)

type rankRepository interface {
	List(ctx context.Context) ([]models.Rank, error)
	FindByID(ctx context.Context, id int64) (*models.Rank, error)
}

type specialPositionRepository interface {
	List(ctx context.Context) ([]models.SpecialPosition, error)
	FindByID(ctx context.Context, id int64) (*models.SpecialPosition, error)
}

// ReferenceService exposes ranks and special positions.
type ReferenceService struct {
	ranks     rankRepository
	positions specialPositionRepository
}

// NewReferenceService constructs a ReferenceService.
func NewReferenceService(ranks rankRepository, positions specialPositionRepository) *ReferenceService {
	return &ReferenceService{ranks: ranks, positions: positions}
}

// ListRanks returns the ranks ordered by level.
func (s *ReferenceService) ListRanks(ctx context.Context) ([]models.Rank, error) {
	ranks, err := s.ranks.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list ranks")
	}
	return ranks, nil
}

// GetRank returns a rank by id.
func (s *ReferenceService) GetRank(ctx context.Context, id int64) (*models.Rank, error) {
	rank, err := s.ranks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "rank not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch rank")
	}
	return rank, nil
}

// Ladder loads the ranks into a RankLadder.
func (s *ReferenceService) Ladder(ctx context.Context) (models.RankLadder, error) {
	ranks, err := s.ListRanks(ctx)
	if err != nil {
		return models.RankLadder{}, err
	}
	return models.NewRankLadder(ranks), nil
}

// ListSpecialPositions returns the bonus roles ordered by name.
func (s *ReferenceService) ListSpecialPositions(ctx context.Context) ([]models.SpecialPosition, error) {
	positions, err := s.positions.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list special positions")
	}
	return positions, nil
}

// GetSpecialPosition returns a special position by id.
func (s *ReferenceService) GetSpecialPosition(ctx context.Context, id int64) (*models.SpecialPosition, error) {
	sp, err := s.positions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "special position not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch special position")
	}
	return sp, nil
}
