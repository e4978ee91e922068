package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/army-personnel-api/internal/models"
	appErrors "github.com/noah-isme/army-personnel-api/pkg/errors"
	"github.com/noah-isme/army-personnel-api/pkg/validation"
)

type promotionRepository interface {
	List(ctx context.Context, filter models.PromotionFilter) ([]models.Promotion, error)
	Create(ctx context.Context, p *models.Promotion) error
}

type eligibleSource interface {
	ListAll(ctx context.Context, filter models.PersonnelFilter) ([]models.PersonnelDetail, error)
}

// PromotionService applies rank changes. Eligibility is advisory and never blocks a promotion.
type PromotionService struct {
	repo      promotionRepository
	personnel eligibleSource
	reference *ReferenceService
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPromotionService constructs a PromotionService.
func NewPromotionService(repo promotionRepository, personnel eligibleSource, reference *ReferenceService, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *PromotionService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PromotionService{
		repo:      repo,
		personnel: personnel,
		reference: reference,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// Promote moves a member to the requested rank and records the change.
func (s *PromotionService) Promote(ctx context.Context, req models.CreatePromotionRequest, actor models.Actor) (*models.Promotion, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid promotion payload")
	}
	if _, err := s.reference.GetRank(ctx, req.ToRankID); err != nil {
		return nil, err
	}

	promotion := &models.Promotion{
		PersonnelID: req.PersonnelID,
		ToRankID:    req.ToRankID,
		PromotedBy:  actor.UserID,
		Notes:       req.Notes,
	}
	if err := s.repo.Create(ctx, promotion); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "personnel not found")
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record promotion")
		}
	}

	s.metrics.RecordPromotion()
	s.cache.Invalidate(ctx, dashboardCachePattern)
	s.logger.Info("personnel promoted",
		zap.Int64("personnel_id", promotion.PersonnelID),
		zap.Int64("from_rank_id", promotion.FromRankID),
		zap.Int64("to_rank_id", promotion.ToRankID),
		zap.Int("points_at_promotion", promotion.PointsAtPromotion),
		zap.Int64("promoted_by", actor.UserID),
	)
	return promotion, nil
}

// List returns the promotion history, newest first.
func (s *PromotionService) List(ctx context.Context, filter models.PromotionFilter) ([]models.Promotion, error) {
	promotions, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list promotions")
	}
	if promotions == nil {
		promotions = []models.Promotion{}
	}
	return promotions, nil
}

// ListEligible returns active members who have reached the threshold of the next rank.
func (s *PromotionService) ListEligible(ctx context.Context) ([]models.PersonnelDetail, error) {
	ladder, err := s.reference.Ladder(ctx)
	if err != nil {
		return nil, err
	}

	active := true
	members, err := s.personnel.ListAll(ctx, models.PersonnelFilter{Active: &active})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list personnel")
	}

	eligible := make([]models.PersonnelDetail, 0)
	for _, m := range members {
		if m.CurrentRank == nil {
			continue
		}
		e := ladder.Eligibility(m.CurrentRank.Level, m.TotalPoints)
		if !e.Eligible {
			continue
		}
		m.Eligibility = &e
		eligible = append(eligible, m)
	}
	return eligible, nil
}
