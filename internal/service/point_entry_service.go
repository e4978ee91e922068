package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/army-personnel-api/internal/models"
	"github.com/noah-isme/army-personnel-api/internal/repository"
	appErrors "github.com/noah-isme/army-personnel-api/pkg/errors"
	"github.com/noah-isme/army-personnel-api/pkg/validation"
)

type pointEntryRepository interface {
	List(ctx context.Context, filter models.PointEntryFilter) ([]models.PointEntry, error)
	Create(ctx context.Context, entry *models.PointEntry) (int, error)
}

// PointEntryService records weekly points and keeps member totals in step with the ledger.
type PointEntryService struct {
	repo      pointEntryRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPointEntryService constructs a PointEntryService.
func NewPointEntryService(repo pointEntryRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *PointEntryService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PointEntryService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// Submit records one week of activity points for a member and returns the new total.
func (s *PointEntryService) Submit(ctx context.Context, req models.CreatePointEntryRequest, actor models.Actor) (*models.PointEntryResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid point entry payload")
	}
	if req.WeekStart.IsZero() {
		appErr := appErrors.Clone(appErrors.ErrValidation, "invalid point entry payload")
		appErr.Details = []appErrors.FieldError{{Field: "weekStart", Rule: "required", Message: "is required"}}
		return nil, appErr
	}

	entry := &models.PointEntry{
		PersonnelID:    req.PersonnelID,
		WeekStart:      models.WeekStart(req.WeekStart.Time),
		ActivityPoints: *req.ActivityPoints,
		Notes:          req.Notes,
		EnteredBy:      actor.UserID,
	}

	start := time.Now()
	total, err := s.repo.Create(ctx, entry)
	s.metrics.ObserveDBQuery("point_entry_create", time.Since(start))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicatePointEntry):
			return nil, appErrors.Clone(appErrors.ErrDuplicateEntry, "")
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "personnel not found")
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record point entry")
		}
	}

	s.metrics.RecordPointEntry()
	s.cache.Invalidate(ctx, dashboardCachePattern)
	s.logger.Info("point entry recorded",
		zap.Int64("personnel_id", entry.PersonnelID),
		zap.String("week_start", entry.WeekStart.String()),
		zap.Int("total_week_points", entry.TotalWeekPoints),
		zap.Int("total_points", total),
		zap.Int64("entered_by", actor.UserID),
	)

	return &models.PointEntryResult{Entry: *entry, TotalPoints: total}, nil
}

// List returns ledger entries, most recent week first. A week filter is normalised to its Monday.
func (s *PointEntryService) List(ctx context.Context, filter models.PointEntryFilter) ([]models.PointEntry, error) {
	if filter.WeekStart != nil {
		week := models.WeekStart(filter.WeekStart.Time)
		filter.WeekStart = &week
	}
	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list point entries")
	}
	if entries == nil {
		entries = []models.PointEntry{}
	}
	return entries, nil
}
