package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/army-personnel-api/internal/models"
	"github.com/noah-isme/army-personnel-api/internal/repository"
	"github.com/noah-isme/army-personnel-api/internal/seed"
	appErrors "github.com/noah-isme/army-personnel-api/pkg/errors"
	"github.com/noah-isme/army-personnel-api/pkg/password"
	"github.com/noah-isme/army-personnel-api/pkg/validation"
)

type setupRepository interface {
	Bootstrap(ctx context.Context, admin *models.AdminUser, ranks []models.Rank, positions []models.SpecialPosition) (repository.SeedResult, error)
}

// SetupService performs the one-time installation.
type SetupService struct {
	repo      setupRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSetupService constructs a SetupService.
func NewSetupService(repo setupRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *SetupService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SetupService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// Setup creates the first admin and installs the default ranks and special positions.
func (s *SetupService) Setup(ctx context.Context, req models.SetupRequest) (*models.SetupResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid setup payload")
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	admin := &models.AdminUser{
		Username:     req.Username,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
	}
	seeded, err := s.repo.Bootstrap(ctx, admin, seed.Ranks, seed.SpecialPositions)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyInitialized) {
			return nil, appErrors.Clone(appErrors.ErrAlreadyInitialized, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to run setup")
	}

	s.cache.Invalidate(ctx, dashboardCachePattern)
	s.logger.Info("setup completed",
		zap.Int64("admin_id", admin.ID),
		zap.Int("ranks_seeded", seeded.Ranks),
		zap.Int("positions_seeded", seeded.Positions),
	)

	return &models.SetupResult{User: *admin, RanksSeeded: seeded.Ranks, PositionsSeeded: seeded.Positions}, nil
}
