package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/army-personnel-api/internal/models"
	"github.com/noah-isme/army-personnel-api/internal/repository"
	appErrors "github.com/noah-isme/army-personnel-api/pkg/errors"
	"github.com/noah-isme/army-personnel-api/pkg/validation"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type personnelRepository interface {
	List(ctx context.Context, filter models.PersonnelFilter) ([]models.PersonnelDetail, int, error)
	ListAll(ctx context.Context, filter models.PersonnelFilter) ([]models.PersonnelDetail, error)
	FindByID(ctx context.Context, id int64) (*models.PersonnelDetail, error)
	FindByArmyID(ctx context.Context, armyID string) (*models.PersonnelDetail, error)
	ExistsByArmyID(ctx context.Context, armyID string) (bool, error)
	Create(ctx context.Context, p *models.Personnel) error
	Update(ctx context.Context, id int64, upd models.PersonnelUpdate) error
	Deactivate(ctx context.Context, id int64) error
}

// PersonnelService manages the member registry.
type PersonnelService struct {
	repo      personnelRepository
	reference *ReferenceService
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPersonnelService constructs a PersonnelService.
func NewPersonnelService(repo personnelRepository, reference *ReferenceService, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *PersonnelService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersonnelService{repo: repo, reference: reference, cache: cache, validator: validate, logger: logger}
}

// List returns a page of members with pagination metadata.
func (s *PersonnelService) List(ctx context.Context, filter models.PersonnelFilter) ([]models.PersonnelDetail, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}
	filter.Search = strings.TrimSpace(filter.Search)

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list personnel")
	}
	return items, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// ListAll returns every member matching filter, for exports.
func (s *PersonnelService) ListAll(ctx context.Context, filter models.PersonnelFilter) ([]models.PersonnelDetail, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	items, err := s.repo.ListAll(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list personnel")
	}
	return items, nil
}

// Get returns a member with promotion eligibility attached.
func (s *PersonnelService) Get(ctx context.Context, id int64) (*models.PersonnelDetail, error) {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, personnelLookupError(err)
	}
	if err := s.attachEligibility(ctx, detail); err != nil {
		return nil, err
	}
	return detail, nil
}

// GetByArmyID returns a member by army id with eligibility attached.
func (s *PersonnelService) GetByArmyID(ctx context.Context, armyID string) (*models.PersonnelDetail, error) {
	detail, err := s.repo.FindByArmyID(ctx, strings.TrimSpace(armyID))
	if err != nil {
		return nil, personnelLookupError(err)
	}
	if err := s.attachEligibility(ctx, detail); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *PersonnelService) attachEligibility(ctx context.Context, detail *models.PersonnelDetail) error {
	ladder, err := s.reference.Ladder(ctx)
	if err != nil {
		return err
	}
	level := 0
	if detail.CurrentRank != nil {
		level = detail.CurrentRank.Level
	}
	e := ladder.Eligibility(level, detail.TotalPoints)
	detail.Eligibility = &e
	return nil
}

// Create registers a new member at zero points.
func (s *PersonnelService) Create(ctx context.Context, req models.CreatePersonnelRequest) (*models.PersonnelDetail, error) {
	req.ArmyID = strings.TrimSpace(req.ArmyID)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid personnel payload")
	}

	if _, err := s.reference.GetRank(ctx, req.CurrentRankID); err != nil {
		return nil, err
	}
	if req.SpecialPositionID != nil {
		if _, err := s.reference.GetSpecialPosition(ctx, *req.SpecialPositionID); err != nil {
			return nil, err
		}
	}

	exists, err := s.repo.ExistsByArmyID(ctx, req.ArmyID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check army id")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "army id already in use")
	}

	p := &models.Personnel{
		ArmyID:            req.ArmyID,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		CurrentRankID:     req.CurrentRankID,
		SpecialPositionID: req.SpecialPositionID,
		IsActive:          true,
	}
	if req.JoinDate != nil && !req.JoinDate.IsZero() {
		p.JoinDate = req.JoinDate.Time
	} else {
		p.JoinDate = time.Now().UTC()
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrArmyIDTaken) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "army id already in use")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create personnel")
	}

	s.cache.Invalidate(ctx, dashboardCachePattern)
	s.logger.Info("personnel created", zap.Int64("personnel_id", p.ID), zap.String("army_id", p.ArmyID))
	return s.Get(ctx, p.ID)
}

// Update patches the mutable member fields.
func (s *PersonnelService) Update(ctx context.Context, id int64, req models.UpdatePersonnelRequest) (*models.PersonnelDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid personnel payload")
	}

	upd := models.PersonnelUpdate{IsActive: req.IsActive}
	if req.FirstName != nil {
		name := strings.TrimSpace(*req.FirstName)
		if name == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "firstName must not be empty")
		}
		upd.FirstName = &name
	}
	if req.LastName != nil {
		name := strings.TrimSpace(*req.LastName)
		if name == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "lastName must not be empty")
		}
		upd.LastName = &name
	}
	if req.SpecialPositionID.Set {
		if req.SpecialPositionID.Value != nil {
			if _, err := s.reference.GetSpecialPosition(ctx, *req.SpecialPositionID.Value); err != nil {
				return nil, err
			}
		}
		upd.SetSpecialPosition = true
		upd.SpecialPositionID = req.SpecialPositionID.Value
	}

	if err := s.repo.Update(ctx, id, upd); err != nil {
		return nil, personnelLookupError(err)
	}

	s.cache.Invalidate(ctx, dashboardCachePattern)
	return s.Get(ctx, id)
}

// Deactivate marks a member inactive.
func (s *PersonnelService) Deactivate(ctx context.Context, id int64) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return personnelLookupError(err)
	}
	s.cache.Invalidate(ctx, dashboardCachePattern)
	s.logger.Info("personnel deactivated", zap.Int64("personnel_id", id))
	return nil
}

func personnelLookupError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, "personnel not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to access personnel")
}
