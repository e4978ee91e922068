package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/army-personnel-api/internal/models"
	appErrors "github.com/noah-isme/army-personnel-api/pkg/errors"
)

const dashboardCachePattern = "dash:*"

type dashboardRepository interface {
	Counts(ctx context.Context, weekStart, weekEnd time.Time) (models.DashboardCounts, error)
	RankDistribution(ctx context.Context) ([]models.RankDistributionItem, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
}

// DashboardService derives the roster summary. Cached values are keyed by week so a new week
// never serves last week's numbers.
type DashboardService struct {
	repo   dashboardRepository
	cache  *CacheService
	logger *zap.Logger
	now    func() time.Time
	cfg    DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(repo dashboardRepository, cache *CacheService, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, cache: cache, logger: logger, now: time.Now, cfg: cfg}
}

// Stats returns the headline numbers and reports whether they came from cache.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, bool, error) {
	now := s.now().UTC()
	key := "dash:stats:" + models.WeekKey(now)

	var cached models.DashboardStats
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	start, end := models.WeekWindow(now)
	counts, err := s.repo.Counts(ctx, start, end)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dashboard stats")
	}

	stats := &models.DashboardStats{
		TotalPersonnel:     counts.TotalPersonnel,
		ActiveMembers:      counts.ActiveMembers,
		PromotionsThisWeek: counts.PromotionsThisWeek,
		AveragePoints:      averagePoints(counts.ActivePointsSum, counts.ActiveMembers),
	}
	s.cache.Set(ctx, key, stats, s.cfg.CacheTTL)
	return stats, false, nil
}

// RankDistribution returns member counts for every rank, including empty ones.
func (s *DashboardService) RankDistribution(ctx context.Context) ([]models.RankDistributionItem, bool, error) {
	key := "dash:ranks:" + models.WeekKey(s.now().UTC())

	var cached []models.RankDistributionItem
	if s.cache.Get(ctx, key, &cached) {
		return cached, true, nil
	}

	items, err := s.repo.RankDistribution(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rank distribution")
	}
	if items == nil {
		items = []models.RankDistributionItem{}
	}
	s.cache.Set(ctx, key, items, s.cfg.CacheTTL)
	return items, false, nil
}

func averagePoints(sum int64, members int) int {
	if members <= 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(members)))
}
