package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/army-personnel-api/internal/models"
)

// DashboardRepository derives roster aggregates on demand.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs a dashboard repository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Counts returns roster counts and the promotions recorded in [weekStart, weekEnd).
func (r *DashboardRepository) Counts(ctx context.Context, weekStart, weekEnd time.Time) (models.DashboardCounts, error) {
	const query = `SELECT
(SELECT COUNT(*) FROM personnel) AS total_personnel,
(SELECT COUNT(*) FROM personnel WHERE is_active) AS active_members,
(SELECT COUNT(*) FROM promotions WHERE promotion_date >= $1 AND promotion_date < $2) AS promotions_this_week,
(SELECT COALESCE(SUM(total_points), 0) FROM personnel WHERE is_active) AS active_points_sum`
	var counts models.DashboardCounts
	if err := r.db.GetContext(ctx, &counts, query, weekStart, weekEnd); err != nil {
		return models.DashboardCounts{}, fmt.Errorf("dashboard counts: %w", err)
	}
	return counts, nil
}

// RankDistribution counts holders per rank, including ranks nobody holds, in level order.
func (r *DashboardRepository) RankDistribution(ctx context.Context) ([]models.RankDistributionItem, error) {
	const query = `SELECT r.id, r.level, r.name, r.points_required, r.points_from_previous, COUNT(p.id) AS holders
FROM ranks r
LEFT JOIN personnel p ON p.current_rank_id = r.id
GROUP BY r.id, r.level, r.name, r.points_required, r.points_from_previous
ORDER BY r.level ASC`
	var rows []struct {
		models.Rank
		Holders int `db:"holders"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("rank distribution: %w", err)
	}

	items := make([]models.RankDistributionItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, models.RankDistributionItem{Rank: row.Rank, Count: row.Holders})
	}
	return items, nil
}
