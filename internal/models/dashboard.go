package models

// DashboardStats summarises the roster.
type DashboardStats struct {
	TotalPersonnel     int `json:"totalPersonnel"`
	ActiveMembers      int `json:"activeMembers"`
	PromotionsThisWeek int `json:"promotionsThisWeek"`
	AveragePoints      int `json:"averagePoints"`
}

// RankDistributionItem counts the members currently holding a rank.
type RankDistributionItem struct {
	Rank  Rank `json:"rank"`
	Count int  `json:"count"`
}

// DashboardCounts are the raw aggregates behind DashboardStats.
type DashboardCounts struct {
	TotalPersonnel     int   `db:"total_personnel"`
	ActiveMembers      int   `db:"active_members"`
	PromotionsThisWeek int   `db:"promotions_this_week"`
	ActivePointsSum    int64 `db:"active_points_sum"`
}
