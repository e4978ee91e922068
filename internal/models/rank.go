package models

import (
	"fmt"
	"sort"
)

// Rank is one rung of the promotion ladder.
type Rank struct {
	ID                 int64  `db:"id" json:"id"`
	Level              int    `db:"level" json:"level"`
	Name               string `db:"name" json:"name"`
	PointsRequired     int    `db:"points_required" json:"pointsRequired"`
	PointsFromPrevious int    `db:"points_from_previous" json:"pointsFromPrevious"`
}

// Eligibility describes how close a person is to the next rank.
type Eligibility struct {
	CurrentLevel int   `json:"currentLevel"`
	NextRank     *Rank `json:"nextRank,omitempty"`
	PointsToNext int   `json:"pointsToNext"`
	Eligible     bool  `json:"eligible"`
}

// RankLadder is an immutable, level-ordered view over the configured ranks.
type RankLadder struct {
	ranks   []Rank
	byLevel map[int]Rank
	byID    map[int64]Rank
}

// NewRankLadder copies and orders ranks by level.
func NewRankLadder(ranks []Rank) RankLadder {
	sorted := make([]Rank, len(ranks))
	copy(sorted, ranks)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Level < sorted[j].Level })

	l := RankLadder{
		ranks:   sorted,
		byLevel: make(map[int]Rank, len(sorted)),
		byID:    make(map[int64]Rank, len(sorted)),
	}
	for _, r := range sorted {
		l.byLevel[r.Level] = r
		l.byID[r.ID] = r
	}
	return l
}

// Ranks returns the ranks in level order.
func (l RankLadder) Ranks() []Rank {
	out := make([]Rank, len(l.ranks))
	copy(out, l.ranks)
	return out
}

// ByID looks up a rank by its id.
func (l RankLadder) ByID(id int64) (Rank, bool) {
	r, ok := l.byID[id]
	return r, ok
}

// Next returns the rank exactly one level above level. A gap in levels means there is no next rank.
func (l RankLadder) Next(level int) (Rank, bool) {
	r, ok := l.byLevel[level+1]
	return r, ok
}

// Eligibility reports whether totalPoints reaches the threshold of the rank above level.
func (l RankLadder) Eligibility(level, totalPoints int) Eligibility {
	e := Eligibility{CurrentLevel: level}
	next, ok := l.Next(level)
	if !ok {
		return e
	}
	e.NextRank = &next
	e.Eligible = totalPoints >= next.PointsRequired
	if !e.Eligible {
		e.PointsToNext = next.PointsRequired - totalPoints
	}
	return e
}

// Validate checks that thresholds never decrease and each delta matches its predecessor.
func (l RankLadder) Validate() error {
	for i, r := range l.ranks {
		if i == 0 {
			if r.PointsFromPrevious != 0 {
				return fmt.Errorf("lowest rank %d must have pointsFromPrevious 0, got %d", r.Level, r.PointsFromPrevious)
			}
			continue
		}
		prev := l.ranks[i-1]
		if prev.Level == r.Level {
			return fmt.Errorf("duplicate rank level %d", r.Level)
		}
		if r.PointsRequired < prev.PointsRequired {
			return fmt.Errorf("rank %d requires %d points, below rank %d (%d)", r.Level, r.PointsRequired, prev.Level, prev.PointsRequired)
		}
		if want := r.PointsRequired - prev.PointsRequired; r.PointsFromPrevious != want {
			return fmt.Errorf("rank %d pointsFromPrevious is %d, want %d", r.Level, r.PointsFromPrevious, want)
		}
	}
	return nil
}
