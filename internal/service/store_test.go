package service

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/army-personnel-api/internal/models"
	"github.com/noah-isme/army-personnel-api/internal/repository"
	"github.com/noah-isme/army-personnel-api/internal/seed"
)

// memStore mirrors the repository semantics in memory: one member lock per write and
// totals recomputed from the full ledger.
type memStore struct {
	mu         sync.Mutex
	ranks      []models.Rank
	positions  []models.SpecialPosition
	personnel  map[int64]*models.Personnel
	entries    []models.PointEntry
	promotions []models.Promotion
	nextID     int64
}

func newMemStore() *memStore {
	s := &memStore{personnel: map[int64]*models.Personnel{}}
	for i, r := range seed.Ranks {
		r.ID = int64(i + 1)
		s.ranks = append(s.ranks, r)
	}
	for i, p := range seed.SpecialPositions {
		p.ID = int64(i + 1)
		s.positions = append(s.positions, p)
	}
	s.nextID = 100
	return s
}

func (s *memStore) rankByLevel(level int) models.Rank {
	for _, r := range s.ranks {
		if r.Level == level {
			return r
		}
	}
	panic("no rank at level")
}

func (s *memStore) positionByBonus(bonus int) models.SpecialPosition {
	for _, p := range s.positions {
		if p.BonusPointsPerWeek == bonus {
			return p
		}
	}
	panic("no position with bonus")
}

func (s *memStore) addPerson(armyID string, level, points int, positionID *int64) *models.Personnel {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	p := &models.Personnel{
		ID:                s.nextID,
		ArmyID:            armyID,
		FirstName:         "Max",
		LastName:          "Muster" + armyID,
		CurrentRankID:     s.rankByLevel(level).ID,
		TotalPoints:       points,
		SpecialPositionID: positionID,
		IsActive:          true,
		JoinDate:          time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	s.personnel[p.ID] = p
	return p
}

// addHistory appends a pre-existing ledger row and recomputes the member's total.
func (s *memStore) addHistory(personnelID int64, week models.Date, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.entries = append(s.entries, models.PointEntry{
		ID:              s.nextID,
		PersonnelID:     personnelID,
		WeekStart:       models.WeekStart(week.Time),
		ActivityPoints:  total,
		TotalWeekPoints: total,
	})
	sum := 0
	for _, e := range s.entries {
		if e.PersonnelID == personnelID {
			sum += e.TotalWeekPoints
		}
	}
	s.personnel[personnelID].TotalPoints = sum
}

func (s *memStore) person(id int64) models.Personnel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.personnel[id]
}

func (s *memStore) detail(p *models.Personnel) models.PersonnelDetail {
	d := models.PersonnelDetail{Personnel: *p}
	for i := range s.ranks {
		if s.ranks[i].ID == p.CurrentRankID {
			r := s.ranks[i]
			d.CurrentRank = &r
		}
	}
	if p.SpecialPositionID != nil {
		for i := range s.positions {
			if s.positions[i].ID == *p.SpecialPositionID {
				sp := s.positions[i]
				d.SpecialPosition = &sp
			}
		}
	}
	return d
}

func (s *memStore) matching(filter models.PersonnelFilter) []models.PersonnelDetail {
	out := []models.PersonnelDetail{}
	for _, p := range s.personnel {
		if filter.Active != nil && p.IsActive != *filter.Active {
			continue
		}
		if filter.RankID != nil && p.CurrentRankID != *filter.RankID {
			continue
		}
		if q := strings.ToLower(filter.Search); q != "" &&
			!strings.Contains(strings.ToLower(p.ArmyID+" "+p.FirstName+" "+p.LastName), q) {
			continue
		}
		out = append(out, s.detail(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ranks

type memRanks struct{ s *memStore }

func (r memRanks) List(context.Context) ([]models.Rank, error) {
	return append([]models.Rank(nil), r.s.ranks...), nil
}

func (r memRanks) FindByID(_ context.Context, id int64) (*models.Rank, error) {
	for _, rank := range r.s.ranks {
		if rank.ID == id {
			return &rank, nil
		}
	}
	return nil, sql.ErrNoRows
}

// special positions

type memPositions struct{ s *memStore }

func (r memPositions) List(context.Context) ([]models.SpecialPosition, error) {
	return append([]models.SpecialPosition(nil), r.s.positions...), nil
}

func (r memPositions) FindByID(_ context.Context, id int64) (*models.SpecialPosition, error) {
	for _, sp := range r.s.positions {
		if sp.ID == id {
			return &sp, nil
		}
	}
	return nil, sql.ErrNoRows
}

// personnel

type memPersonnel struct{ s *memStore }

func (r memPersonnel) List(_ context.Context, filter models.PersonnelFilter) ([]models.PersonnelDetail, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := r.s.matching(filter)
	from := (filter.Page - 1) * filter.PageSize
	if from > len(all) {
		from = len(all)
	}
	to := from + filter.PageSize
	if to > len(all) {
		to = len(all)
	}
	return all[from:to], len(all), nil
}

func (r memPersonnel) ListAll(_ context.Context, filter models.PersonnelFilter) ([]models.PersonnelDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.matching(filter), nil
}

func (r memPersonnel) FindByID(_ context.Context, id int64) (*models.PersonnelDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.personnel[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	d := r.s.detail(p)
	return &d, nil
}

func (r memPersonnel) FindByArmyID(_ context.Context, armyID string) (*models.PersonnelDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.personnel {
		if p.ArmyID == armyID {
			d := r.s.detail(p)
			return &d, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r memPersonnel) ExistsByArmyID(ctx context.Context, armyID string) (bool, error) {
	_, err := r.FindByArmyID(ctx, armyID)
	return err == nil, nil
}

func (r memPersonnel) Create(_ context.Context, p *models.Personnel) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.personnel {
		if existing.ArmyID == p.ArmyID {
			return repository.ErrArmyIDTaken
		}
	}
	r.s.nextID++
	p.ID = r.s.nextID
	p.TotalPoints = 0
	stored := *p
	r.s.personnel[p.ID] = &stored
	return nil
}

func (r memPersonnel) Update(_ context.Context, id int64, upd models.PersonnelUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.personnel[id]
	if !ok {
		return sql.ErrNoRows
	}
	if upd.FirstName != nil {
		p.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		p.LastName = *upd.LastName
	}
	if upd.SetSpecialPosition {
		p.SpecialPositionID = upd.SpecialPositionID
	}
	if upd.IsActive != nil {
		p.IsActive = *upd.IsActive
	}
	return nil
}

func (r memPersonnel) Deactivate(ctx context.Context, id int64) error {
	inactive := false
	return r.Update(ctx, id, models.PersonnelUpdate{IsActive: &inactive})
}

// ledger

type memLedger struct {
	s       *memStore
	creates int
}

func (r *memLedger) List(_ context.Context, filter models.PointEntryFilter) ([]models.PointEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.PointEntry{}
	for i := len(r.s.entries) - 1; i >= 0; i-- {
		e := r.s.entries[i]
		if filter.PersonnelID != nil && e.PersonnelID != *filter.PersonnelID {
			continue
		}
		if filter.WeekStart != nil && !e.WeekStart.Equal(filter.WeekStart.Time) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *memLedger) Create(_ context.Context, entry *models.PointEntry) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.creates++
	p, ok := r.s.personnel[entry.PersonnelID]
	if !ok {
		return 0, sql.ErrNoRows
	}
	for _, e := range r.s.entries {
		if e.PersonnelID == entry.PersonnelID && e.WeekStart.Equal(entry.WeekStart.Time) {
			return 0, repository.ErrDuplicatePointEntry
		}
	}
	bonus := 0
	if p.SpecialPositionID != nil {
		for _, sp := range r.s.positions {
			if sp.ID == *p.SpecialPositionID {
				bonus = sp.BonusPointsPerWeek
			}
		}
	}
	entry.ApplyBonus(bonus)
	r.s.nextID++
	entry.ID = r.s.nextID
	r.s.entries = append(r.s.entries, *entry)

	total := 0
	for _, e := range r.s.entries {
		if e.PersonnelID == entry.PersonnelID {
			total += e.TotalWeekPoints
		}
	}
	p.TotalPoints = total
	return total, nil
}

// promotions

type memPromotions struct{ s *memStore }

func (r memPromotions) List(_ context.Context, filter models.PromotionFilter) ([]models.Promotion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Promotion{}
	for i := len(r.s.promotions) - 1; i >= 0; i-- {
		p := r.s.promotions[i]
		if filter.PersonnelID != nil && p.PersonnelID != *filter.PersonnelID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r memPromotions) Create(_ context.Context, promo *models.Promotion) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.personnel[promo.PersonnelID]
	if !ok {
		return sql.ErrNoRows
	}
	promo.FromRankID = p.CurrentRankID
	promo.PointsAtPromotion = p.TotalPoints
	promo.PromotionDate = time.Now().UTC()
	r.s.nextID++
	promo.ID = r.s.nextID
	r.s.promotions = append(r.s.promotions, *promo)
	p.CurrentRankID = promo.ToRankID
	return nil
}

type memServices struct {
	store      *memStore
	ledgerRepo *memLedger
	reference  *ReferenceService
	personnel  *PersonnelService
	ledger     *PointEntryService
	promotions *PromotionService
}

func newMemServices() memServices {
	store := newMemStore()
	ledgerRepo := &memLedger{s: store}
	reference := NewReferenceService(memRanks{store}, memPositions{store})
	return memServices{
		store:      store,
		ledgerRepo: ledgerRepo,
		reference:  reference,
		personnel:  NewPersonnelService(memPersonnel{store}, reference, nil, nil, nil),
		ledger:     NewPointEntryService(ledgerRepo, nil, nil, nil, nil),
		promotions: NewPromotionService(memPromotions{store}, memPersonnel{store}, reference, nil, nil, nil, nil),
	}
}

var testActor = models.Actor{UserID: 1, Username: "admin", SessionID: "sess-1"}

func intPtr(v int) *int { return &v }

func int64Ptr(v int64) *int64 { return &v }

func mustDate(raw string) models.Date {
	d, err := models.ParseDate(raw)
	if err != nil {
		panic(err)
	}
	return d
}
