// Package memory is the embedded data backend: a seeded food catalog, meal
// logs and per-user goals behind one mutex. It backs the CLI and the test
// suites; swap in a real database by reimplementing the same ports.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mealgraph/mealgraph/pkg/domain"
)

// Store implements ports.FoodSource, ports.MealStore and ports.GoalSource
// over in-process maps. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	foods   []domain.FoodProfile
	users   map[int64]string
	goals   map[int64]map[string]float64
	logs    []domain.LogRecord
	nextLog int64
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the wall clock used for log timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a store pre-seeded with the starter catalog, the demo user
// and their goals.
func New(opts ...Option) *Store {
	s := &Store{
		users:   map[int64]string{demoUserID: demoUserName},
		goals:   map[int64]map[string]float64{demoUserID: demoGoals()},
		nextLog: 1,
		now:     time.Now,
	}
	s.foods = seedCatalog()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddUser registers a user id so meals and goals can be recorded for it.
func (s *Store) AddUser(id int64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = name
}

// AddFood appends a food to the catalog.
func (s *Store) AddFood(f domain.FoodProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.foods = append(s.foods, f)
}

func (s *Store) SearchByName(_ context.Context, query string, limit int) ([]domain.FoodSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}
	var out []domain.FoodSummary
	for _, f := range s.foods {
		if strings.Contains(strings.ToLower(f.Name), q) {
			out = append(out, f.FoodSummary)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *Store) LookupByUPC(_ context.Context, code string) ([]domain.FoodSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.FoodSummary
	for _, f := range s.foods {
		if f.UPC == code {
			out = append(out, f.FoodSummary)
		}
	}
	return out, nil
}

func (s *Store) ListFoods(_ context.Context, limit, offset int) ([]domain.FoodSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if offset < 0 || offset >= len(s.foods) {
		return nil, nil
	}
	end := len(s.foods)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]domain.FoodSummary, 0, end-offset)
	for _, f := range s.foods[offset:end] {
		out = append(out, f.FoodSummary)
	}
	return out, nil
}

func (s *Store) Catalog(context.Context) ([]domain.FoodProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.FoodProfile, len(s.foods))
	copy(out, s.foods)
	return out, nil
}

func (s *Store) findFood(id int64) (domain.FoodProfile, bool) {
	for _, f := range s.foods {
		if f.ID == id {
			return f, true
		}
	}
	return domain.FoodProfile{}, false
}

func (s *Store) CreateMealLog(_ context.Context, userID, foodID int64, grams float64, mealType, notes string) (*domain.LogRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return nil, domain.ErrUserNotFound()
	}
	food, ok := s.findFood(foodID)
	if !ok {
		return nil, domain.ErrFoodNotFound()
	}

	rec := domain.LogRecord{
		ID:       s.nextLog,
		UserID:   userID,
		FoodID:   foodID,
		FoodName: food.Name,
		Grams:    grams,
		MealType: mealType,
		Notes:    notes,
		LoggedAt: s.now(),
	}
	s.nextLog++
	s.logs = append(s.logs, rec)

	out := rec
	return &out, nil
}

func (s *Store) ComputeDay(_ context.Context, userID int64, date time.Time) (*domain.DaySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.users[userID]; !ok {
		return nil, domain.ErrUserNotFound()
	}

	day := date.Format("2006-01-02")
	summary := &domain.DaySummary{
		Date:   day,
		Totals: make(map[string]float64, len(domain.TrackedNutrients)),
	}
	for _, key := range domain.TrackedNutrients {
		summary.Totals[key] = 0
	}

	for _, rec := range s.logs {
		if rec.UserID != userID || rec.LoggedAt.Format("2006-01-02") != day {
			continue
		}
		summary.MealCount++
		summary.Meals = append(summary.Meals, domain.MealRef{
			ID:       rec.ID,
			FoodName: rec.FoodName,
			Grams:    rec.Grams,
			MealType: rec.MealType,
			LoggedAt: rec.LoggedAt,
		})
		if food, ok := s.findFood(rec.FoodID); ok {
			factor := rec.Grams / 100
			for key, value := range food.Nutrients {
				summary.Totals[key] += value * factor
			}
		}
	}
	return summary, nil
}

func (s *Store) ListMeals(_ context.Context, userID int64, limit, offset int) ([]domain.MealRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.users[userID]; !ok {
		return nil, domain.ErrUserNotFound()
	}

	var refs []domain.MealRef
	for _, rec := range s.logs {
		if rec.UserID != userID {
			continue
		}
		refs = append(refs, domain.MealRef{
			ID:       rec.ID,
			FoodName: rec.FoodName,
			Grams:    rec.Grams,
			MealType: rec.MealType,
			LoggedAt: rec.LoggedAt,
		})
	}
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].LoggedAt.After(refs[j].LoggedAt)
	})

	if offset < 0 || offset >= len(refs) {
		return nil, nil
	}
	end := len(refs)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return refs[offset:end], nil
}

func (s *Store) GetGoals(_ context.Context, userID int64) (map[string]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.users[userID]; !ok {
		return nil, domain.ErrUserNotFound()
	}
	out := make(map[string]float64, len(s.goals[userID]))
	for k, v := range s.goals[userID] {
		out[k] = v
	}
	return out, nil
}

func (s *Store) SetGoals(_ context.Context, userID int64, goals map[string]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return domain.ErrUserNotFound()
	}
	cp := make(map[string]float64, len(goals))
	for k, v := range goals {
		cp[k] = v
	}
	s.goals[userID] = cp
	return nil
}
