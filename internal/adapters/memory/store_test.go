package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealgraph/mealgraph/pkg/domain"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestSearchByName_PartialCaseInsensitive(t *testing.T) {
	s := New()
	foods, err := s.SearchByName(context.Background(), "RAW", 10)
	require.NoError(t, err)
	require.Len(t, foods, 4)
	assert.Equal(t, "Spinach, raw", foods[0].Name)

	foods, err = s.SearchByName(context.Background(), "raw", 2)
	require.NoError(t, err)
	assert.Len(t, foods, 2)
}

func TestLookupByUPC(t *testing.T) {
	s := New()
	foods, err := s.LookupByUPC(context.Background(), "000000000003")
	require.NoError(t, err)
	require.Len(t, foods, 1)
	assert.Equal(t, "Atlantic Salmon, raw", foods[0].Name)

	foods, err = s.LookupByUPC(context.Background(), "999999999999")
	require.NoError(t, err)
	assert.Empty(t, foods)
}

func TestListFoods_Paging(t *testing.T) {
	s := New()
	page, err := s.ListFoods(context.Background(), 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(1), page[0].ID)

	page, err = s.ListFoods(context.Background(), 2, 4)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, int64(5), page[0].ID)

	page, err = s.ListFoods(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestCreateMealLog(t *testing.T) {
	now := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	s := New(WithClock(fixedClock(now)))

	rec, err := s.CreateMealLog(context.Background(), 1, 1, 100, "breakfast", "")
	require.NoError(t, err)
	assert.Equal(t, "Rolled Oats", rec.FoodName)
	assert.Equal(t, now, rec.LoggedAt)

	_, err = s.CreateMealLog(context.Background(), 42, 1, 100, "breakfast", "")
	de, ok := domain.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, domain.ErrKindUserNotFound, de.Kind)

	_, err = s.CreateMealLog(context.Background(), 1, 999, 100, "breakfast", "")
	de, ok = domain.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, domain.ErrKindFoodNotFound, de.Kind)
}

func TestComputeDay_RecomputesFromLogs(t *testing.T) {
	now := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	s := New(WithClock(fixedClock(now)))

	_, err := s.CreateMealLog(context.Background(), 1, 1, 100, "breakfast", "")
	require.NoError(t, err)
	_, err = s.CreateMealLog(context.Background(), 1, 2, 200, "lunch", "")
	require.NoError(t, err)

	day, err := s.ComputeDay(context.Background(), 1, now)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-15", day.Date)
	assert.Equal(t, 2, day.MealCount)
	assert.InDelta(t, 389+2*23, day.Totals["calories"], 1e-9)
	assert.InDelta(t, 16.9+2*2.9, day.Totals["protein_g"], 1e-9)
	require.Len(t, day.Meals, 2)

	// Another day is empty but still carries every tracked nutrient key.
	other, err := s.ComputeDay(context.Background(), 1, now.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, other.MealCount)
	assert.Len(t, other.Totals, len(domain.TrackedNutrients))
}

func TestListMeals_NewestFirst(t *testing.T) {
	now := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	clock := now
	s := New(WithClock(func() time.Time {
		clock = clock.Add(time.Hour)
		return clock
	}))

	_, err := s.CreateMealLog(context.Background(), 1, 1, 100, "breakfast", "")
	require.NoError(t, err)
	_, err = s.CreateMealLog(context.Background(), 1, 2, 50, "lunch", "")
	require.NoError(t, err)

	meals, err := s.ListMeals(context.Background(), 1, 10, 0)
	require.NoError(t, err)
	require.Len(t, meals, 2)
	assert.Equal(t, "Spinach, raw", meals[0].FoodName)
}

func TestGoals_RoundTrip(t *testing.T) {
	s := New()

	goals, err := s.GetGoals(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, goals["calories"])

	// Returned map is a copy; mutating it does not affect the store.
	goals["calories"] = 1
	again, err := s.GetGoals(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, again["calories"])

	require.NoError(t, s.SetGoals(context.Background(), 1, map[string]float64{"protein_g": 120}))
	updated, err := s.GetGoals(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"protein_g": 120}, updated)

	_, err = s.GetGoals(context.Background(), 42)
	de, ok := domain.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, domain.ErrKindUserNotFound, de.Kind)
}
