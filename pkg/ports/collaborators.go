package ports

import (
	"context"
	"time"

	"github.com/mealgraph/mealgraph/pkg/domain"
)

// FoodSource resolves foods by name, barcode or browsing. Result order is
// owned by the implementation and must be preserved by consumers.
type FoodSource interface {
	// SearchByName returns up to limit foods matching query (partial,
	// case-insensitive).
	SearchByName(ctx context.Context, query string, limit int) ([]domain.FoodSummary, error)

	// LookupByUPC returns zero or more foods registered under a UPC.
	LookupByUPC(ctx context.Context, code string) ([]domain.FoodSummary, error)

	// ListFoods returns a browse page of the catalog.
	ListFoods(ctx context.Context, limit, offset int) ([]domain.FoodSummary, error)

	// Catalog returns every food with its full per-100g nutrient profile,
	// in stable first-seen order.
	Catalog(ctx context.Context) ([]domain.FoodProfile, error)
}

// MealStore records meals and recomputes day aggregates. CreateMealLog is
// atomic: the log is fully recorded or not at all. Domain failures are
// returned as *domain.DomainError and are not retried.
type MealStore interface {
	CreateMealLog(ctx context.Context, userID, foodID int64, grams float64, mealType, notes string) (*domain.LogRecord, error)

	// ComputeDay aggregates the persisted logs for one calendar date. It
	// always recomputes from the current persisted set.
	ComputeDay(ctx context.Context, userID int64, date time.Time) (*domain.DaySummary, error)

	// ListMeals returns a page of the user's logged meals, newest first.
	ListMeals(ctx context.Context, userID int64, limit, offset int) ([]domain.MealRef, error)
}

// GoalSource owns per-user nutrient goals, keyed by nutrient name.
type GoalSource interface {
	GetGoals(ctx context.Context, userID int64) (map[string]float64, error)
	SetGoals(ctx context.Context, userID int64, goals map[string]float64) error
}

// ContextStore keeps per-user clarification context between a question turn
// and its answer turn. It lives outside the core: only outer adapters (the
// HTTP server, the REPL) read or write it, and they re-supply the loaded
// context to the pipeline explicitly.
type ContextStore interface {
	Save(ctx context.Context, userID int64, pc domain.PriorContext) error
	// Load returns domain.ErrContextNotFound when nothing is stored.
	Load(ctx context.Context, userID int64) (domain.PriorContext, error)
	Delete(ctx context.Context, userID int64) error
}
