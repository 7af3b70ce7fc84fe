// Package agents holds one task handler per intent. Each handler exposes an
// optional tool-loop configuration (system prompt plus capability set) and a
// deterministic finalize step; finalize performs the same domain logic
// whether or not a tool loop ran first.
package agents

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/mealgraph/mealgraph/pkg/domain"
	"github.com/mealgraph/mealgraph/pkg/ports"
	"github.com/mealgraph/mealgraph/pkg/toolloop"
)

// Deps are the collaborators shared by every handler.
type Deps struct {
	Foods  ports.FoodSource
	Meals  ports.MealStore
	Goals  ports.GoalSource
	Logger *slog.Logger

	// Now is the clock used for today/yesterday resolution. Defaults to
	// time.Now; injected in tests.
	Now func() time.Time
}

func (d Deps) clock() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Deps) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Agent is one per-intent task handler.
type Agent interface {
	Intent() domain.Intent

	// SystemPrompt returns the loop prompt, or "" when the handler never
	// delegates to a model (barcode lookup is fully deterministic).
	SystemPrompt() string

	// Toolset returns the capability set for a loop run over s, or nil.
	// Sets are fixed per handler; the state is only captured so read
	// results (candidates) can be recorded on it.
	Toolset(s *domain.State) *toolloop.Toolset

	// Finalize performs the deterministic domain logic for the intent.
	// Domain failures are written onto the state; only infrastructure
	// errors are returned.
	Finalize(ctx context.Context, s *domain.State) error
}

// All constructs the five handlers over one dependency set, keyed by
// intent for the router.
func All(deps Deps) map[domain.Intent]Agent {
	return map[domain.Intent]Agent{
		domain.IntentScanBarcode:  NewBarcode(deps),
		domain.IntentSearchFood:   NewSearch(deps),
		domain.IntentLogMeal:      NewLogging(deps),
		domain.IntentDailySummary: NewAnalysis(deps),
		domain.IntentRecommend:    NewRecommend(deps),
	}
}
