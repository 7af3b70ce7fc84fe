package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/mealgraph/mealgraph/pkg/clarify"
	"github.com/mealgraph/mealgraph/pkg/domain"
	"github.com/mealgraph/mealgraph/pkg/toolloop"
)

const analysisPrompt = `You analyze a user's nutrition for a single day.
Use compute_day for the day's totals and get_goals for their targets. Present
the totals for every tracked nutrient and compare against goals where goals
exist. Be factual; do not speculate about meals that were not logged.`

// Analysis produces the daily summary with goal progress.
type Analysis struct {
	deps Deps
}

// NewAnalysis creates the daily_summary handler.
func NewAnalysis(deps Deps) *Analysis { return &Analysis{deps: deps} }

func (h *Analysis) Intent() domain.Intent { return domain.IntentDailySummary }

func (h *Analysis) SystemPrompt() string { return analysisPrompt }

func (h *Analysis) Toolset(s *domain.State) *toolloop.Toolset {
	return toolloop.NewToolset(
		h.deps.computeDayTool(s),
		h.deps.getGoalsTool(s),
	)
}

func (h *Analysis) Finalize(ctx context.Context, s *domain.State) error {
	date, ok := resolveDate(s.Entities.Date, h.deps.clock())
	if !ok {
		s.Clarify(clarify.QuestionWhichDay, clarify.QuestionWhichDay)
		return nil
	}

	day, err := h.deps.Meals.ComputeDay(ctx, s.UserID, date)
	if err != nil {
		if de, ok := domain.AsDomainError(err); ok {
			s.ErrorKind = de.Kind
			s.Response = fmt.Sprintf("Error computing daily summary: %s", de.Message)
			return nil
		}
		return err
	}
	s.DaySummary = day

	// Goals are optional enrichment: a user without goals still gets the
	// totals section.
	goals, err := h.deps.Goals.GetGoals(ctx, s.UserID)
	if err != nil {
		if _, ok := domain.AsDomainError(err); !ok {
			return err
		}
		goals = nil
	}

	s.Response = renderDaySummary(day, goals)
	return nil
}

func renderDaySummary(day *domain.DaySummary, goals map[string]float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Daily Summary for %s:\n", day.Date)
	fmt.Fprintf(&b, "Meals logged: %d\n", day.MealCount)
	for _, key := range domain.TrackedNutrients {
		fmt.Fprintf(&b, "%s: %.1f\n", domain.NutrientLabel(key), day.Totals[key])
	}

	if len(goals) > 0 {
		b.WriteString("\nGoal Progress:\n")
		for _, key := range domain.TrackedNutrients {
			goal, ok := goals[key]
			if !ok {
				continue
			}
			actual := day.Totals[key]
			status := "❌"
			if actual >= goal {
				status = "✅"
			}
			pct := 0.0
			if goal > 0 {
				pct = actual / goal * 100
			}
			fmt.Fprintf(&b, "%s %s: %.1f/%.1f (%.1f%%)\n", status, key, actual, goal, pct)
		}
	}
	return b.String()
}
