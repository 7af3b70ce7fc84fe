package agents

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mealgraph/mealgraph/pkg/clarify"
	"github.com/mealgraph/mealgraph/pkg/domain"
	"github.com/mealgraph/mealgraph/pkg/toolloop"
)

const recommendPrompt = `You recommend foods that close a user's nutrient gaps.
Use compute_day for today's totals and get_goals for their targets. Recommend
only foods that exist in the catalog, assume 100g servings, and explain which
gap each pick addresses.`

const (
	maxGapKeys = 6
	maxPicks   = 5
)

// Recommend scores catalog foods by how much a 100g serving closes the
// user's largest remaining nutrient gaps for the day.
type Recommend struct {
	deps Deps
}

// NewRecommend creates the recommend handler.
func NewRecommend(deps Deps) *Recommend { return &Recommend{deps: deps} }

func (h *Recommend) Intent() domain.Intent { return domain.IntentRecommend }

func (h *Recommend) SystemPrompt() string { return recommendPrompt }

func (h *Recommend) Toolset(s *domain.State) *toolloop.Toolset {
	return toolloop.NewToolset(
		h.deps.computeDayTool(s),
		h.deps.getGoalsTool(s),
	)
}

func (h *Recommend) Finalize(ctx context.Context, s *domain.State) error {
	date, ok := resolveDate(s.Entities.Date, h.deps.clock())
	if !ok {
		s.Clarify(clarify.QuestionWhichDay, clarify.QuestionWhichDay)
		return nil
	}

	day, err := h.deps.Meals.ComputeDay(ctx, s.UserID, date)
	if err != nil {
		if de, ok := domain.AsDomainError(err); ok {
			s.ErrorKind = de.Kind
			s.Response = fmt.Sprintf("Error computing recommendations: %s", de.Message)
			return nil
		}
		return err
	}

	goals, err := h.deps.Goals.GetGoals(ctx, s.UserID)
	if err != nil {
		if _, ok := domain.AsDomainError(err); !ok {
			return err
		}
		goals = nil
	}

	gaps := nutrientGaps(goals, day.Totals)
	if len(gaps) == 0 {
		s.Response = "You're meeting your goals today. Nice work!"
		return nil
	}
	gapKeys := topGapKeys(gaps, maxGapKeys)

	catalog, err := h.deps.Foods.Catalog(ctx)
	if err != nil {
		if de, ok := domain.AsDomainError(err); ok {
			s.ErrorKind = de.Kind
			s.Response = fmt.Sprintf("Error computing recommendations: %s", de.Message)
			return nil
		}
		return err
	}

	picks := rankFoods(catalog, gaps, gapKeys)
	if len(picks) == 0 {
		s.Response = "I couldn't find foods that improve your biggest gaps from the current list."
		return nil
	}

	s.Recommendations = picks
	s.Response = renderRecommendations(picks, gapKeys)
	return nil
}

// nutrientGaps returns goal minus actual for every goal nutrient still short.
func nutrientGaps(goals, totals map[string]float64) map[string]float64 {
	gaps := make(map[string]float64, len(goals))
	for key, goal := range goals {
		if delta := goal - totals[key]; delta > 0 {
			gaps[key] = delta
		}
	}
	return gaps
}

// topGapKeys orders gaps largest first; equal gaps break by nutrient name so
// the ranking is stable run to run.
func topGapKeys(gaps map[string]float64, limit int) []string {
	keys := make([]string, 0, len(gaps))
	for k := range gaps {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if gaps[keys[i]] != gaps[keys[j]] {
			return gaps[keys[i]] > gaps[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}

// rankFoods scores each catalog food by the fraction of the top gaps a 100g
// serving closes. Ties keep catalog order.
func rankFoods(catalog []domain.FoodProfile, gaps map[string]float64, gapKeys []string) []domain.RecommendationItem {
	ranked := make([]domain.RecommendationItem, 0, len(catalog))
	for _, food := range catalog {
		score := 0.0
		coverage := map[string]float64{}
		for _, key := range gapKeys {
			value := food.Nutrients[key]
			if value <= 0 {
				continue
			}
			covered := value
			if covered > gaps[key] {
				covered = gaps[key]
			}
			coverage[key] = covered
			score += covered / gaps[key]
		}
		if score > 0 {
			ranked = append(ranked, domain.RecommendationItem{
				FoodID:          food.ID,
				Name:            food.Name,
				Brand:           food.Brand,
				Coverage:        coverage,
				CaloriesPer100g: food.Calories,
				Score:           score,
			})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	if len(ranked) > maxPicks {
		ranked = ranked[:maxPicks]
	}
	return ranked
}

func renderRecommendations(picks []domain.RecommendationItem, gapKeys []string) string {
	lines := []string{"Recommendations (100g servings):"}
	for _, pick := range picks {
		parts := make([]string, 0, len(pick.Coverage))
		for _, key := range gapKeys {
			if v, ok := pick.Coverage[key]; ok {
				parts = append(parts, fmt.Sprintf("%s: +%.1f", key, v))
			}
		}
		lines = append(lines, fmt.Sprintf("- %s (%s) - covers %s", pick.Name, pick.Brand, strings.Join(parts, ", ")))
	}
	return strings.Join(lines, "\n")
}
