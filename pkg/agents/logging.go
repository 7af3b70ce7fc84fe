package agents

import (
	"context"
	"fmt"

	"github.com/mealgraph/mealgraph/pkg/domain"
	"github.com/mealgraph/mealgraph/pkg/toolloop"
	"github.com/mealgraph/mealgraph/pkg/validate"
)

const loggingPrompt = `You help users log meals against a nutrition catalog.
Use list_foods to show catalog entries and list_meals to review what the user
already logged. Confirm the food, the amount in grams and the meal type before
considering the request complete. Never invent food ids.`

// Logging records a meal for the user. The write itself happens only here,
// in finalize; the loop toolset is restricted to reads so a loop run and the
// deterministic path cannot both record the meal.
type Logging struct {
	deps Deps
}

// NewLogging creates the log_meal handler.
func NewLogging(deps Deps) *Logging { return &Logging{deps: deps} }

func (h *Logging) Intent() domain.Intent { return domain.IntentLogMeal }

func (h *Logging) SystemPrompt() string { return loggingPrompt }

func (h *Logging) Toolset(s *domain.State) *toolloop.Toolset {
	return toolloop.NewToolset(
		h.deps.listFoodsTool(s),
		h.deps.listMealsTool(s),
	)
}

func (h *Logging) Finalize(ctx context.Context, s *domain.State) error {
	// Normalize a textual amount up front; the grams value gates most of
	// the flow below. An unreadable amount is left for the validator,
	// which owns that wording.
	if s.Entities.Grams == nil && s.Entities.GramsRaw != "" {
		g, err := validate.NormalizeGrams(s.Entities.GramsRaw)
		if err != nil {
			return nil
		}
		s.Entities.Grams = domain.Float(g)
		s.Entities.GramsRaw = ""
	}

	foodID, ok, err := h.resolveFood(ctx, s)
	if err != nil || !ok {
		return err
	}

	if s.Entities.Grams == nil {
		if s.Selected != nil {
			s.Clarify(
				"How many grams?",
				fmt.Sprintf("How many grams of %s would you like to log?", s.Selected.Name),
			)
		} else {
			s.Clarify("How many grams?", "How many grams would you like to log?")
		}
		return nil
	}

	// Out-of-range amounts are never written; the validator owns the
	// clarification wording for them.
	if g := *s.Entities.Grams; g <= 0 || g > validate.MaxGrams {
		return nil
	}

	mealType := s.Entities.MealType
	if mealType == "" {
		mealType = "snack"
	}

	rec, err := h.deps.Meals.CreateMealLog(ctx, s.UserID, foodID, *s.Entities.Grams, mealType, "")
	if err != nil {
		if de, ok := domain.AsDomainError(err); ok {
			s.ErrorKind = de.Kind
			s.Response = fmt.Sprintf("Error logging meal: %s", de.Message)
			return nil
		}
		return err
	}

	s.LogResult = rec
	s.Response = fmt.Sprintf("Logged %gg of %s (%s).", rec.Grams, rec.FoodName, rec.MealType)
	h.deps.logger().Debug("meal logged", "user_id", rec.UserID, "food_id", rec.FoodID, "grams", rec.Grams)
	return nil
}

// resolveFood settles which catalog food the user means. ok is false when a
// clarification was issued instead.
func (h *Logging) resolveFood(ctx context.Context, s *domain.State) (int64, bool, error) {
	if s.Entities.HasFoodID() {
		return *s.Entities.FoodID, true, nil
	}
	if s.Selected != nil {
		return s.Selected.ID, true, nil
	}

	if len(s.Candidates) == 0 && s.Entities.FoodName != "" {
		foods, err := h.deps.Foods.SearchByName(ctx, s.Entities.FoodName, 5)
		if err != nil {
			if de, ok := domain.AsDomainError(err); ok {
				s.ErrorKind = de.Kind
				s.Response = fmt.Sprintf("Error logging meal: %s", de.Message)
				return 0, false, nil
			}
			return 0, false, err
		}
		s.Candidates = foods
	}

	switch len(s.Candidates) {
	case 0:
		// Nothing to go on; surface a browse page so the follow-up turn
		// can answer with a name or id.
		foods, err := h.deps.Foods.ListFoods(ctx, 5, 0)
		if err == nil {
			s.Candidates = foods
		}
		s.Clarify(
			"What food would you like to log? You can choose an ID from suggestions.",
			"What food would you like to log?",
		)
		return 0, false, nil
	case 1:
		s.Selected = &s.Candidates[0]
		return s.Selected.ID, true, nil
	default:
		s.Clarify(
			fmt.Sprintf("Which food (1-%d)?", len(s.Candidates)),
			"Please specify which food item you'd like to log.",
		)
		return 0, false, nil
	}
}
