// Package clarify produces the single follow-up question asked when a turn
// cannot complete. A fixed per-intent priority table decides which missing
// slot is surfaced; everything else is deferred to a later turn.
package clarify

import "github.com/mealgraph/mealgraph/pkg/domain"

// Question wording, shared with tests.
const (
	QuestionWhichFoodToLog = "Which food would you like to log? You can say a name or provide food_id."
	QuestionGrams          = "How many grams?"
	QuestionMealType       = "Which meal was this for (breakfast/lunch/dinner/snack)?"
	QuestionFoodToSearch   = "What food would you like to search for?"
	QuestionUPC            = "Please provide the UPC (12 digits)."
	QuestionWhichDay       = "For which day? You can say 'today' or 'yesterday'."
	QuestionGeneric        = "Could you clarify your request with a bit more detail?"
)

// Elicit always marks the state as needing clarification with exactly one
// question: the first unmet check for the active intent, or the generic
// question when nothing in the table matches.
func Elicit(s *domain.State) {
	q := firstUnmet(s)
	s.Clarify(q, q)
}

func firstUnmet(s *domain.State) string {
	ent := s.Entities
	switch s.Intent {
	case domain.IntentLogMeal:
		if !ent.HasFoodID() && s.Selected == nil && len(s.Candidates) == 0 {
			return QuestionWhichFoodToLog
		}
		if !ent.HasGrams() {
			return QuestionGrams
		}
		if ent.MealType == "" {
			return QuestionMealType
		}
	case domain.IntentSearchFood:
		if ent.FoodName == "" {
			return QuestionFoodToSearch
		}
	case domain.IntentScanBarcode:
		if ent.UPC == "" {
			return QuestionUPC
		}
	case domain.IntentDailySummary, domain.IntentRecommend:
		if ent.Date == "" {
			return QuestionWhichDay
		}
	}
	return QuestionGeneric
}
