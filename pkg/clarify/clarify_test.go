package clarify

import (
	"testing"

	"github.com/mealgraph/mealgraph/pkg/domain"
)

func TestElicit_LogMealPriority(t *testing.T) {
	// Nothing known: the which-food question wins over grams and meal type.
	s := domain.NewState(1, "log")
	s.Intent = domain.IntentLogMeal
	Elicit(s)

	if !s.NeedsClarification || len(s.Questions) != 1 {
		t.Fatalf("invariant broken: needs=%v questions=%v", s.NeedsClarification, s.Questions)
	}
	if s.Questions[0] != QuestionWhichFoodToLog {
		t.Errorf("question = %q, want which-food (priority 1)", s.Questions[0])
	}

	// Food resolved via candidates: grams is next.
	s = domain.NewState(1, "log")
	s.Intent = domain.IntentLogMeal
	s.Candidates = []domain.FoodSummary{{ID: 1, Name: "Rolled Oats"}}
	Elicit(s)
	if s.Questions[0] != QuestionGrams {
		t.Errorf("question = %q, want grams (priority 2)", s.Questions[0])
	}

	// Grams present (even unnormalized): meal type is next.
	s = domain.NewState(1, "log")
	s.Intent = domain.IntentLogMeal
	s.Entities.FoodID = domain.Int(1)
	s.Entities.GramsRaw = "100g"
	Elicit(s)
	if s.Questions[0] != QuestionMealType {
		t.Errorf("question = %q, want meal type (priority 3)", s.Questions[0])
	}
}

func TestElicit_PerIntentQuestions(t *testing.T) {
	cases := []struct {
		name   string
		intent domain.Intent
		want   string
	}{
		{"search needs food name", domain.IntentSearchFood, QuestionFoodToSearch},
		{"barcode needs upc", domain.IntentScanBarcode, QuestionUPC},
		{"summary needs date", domain.IntentDailySummary, QuestionWhichDay},
		{"recommend needs date", domain.IntentRecommend, QuestionWhichDay},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := domain.NewState(1, "x")
			s.Intent = tc.intent
			Elicit(s)
			if len(s.Questions) != 1 || s.Questions[0] != tc.want {
				t.Errorf("questions = %v, want [%q]", s.Questions, tc.want)
			}
			if s.Response != tc.want {
				t.Errorf("response = %q, want the question itself", s.Response)
			}
		})
	}
}

func TestElicit_GenericFallback(t *testing.T) {
	s := domain.NewState(1, "hmm")
	Elicit(s)
	if s.Questions[0] != QuestionGeneric {
		t.Errorf("question = %q, want generic fallback", s.Questions[0])
	}

	// All slots satisfied for the intent also falls back to generic.
	s = domain.NewState(1, "search oats")
	s.Intent = domain.IntentSearchFood
	s.Entities.FoodName = "oats"
	Elicit(s)
	if s.Questions[0] != QuestionGeneric {
		t.Errorf("question = %q, want generic fallback", s.Questions[0])
	}
}
