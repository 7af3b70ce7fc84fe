package extract

import (
	"testing"

	"github.com/mealgraph/mealgraph/pkg/domain"
)

func TestHeuristic_IntentPrecedence(t *testing.T) {
	cases := []struct {
		name string
		text string
		want domain.Intent
	}{
		{"barcode keyword", "scan this barcode for me", domain.IntentScanBarcode},
		{"upc keyword", "upc 123456789012", domain.IntentScanBarcode},
		{"search prefix", "search oats", domain.IntentSearchFood},
		{"recommend keyword", "recommend something for dinner", domain.IntentRecommend},
		{"suggest keyword", "suggest foods", domain.IntentRecommend},
		{"summary keyword", "show my summary", domain.IntentDailySummary},
		{"bare today", "today", domain.IntentDailySummary},
		{"bare yesterday", "yesterday", domain.IntentDailySummary},
		{"log keyword", "log 100g of oats", domain.IntentLogMeal},
		{"ate keyword", "I ate salmon for lunch", domain.IntentLogMeal},
		{"grams only implies log", "250g food_id=2", domain.IntentLogMeal},
		{"fallback", "oats", domain.IntentSearchFood},
		// "scan" outranks "log" per fixed precedence.
		{"barcode wins over log", "log the food I scanned", domain.IntentScanBarcode},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Heuristic(tc.text)
			if res.Intent != tc.want {
				t.Errorf("Heuristic(%q) intent = %q, want %q", tc.text, res.Intent, tc.want)
			}
			if res.Confidence != HeuristicConfidence {
				t.Errorf("confidence = %v, want %v", res.Confidence, HeuristicConfidence)
			}
		})
	}
}

func TestHeuristic_Entities(t *testing.T) {
	res := Heuristic("log meal: 100g food_id=1 for breakfast")

	if res.Intent != domain.IntentLogMeal {
		t.Fatalf("intent = %q, want log_meal", res.Intent)
	}
	if res.Entities.Grams == nil || *res.Entities.Grams != 100.0 {
		t.Errorf("grams = %v, want 100.0", res.Entities.Grams)
	}
	if res.Entities.FoodID == nil || *res.Entities.FoodID != 1 {
		t.Errorf("food_id = %v, want 1", res.Entities.FoodID)
	}
	if res.Entities.MealType != "breakfast" {
		t.Errorf("meal_type = %q, want breakfast", res.Entities.MealType)
	}
}

func TestHeuristic_SearchRemainderBecomesFoodName(t *testing.T) {
	res := Heuristic("search oats")
	if res.Entities.FoodName != "oats" {
		t.Errorf("food_name = %q, want %q", res.Entities.FoodName, "oats")
	}
}

func TestHeuristic_FractionalGrams(t *testing.T) {
	res := Heuristic("ate 80.5 grams of almonds")
	if res.Entities.Grams == nil || *res.Entities.Grams != 80.5 {
		t.Errorf("grams = %v, want 80.5", res.Entities.Grams)
	}
}

func TestHeuristic_UPCRun(t *testing.T) {
	res := Heuristic("scan 000000000003 please")
	if res.Entities.UPC != "000000000003" {
		t.Errorf("upc = %q, want 000000000003", res.Entities.UPC)
	}
}

func TestHeuristic_DateKeywords(t *testing.T) {
	if res := Heuristic("summary for yesterday"); res.Entities.Date != "yesterday" {
		t.Errorf("date = %q, want yesterday", res.Entities.Date)
	}
	if res := Heuristic("recommend foods"); res.Entities.Date != "today" {
		t.Errorf("recommend default date = %q, want today", res.Entities.Date)
	}
}
