package domain

import "time"

// FoodSummary is the compact food record returned by search and lookup.
type FoodSummary struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Brand    string  `json:"brand"`
	UPC      string  `json:"upc"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	FatG     float64 `json:"fat_g"`
	CarbsG   float64 `json:"carbs_g"`
}

// FoodProfile extends a summary with the full per-100g nutrient map.
// The recommendation scorer reads nutrient values by key from here.
type FoodProfile struct {
	FoodSummary
	Nutrients map[string]float64 `json:"nutrients"`
}

// LogRecord is the result of a successful meal log.
type LogRecord struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"user_id"`
	FoodID   int64     `json:"food_id"`
	FoodName string    `json:"food_name"`
	Grams    float64   `json:"grams"`
	MealType string    `json:"meal_type"`
	Notes    string    `json:"notes,omitempty"`
	LoggedAt time.Time `json:"logged_at"`
}

// MealRef is one logged meal inside a day summary.
type MealRef struct {
	ID       int64     `json:"id"`
	FoodName string    `json:"food_name"`
	Grams    float64   `json:"grams"`
	MealType string    `json:"meal_type"`
	LoggedAt time.Time `json:"logged_at"`
}

// DaySummary aggregates one user's meals for one calendar date.
// Totals are recomputed from the persisted logs on every read.
type DaySummary struct {
	Date      string             `json:"date"`
	MealCount int                `json:"meal_count"`
	Totals    map[string]float64 `json:"totals"`
	Meals     []MealRef          `json:"meals"`
}

// RecommendationItem is one scored food suggestion. Coverage maps a
// nutrient key to the amount a 100g serving contributes toward the gap.
type RecommendationItem struct {
	FoodID          int64              `json:"food_id"`
	Name            string             `json:"name"`
	Brand           string             `json:"brand"`
	Coverage        map[string]float64 `json:"coverage"`
	CaloriesPer100g float64            `json:"calories_per_100g"`
	Score           float64            `json:"score"`
}

// TrackedNutrients is the canonical display order for day totals.
var TrackedNutrients = []string{
	"calories",
	"protein_g",
	"fat_g",
	"carbs_g",
	"vitamin_a_rae",
	"vitamin_c_mg",
	"vitamin_d_iu",
	"vitamin_e_mg",
	"vitamin_k_mcg",
	"calcium_mg",
	"iron_mg",
	"magnesium_mg",
	"zinc_mg",
	"potassium_mg",
	"sodium_mg",
}

// NutrientLabels maps nutrient keys to their user-facing names.
var NutrientLabels = map[string]string{
	"calories":      "Calories",
	"protein_g":     "Protein (g)",
	"fat_g":         "Fat (g)",
	"carbs_g":       "Carbs (g)",
	"vitamin_a_rae": "Vitamin A (RAE)",
	"vitamin_c_mg":  "Vitamin C (mg)",
	"vitamin_d_iu":  "Vitamin D (IU)",
	"vitamin_e_mg":  "Vitamin E (mg)",
	"vitamin_k_mcg": "Vitamin K (mcg)",
	"calcium_mg":    "Calcium (mg)",
	"iron_mg":       "Iron (mg)",
	"magnesium_mg":  "Magnesium (mg)",
	"zinc_mg":       "Zinc (mg)",
	"potassium_mg":  "Potassium (mg)",
	"sodium_mg":     "Sodium (mg)",
}

// NutrientLabel returns the display label for a nutrient key, falling back
// to the raw key for unknown nutrients.
func NutrientLabel(key string) string {
	if l, ok := NutrientLabels[key]; ok {
		return l
	}
	return key
}
