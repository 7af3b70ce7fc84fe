package domain

// MealType keywords recognized by the extractor, in match priority order.
var MealTypes = []string{"breakfast", "lunch", "dinner", "snack"}

// Entities is the typed slot record extracted from a message. Only the keys
// relevant to the active intent are ever read; absent slots stay at their
// zero value. The record as a whole is always present on the state.
type Entities struct {
	FoodName string `json:"food_name,omitempty"`

	// Grams is the normalized amount. GramsRaw carries a textual amount
	// (e.g. "100g") produced by the classifier until the validator, or a
	// handler needing the value early, normalizes it. At most one of the
	// two is set after validation.
	Grams    *float64 `json:"grams,omitempty"`
	GramsRaw string   `json:"grams_raw,omitempty"`

	UPC      string `json:"upc,omitempty"`
	MealType string `json:"meal_type,omitempty"`
	Date     string `json:"date,omitempty"`
	FoodID   *int64 `json:"food_id,omitempty"`
}

// HasGrams reports whether any grams slot was extracted, normalized or not.
func (e Entities) HasGrams() bool {
	return e.Grams != nil || e.GramsRaw != ""
}

// HasFoodID reports whether an explicit food id was extracted.
func (e Entities) HasFoodID() bool {
	return e.FoodID != nil
}

// Float returns a pointer to v; convenience for optional numeric slots.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v; convenience for optional id slots.
func Int(v int64) *int64 { return &v }
