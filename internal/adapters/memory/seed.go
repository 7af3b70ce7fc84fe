package memory

import "github.com/mealgraph/mealgraph/pkg/domain"

const (
	demoUserID   int64 = 1
	demoUserName       = "demo"
)

func demoGoals() map[string]float64 {
	return map[string]float64{
		"calories":     2000,
		"protein_g":    150,
		"vitamin_c_mg": 90,
		"calcium_mg":   1000,
		"iron_mg":      18,
		"magnesium_mg": 400,
	}
}

// seedCatalog builds the starter foods with per-100g nutrient profiles.
func seedCatalog() []domain.FoodProfile {
	type row struct {
		id     int64
		name   string
		upc    string
		values []float64 // domain.TrackedNutrients order
	}
	rows := []row{
		{1, "Rolled Oats", "000000000001", []float64{389, 16.9, 6.9, 66.3, 0, 0, 0, 0.7, 2.0, 54, 4.7, 177, 4.0, 429, 2}},
		{2, "Spinach, raw", "000000000002", []float64{23, 2.9, 0.4, 3.6, 469, 28.1, 0, 2.0, 483, 99, 2.7, 79, 0.5, 558, 79}},
		{3, "Atlantic Salmon, raw", "000000000003", []float64{208, 25.4, 12.4, 0, 149, 3.9, 526, 3.6, 0.7, 9, 0.3, 27, 0.4, 363, 59}},
		{4, "Almonds, raw", "000000000004", []float64{579, 21.2, 49.9, 21.6, 0, 0, 0, 25.6, 0, 269, 3.7, 270, 3.1, 733, 1}},
		{5, "Broccoli, raw", "000000000005", []float64{34, 2.8, 0.4, 7.0, 31, 89.2, 0, 0.8, 102, 47, 0.7, 21, 0.4, 316, 33}},
	}

	foods := make([]domain.FoodProfile, 0, len(rows))
	for _, r := range rows {
		nutrients := make(map[string]float64, len(domain.TrackedNutrients))
		for i, key := range domain.TrackedNutrients {
			nutrients[key] = r.values[i]
		}
		foods = append(foods, domain.FoodProfile{
			FoodSummary: domain.FoodSummary{
				ID:       r.id,
				Name:     r.name,
				Brand:    "Generic",
				UPC:      r.upc,
				Calories: nutrients["calories"],
				ProteinG: nutrients["protein_g"],
				FatG:     nutrients["fat_g"],
				CarbsG:   nutrients["carbs_g"],
			},
			Nutrients: nutrients,
		})
	}
	return foods
}
