package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mealgraph/mealgraph/pkg/domain"
)

var (
	gramsRe  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(g|grams?)\b`)
	foodIDRe = regexp.MustCompile(`food_id\s*=\s*(\d+)`)
	upcRe    = regexp.MustCompile(`\b(\d{12})\b`)
)

// Heuristic is the deterministic fallback extractor. Entity extraction runs
// first and is independent of intent; intent selection then applies a fixed
// keyword precedence where the first match wins.
func Heuristic(input string) Result {
	text := strings.ToLower(strings.TrimSpace(input))
	ent := heuristicEntities(text)

	var intent domain.Intent
	switch {
	case containsAny(text, "barcode", "upc", "scan"):
		intent = domain.IntentScanBarcode
	case strings.HasPrefix(text, "search "):
		intent = domain.IntentSearchFood
		ent.FoodName = strings.TrimSpace(strings.TrimSpace(input)[7:])
	case containsAny(text, "recommend", "suggest"):
		intent = domain.IntentRecommend
		if ent.Date == "" {
			ent.Date = "today"
		}
	case containsAny(text, "summary", "report") || text == "today" || text == "yesterday":
		intent = domain.IntentDailySummary
		if ent.Date == "" {
			ent.Date = "today"
		}
	case containsAny(text, "log", "ate", "consumed") || ent.HasFoodID() || ent.HasGrams():
		intent = domain.IntentLogMeal
	default:
		intent = domain.IntentSearchFood
	}

	return Result{Intent: intent, Entities: ent, Confidence: HeuristicConfidence}
}

func heuristicEntities(text string) domain.Entities {
	var ent domain.Entities

	if m := gramsRe.FindStringSubmatch(text); m != nil {
		if g, err := strconv.ParseFloat(m[1], 64); err == nil {
			ent.Grams = domain.Float(g)
		}
	}
	if m := foodIDRe.FindStringSubmatch(text); m != nil {
		if id, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			ent.FoodID = domain.Int(id)
		}
	}
	if m := upcRe.FindStringSubmatch(text); m != nil {
		ent.UPC = m[1]
	}
	for _, mt := range domain.MealTypes {
		if strings.Contains(text, mt) {
			ent.MealType = mt
			break
		}
	}
	if strings.Contains(text, "yesterday") {
		ent.Date = "yesterday"
	} else if strings.Contains(text, "today") {
		ent.Date = "today"
	}

	return ent
}

func containsAny(text string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
