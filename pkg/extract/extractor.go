// Package extract turns raw message text into an intent, a typed entity
// record and a confidence score. The primary path asks an intent classifier
// for strict structured output; any malformed or failed response falls back
// silently to a deterministic keyword heuristic.
package extract

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mealgraph/mealgraph/pkg/domain"
	"github.com/mealgraph/mealgraph/pkg/ports"
)

// Fixed confidence constants; not tunable per call.
const (
	ModelConfidence     = 0.7
	HeuristicConfidence = 0.5
)

// Extractor performs intent and entity extraction for one message.
type Extractor struct {
	classifier ports.IntentClassifier
	logger     *slog.Logger
}

// New creates an extractor. classifier may be nil, in which case every
// message takes the heuristic path.
func New(classifier ports.IntentClassifier, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Extractor{classifier: classifier, logger: logger}
}

// Result is the extraction outcome applied onto the turn state.
type Result struct {
	Intent     domain.Intent
	Entities   domain.Entities
	Confidence float64
}

// Extract classifies text. The model path never surfaces a failure: a parse
// or transport error is recovered via the heuristic.
func (e *Extractor) Extract(ctx context.Context, text string) Result {
	if e.classifier == nil {
		return Heuristic(text)
	}

	cls, err := e.classifier.ClassifyIntent(ctx, buildPrompt(text))
	if err != nil {
		e.logger.Debug("intent classification failed, using heuristic", "err", err)
		return Heuristic(text)
	}

	intent := domain.Intent(cls.Intent)
	if !intent.Valid() {
		e.logger.Debug("classifier returned unknown intent, using heuristic", "intent", cls.Intent)
		return Heuristic(text)
	}

	conf := cls.Confidence
	if conf == 0 {
		conf = ModelConfidence
	}
	return Result{
		Intent:     intent,
		Entities:   entitiesFromMap(cls.Entities),
		Confidence: clamp01(conf),
	}
}

// buildPrompt is the strict-JSON extraction prompt sent to the classifier.
func buildPrompt(text string) string {
	intents := make([]string, len(domain.AllowedIntents))
	for i, in := range domain.AllowedIntents {
		intents[i] = string(in)
	}

	var b strings.Builder
	b.WriteString("You are an intent and entity extractor for a nutrition app.\n")
	b.WriteString("Return STRICT JSON with keys: intent, entities, confidence.\n\n")
	b.WriteString("Allowed intents: " + strings.Join(intents, ", ") + "\n")
	b.WriteString("Entities: food_name, grams, upc, meal_type, date, food_id (use null if not present).\n")
	b.WriteString("Rules: extract concise food_name (e.g., 'oats'), parse 'food_id=3', '100g'/'80 grams', 12-digit UPC;")
	b.WriteString(" set date to 'today' if user says today.\n\n")
	b.WriteString("User message:\n" + text + "\n")
	return b.String()
}

// entitiesFromMap converts the classifier's loose entity map into the typed
// record. Numeric grams are adopted directly; textual grams are kept raw
// for the validator to normalize.
func entitiesFromMap(m map[string]any) domain.Entities {
	var ent domain.Entities
	if m == nil {
		return ent
	}

	if v, ok := asString(m["food_name"]); ok {
		ent.FoodName = v
	}
	switch g := m["grams"].(type) {
	case float64:
		ent.Grams = domain.Float(g)
	case int:
		ent.Grams = domain.Float(float64(g))
	case string:
		if s := strings.TrimSpace(g); s != "" {
			ent.GramsRaw = s
		}
	}
	if v, ok := asString(m["upc"]); ok {
		ent.UPC = v
	}
	if v, ok := asString(m["meal_type"]); ok {
		ent.MealType = strings.ToLower(v)
	}
	if v, ok := asString(m["date"]); ok {
		ent.Date = strings.ToLower(v)
	}
	switch id := m["food_id"].(type) {
	case float64:
		ent.FoodID = domain.Int(int64(id))
	case int:
		ent.FoodID = domain.Int(int64(id))
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64); err == nil {
			ent.FoodID = domain.Int(n)
		}
	}
	return ent
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return strings.TrimSpace(s), true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
