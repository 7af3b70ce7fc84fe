// Package validate is the normalization guard that runs after every handler
// finalize. It normalizes textual grams, rejects out-of-range amounts via a
// clarification question, and passes every other entity through unchanged.
// The transform is idempotent: re-running it on normalized entities is a
// no-op.
package validate

import (
	"strconv"
	"strings"

	"github.com/mealgraph/mealgraph/pkg/domain"
)

// MaxGrams is the upper bound for a single logged amount.
const MaxGrams = 5000

// Clarification wording for each grams failure mode.
const (
	questionGrams       = "How many grams?"
	questionReasonable  = "Please provide a reasonable grams amount (e.g., 50, 100, 200)."
	responseUnreadable  = "I couldn't read the amount. How many grams?"
	responseNonPositive = "The amount must be greater than 0g. How many grams?"
	responseTooLarge    = "That seems too large. Did you mean a smaller amount in grams?"
)

// Validate applies the grams rules to the state in place. All other
// entities are passed through; unit handling for micronutrients (mg/µg/IU)
// is a future extension.
func Validate(s *domain.State) {
	if s.Entities.GramsRaw != "" {
		g, err := NormalizeGrams(s.Entities.GramsRaw)
		if err != nil {
			s.Clarify(questionGrams, responseUnreadable)
			return
		}
		s.Entities.Grams = domain.Float(g)
		s.Entities.GramsRaw = ""
	}

	if s.Entities.Grams == nil {
		return
	}
	switch g := *s.Entities.Grams; {
	case g <= 0:
		s.Clarify(questionGrams, responseNonPositive)
	case g > MaxGrams:
		s.Clarify(questionReasonable, responseTooLarge)
	}
}

// NormalizeGrams parses a textual amount like "100g" or " 100 G ":
// lower-case, strip internal spaces, strip one trailing "g", parse.
func NormalizeGrams(raw string) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.TrimSuffix(s, "g")
	return strconv.ParseFloat(s, 64)
}
