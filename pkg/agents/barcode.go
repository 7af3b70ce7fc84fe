package agents

import (
	"context"
	"fmt"

	"github.com/mealgraph/mealgraph/pkg/domain"
	"github.com/mealgraph/mealgraph/pkg/toolloop"
)

// Barcode resolves a UPC code to a catalog food. It is fully deterministic:
// a barcode either matches or it does not, so no model loop is configured.
type Barcode struct {
	deps Deps
}

// NewBarcode creates the scan_barcode handler.
func NewBarcode(deps Deps) *Barcode { return &Barcode{deps: deps} }

func (b *Barcode) Intent() domain.Intent { return domain.IntentScanBarcode }

func (b *Barcode) SystemPrompt() string { return "" }

func (b *Barcode) Toolset(*domain.State) *toolloop.Toolset { return nil }

func (b *Barcode) Finalize(ctx context.Context, s *domain.State) error {
	upc := s.Entities.UPC
	if upc == "" {
		s.Clarify(
			"Please provide a UPC code to scan.",
			"I need a UPC code to look up the product. Please provide the barcode number.",
		)
		return nil
	}

	foods, err := b.deps.Foods.LookupByUPC(ctx, upc)
	if err != nil {
		if de, ok := domain.AsDomainError(err); ok {
			s.ErrorKind = de.Kind
			s.Response = de.Message
			return nil
		}
		return err
	}

	if len(foods) == 0 {
		// A missed barcode is a dead end for this turn; offer the name
		// search path instead of surfacing a failure.
		s.Clarify(
			"Would you like to search by name instead?",
			fmt.Sprintf("No food found with UPC %s. Would you like to search by name instead?", upc),
		)
		return nil
	}

	s.Candidates = foods
	s.Selected = &foods[0]
	s.Response = fmt.Sprintf("Found %s (%s). %.0f calories per 100g.",
		s.Selected.Name, s.Selected.Brand, s.Selected.Calories)
	b.deps.logger().Debug("barcode resolved", "upc", upc, "food_id", s.Selected.ID)
	return nil
}
