package agents

import (
	"context"
	"fmt"

	"github.com/mealgraph/mealgraph/pkg/domain"
	"github.com/mealgraph/mealgraph/pkg/toolloop"
)

const searchPrompt = `You help users find food items in a nutrition catalog.
Use search_food for name queries, lookup_upc for barcodes, and list_foods to
browse. Report matches concisely with name, brand and calories per 100g. If
nothing matches, say so and suggest a different search term.`

// Search resolves free-text food queries into ranked candidates.
type Search struct {
	deps Deps
}

// NewSearch creates the search_food handler.
func NewSearch(deps Deps) *Search { return &Search{deps: deps} }

func (h *Search) Intent() domain.Intent { return domain.IntentSearchFood }

func (h *Search) SystemPrompt() string { return searchPrompt }

func (h *Search) Toolset(s *domain.State) *toolloop.Toolset {
	return toolloop.NewToolset(
		h.deps.searchFoodTool(s),
		h.deps.listFoodsTool(s),
		h.deps.lookupUPCTool(s),
	)
}

func (h *Search) Finalize(ctx context.Context, s *domain.State) error {
	name := s.Entities.FoodName
	if name == "" && len(s.Candidates) == 0 {
		s.Clarify(
			"What food would you like to search for?",
			"What food would you like to search for?",
		)
		return nil
	}

	// A loop run may already have populated candidates via search_food.
	if len(s.Candidates) == 0 {
		foods, err := h.deps.Foods.SearchByName(ctx, name, 5)
		if err != nil {
			if de, ok := domain.AsDomainError(err); ok {
				s.ErrorKind = de.Kind
				s.Response = de.Message
				return nil
			}
			return err
		}
		s.Candidates = foods
	}

	if len(s.Candidates) == 0 {
		s.ErrorKind = domain.ErrKindLookupMiss
		s.Response = fmt.Sprintf("No foods found matching '%s'. Try a different search term.", name)
		return nil
	}

	s.Response = fmt.Sprintf("Found %d food items.", len(s.Candidates))
	return nil
}
