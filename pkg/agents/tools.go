package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/mealgraph/mealgraph/pkg/domain"
	"github.com/mealgraph/mealgraph/pkg/toolloop"
)

// Loop toolsets are read-only: they gather data for the model, while every
// side effect (the actual meal log) happens in finalize. This keeps a loop
// run and the deterministic path from double-executing actions.

type searchFoodArgs struct {
	Query string `mapstructure:"query"`
	Limit int    `mapstructure:"limit"`
}

type lookupUPCArgs struct {
	UPC string `mapstructure:"upc"`
}

type listFoodsArgs struct {
	Limit  int `mapstructure:"limit"`
	Offset int `mapstructure:"offset"`
}

type listMealsArgs struct {
	Limit  int `mapstructure:"limit"`
	Offset int `mapstructure:"offset"`
}

type computeDayArgs struct {
	DateISO string `mapstructure:"date_iso"`
}

func decodeArgs(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return fmt.Errorf("invalid tool arguments: %w", err)
	}
	return nil
}

func marshalPayload(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// searchFoodTool returns matching foods and records them as candidates on
// the turn state, preserving the source order.
func (d Deps) searchFoodTool(s *domain.State) toolloop.Tool {
	return toolloop.Tool{
		Def: domain.Tool{
			Name:        "search_food",
			Description: "Search for food items by name (partial match).",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{"type": "string", "description": "Food name to search for"},
					"limit": map[string]any{"type": "integer", "description": "Max items to return"},
				},
				"required": []string{"query"},
			},
		},
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			var a searchFoodArgs
			if err := decodeArgs(args, &a); err != nil {
				return "", err
			}
			if a.Limit <= 0 {
				a.Limit = 5
			}
			foods, err := d.Foods.SearchByName(ctx, a.Query, a.Limit)
			if err != nil {
				return "", err
			}
			if len(foods) > 0 {
				s.Candidates = foods
			}
			return marshalPayload(foods)
		},
	}
}

// lookupUPCTool resolves a barcode; the first match becomes the selection.
func (d Deps) lookupUPCTool(s *domain.State) toolloop.Tool {
	return toolloop.Tool{
		Def: domain.Tool{
			Name:        "lookup_upc",
			Description: "Look up a food by its 12-digit UPC code.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"upc": map[string]any{"type": "string", "description": "12-digit UPC"},
				},
				"required": []string{"upc"},
			},
		},
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			var a lookupUPCArgs
			if err := decodeArgs(args, &a); err != nil {
				return "", err
			}
			foods, err := d.Foods.LookupByUPC(ctx, a.UPC)
			if err != nil {
				return "", err
			}
			if len(foods) > 0 {
				s.Candidates = foods
				s.Selected = &foods[0]
			}
			return marshalPayload(foods)
		},
	}
}

func (d Deps) listFoodsTool(s *domain.State) toolloop.Tool {
	return toolloop.Tool{
		Def: domain.Tool{
			Name:        "list_foods",
			Description: "Browse the food catalog.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"limit":  map[string]any{"type": "integer"},
					"offset": map[string]any{"type": "integer"},
				},
			},
		},
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			var a listFoodsArgs
			if err := decodeArgs(args, &a); err != nil {
				return "", err
			}
			if a.Limit <= 0 {
				a.Limit = 25
			}
			foods, err := d.Foods.ListFoods(ctx, a.Limit, a.Offset)
			if err != nil {
				return "", err
			}
			return marshalPayload(foods)
		},
	}
}

func (d Deps) listMealsTool(s *domain.State) toolloop.Tool {
	return toolloop.Tool{
		Def: domain.Tool{
			Name:        "list_meals",
			Description: "List the user's logged meals, newest first.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"limit":  map[string]any{"type": "integer"},
					"offset": map[string]any{"type": "integer"},
				},
			},
		},
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			var a listMealsArgs
			if err := decodeArgs(args, &a); err != nil {
				return "", err
			}
			if a.Limit <= 0 {
				a.Limit = 10
			}
			meals, err := d.Meals.ListMeals(ctx, s.UserID, a.Limit, a.Offset)
			if err != nil {
				return "", err
			}
			return marshalPayload(meals)
		},
	}
}

// computeDayTool aggregates the user's day; the user id always comes from
// the turn state, never from model-supplied arguments.
func (d Deps) computeDayTool(s *domain.State) toolloop.Tool {
	return toolloop.Tool{
		Def: domain.Tool{
			Name:        "compute_day",
			Description: "Compute nutrition totals for the user on a date (ISO, or empty for today).",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"date_iso": map[string]any{"type": "string", "description": "ISO date like 2025-01-01, or empty for today"},
				},
			},
		},
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			var a computeDayArgs
			if err := decodeArgs(args, &a); err != nil {
				return "", err
			}
			date, ok := resolveDate(a.DateISO, d.clock())
			if !ok {
				return "", fmt.Errorf("unparsable date: %q", a.DateISO)
			}
			day, err := d.Meals.ComputeDay(ctx, s.UserID, date)
			if err != nil {
				return "", err
			}
			return marshalPayload(day)
		},
	}
}

func (d Deps) getGoalsTool(s *domain.State) toolloop.Tool {
	return toolloop.Tool{
		Def: domain.Tool{
			Name:        "get_goals",
			Description: "Get the user's nutrition goals keyed by nutrient.",
			Parameters:  map[string]any{"type": "object", "properties": map[string]any{}},
		},
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			goals, err := d.Goals.GetGoals(ctx, s.UserID)
			if err != nil {
				if _, ok := domain.AsDomainError(err); ok {
					goals = map[string]float64{}
				} else {
					return "", err
				}
			}
			return marshalPayload(goals)
		},
	}
}
