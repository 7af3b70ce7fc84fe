package validate

import (
	"reflect"
	"testing"

	"github.com/mealgraph/mealgraph/pkg/domain"
)

func stateWithRawGrams(raw string) *domain.State {
	s := domain.NewState(1, "log")
	s.Entities.GramsRaw = raw
	return s
}

func stateWithGrams(g float64) *domain.State {
	s := domain.NewState(1, "log")
	s.Entities.Grams = domain.Float(g)
	return s
}

func TestValidate_NormalizesTextualGrams(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"100g", 100.0},
		{" 100 G ", 100.0},
		{"80.5g", 80.5},
		{"250", 250.0},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			s := stateWithRawGrams(tc.raw)
			Validate(s)

			if s.NeedsClarification {
				t.Fatalf("unexpected clarification for %q: %v", tc.raw, s.Questions)
			}
			if s.Entities.Grams == nil || *s.Entities.Grams != tc.want {
				t.Errorf("grams = %v, want %v", s.Entities.Grams, tc.want)
			}
			if s.Entities.GramsRaw != "" {
				t.Errorf("grams_raw not cleared: %q", s.Entities.GramsRaw)
			}
		})
	}
}

func TestValidate_UnparsableGramsAsksQuestion(t *testing.T) {
	s := stateWithRawGrams("a handful")
	Validate(s)

	if !s.NeedsClarification {
		t.Fatal("expected clarification")
	}
	if len(s.Questions) != 1 || s.Questions[0] != "How many grams?" {
		t.Errorf("questions = %v, want single grams question", s.Questions)
	}
}

func TestValidate_RangeRules(t *testing.T) {
	cases := []struct {
		name  string
		grams float64
		wantQ string
	}{
		{"zero", 0, "How many grams?"},
		{"negative", -5, "How many grams?"},
		{"absurd", 6000, "Please provide a reasonable grams amount (e.g., 50, 100, 200)."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := stateWithGrams(tc.grams)
			Validate(s)

			if !s.NeedsClarification {
				t.Fatal("expected clarification")
			}
			if len(s.Questions) != 1 || s.Questions[0] != tc.wantQ {
				t.Errorf("questions = %v, want [%q]", s.Questions, tc.wantQ)
			}
		})
	}
}

func TestValidate_BoundaryValuesPass(t *testing.T) {
	for _, g := range []float64{0.1, 5000} {
		s := stateWithGrams(g)
		Validate(s)
		if s.NeedsClarification {
			t.Errorf("grams=%v should pass, got question %v", g, s.Questions)
		}
	}
}

func TestValidate_Idempotent(t *testing.T) {
	s := stateWithRawGrams(" 100 G ")
	Validate(s)
	once := *s

	Validate(s)
	if !reflect.DeepEqual(once, *s) {
		t.Errorf("second Validate changed state:\nfirst:  %+v\nsecond: %+v", once, *s)
	}
}

func TestValidate_OtherEntitiesUntouched(t *testing.T) {
	s := domain.NewState(1, "log")
	s.Entities.FoodName = "oats"
	s.Entities.UPC = "000000000001"
	s.Entities.Date = "today"
	Validate(s)

	if s.NeedsClarification {
		t.Fatal("no grams present, nothing to flag")
	}
	if s.Entities.FoodName != "oats" || s.Entities.UPC != "000000000001" || s.Entities.Date != "today" {
		t.Errorf("pass-through entities changed: %+v", s.Entities)
	}
}
