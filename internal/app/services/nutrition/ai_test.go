package nutrition

import (
	"testing"

	apperrors "github.com/fitnessbro/platform/internal/errors"
)

func TestParseBreakdownStrictJSON(t *testing.T) {
	raw := `{"foods":[{"name":"250g poulet","calories":415},{"name":"riz","calories":130}],"meal_calories":545}`

	b, err := ParseBreakdown(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.Foods) != 2 {
		t.Fatalf("expected 2 foods, got %d", len(b.Foods))
	}
	if b.MealCalories != 545 {
		t.Errorf("expected total 545, got %v", b.MealCalories)
	}
}

func TestParseBreakdownProseWrappedJSON(t *testing.T) {
	raw := "Sure! Here is the breakdown:\n" +
		`{"foods":[{"name":"oeuf","calories":78}],"meal_calories":78}` +
		"\nLet me know if you need anything else."

	b, err := ParseBreakdown(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Foods[0].Name != "oeuf" {
		t.Errorf("expected oeuf, got %q", b.Foods[0].Name)
	}
}

func TestParseBreakdownRecomputesTotal(t *testing.T) {
	// Provider totals are never trusted.
	raw := `{"foods":[{"name":"poulet","calories":239},{"name":"riz","calories":130}],"meal_calories":9000}`

	b, err := ParseBreakdown(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.MealCalories != 369 {
		t.Errorf("expected recomputed 369, got %v", b.MealCalories)
	}
}

func TestParseBreakdownClampsNegativeCalories(t *testing.T) {
	raw := `{"foods":[{"name":"poulet","calories":-50}],"meal_calories":-50}`

	b, err := ParseBreakdown(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Foods[0].Calories != 0 {
		t.Errorf("expected clamp to 0, got %v", b.Foods[0].Calories)
	}
}

func TestParseBreakdownAcceptsAlternateFieldNames(t *testing.T) {
	raw := `{"items":[{"name":"riz","calories":130}],"total_calories":130}`

	b, err := ParseBreakdown(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.MealCalories != 130 {
		t.Errorf("expected 130, got %v", b.MealCalories)
	}
}

func TestParseBreakdownRejectsBadShapes(t *testing.T) {
	cases := map[string]string{
		"no json":        "there is nothing structured here",
		"unbalanced":     `{"foods":[{"name":"x"`,
		"missing foods":  `{"meal_calories":100}`,
		"missing total":  `{"foods":[{"name":"riz","calories":130}]}`,
		"empty foods":    `{"foods":[],"meal_calories":0}`,
		"nameless foods": `{"foods":[{"calories":10}],"meal_calories":10}`,
	}

	for name, raw := range cases {
		if _, err := ParseBreakdown(raw); err == nil {
			t.Errorf("%s: expected error", name)
		} else if !apperrors.IsUpstream(err) {
			t.Errorf("%s: expected upstream error, got %v", name, err)
		}
	}
}

func TestExtractJSONObjectIgnoresBracesInStrings(t *testing.T) {
	raw := `prefix {"foods":[{"name":"pain {complet}","calories":80}],"meal_calories":80} suffix`

	b, err := ParseBreakdown(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Foods[0].Name != "pain {complet}" {
		t.Errorf("unexpected name %q", b.Foods[0].Name)
	}
}
