package nutrition

import (
	"reflect"
	"testing"
)

func TestLocalEstimatorKnownItems(t *testing.T) {
	est := NewLocalEstimator(nil)

	b := est.Estimate("poulet, riz")
	if len(b.Foods) != 2 {
		t.Fatalf("expected 2 foods, got %d", len(b.Foods))
	}
	if b.Foods[0].Calories != 239 {
		t.Errorf("poulet: expected 239, got %v", b.Foods[0].Calories)
	}
	if b.Foods[1].Calories != 130 {
		t.Errorf("riz: expected 130, got %v", b.Foods[1].Calories)
	}
	if b.MealCalories != 369 {
		t.Errorf("total: expected 369, got %v", b.MealCalories)
	}
}

func TestLocalEstimatorUnknownItemGetsDefault(t *testing.T) {
	est := NewLocalEstimator(nil)

	b := est.Estimate("plat mystere")
	if len(b.Foods) != 1 {
		t.Fatalf("expected 1 food, got %d", len(b.Foods))
	}
	if b.Foods[0].Calories != DefaultItemCalories {
		t.Errorf("expected default %v, got %v", DefaultItemCalories, b.Foods[0].Calories)
	}
}

func TestLocalEstimatorMatchesWithinQuantityWords(t *testing.T) {
	est := NewLocalEstimator(nil)

	b := est.Estimate("100g Poulet grille")
	if b.Foods[0].Calories != 239 {
		t.Errorf("expected word-level match at 239, got %v", b.Foods[0].Calories)
	}
}

func TestLocalEstimatorDeterministic(t *testing.T) {
	est := NewLocalEstimator(nil)

	first := est.Estimate("poulet, riz; salade\nchose inconnue")
	second := est.Estimate("poulet, riz; salade\nchose inconnue")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("estimates differ between runs: %+v vs %+v", first, second)
	}
}

func TestSplitItems(t *testing.T) {
	got := SplitItems(" poulet , riz;salade\n\n pain ,")
	want := []string{"poulet", "riz", "salade", "pain"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSplitItemsEmptyInput(t *testing.T) {
	if got := SplitItems("  \n "); len(got) != 0 {
		t.Fatalf("expected no tokens, got %v", got)
	}
}
