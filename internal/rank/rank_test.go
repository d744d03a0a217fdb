package rank

import (
	"testing"

	"github.com/martinkhristi/sambanova-product-recomodation/internal/catalog"
)

const sampleAnswer = `Here are my recommendations:

1. **Sony ZV-1** - $648.00, compact vlogging camera with great autofocus
   Lightweight and pocketable.
2. Canon EOS R50 - around $799 with 4K video and a flip screen
3. Fujifilm X-T30 II: $899, classic dials and film simulations`

func TestParseProducts(t *testing.T) {
	got := ParseProducts(sampleAnswer)
	if len(got) != 3 {
		t.Fatalf("expected 3 products, got: %v", len(got))
	}
	if got[0].Name != "Sony ZV-1" {
		t.Errorf("expected markdown-stripped name, got: %q", got[0].Name)
	}
	if !got[0].HasPrice || got[0].Price != 648 {
		t.Errorf("expected price 648, got: %+v", got[0])
	}
	if got[2].Name != "Fujifilm X-T30 II" {
		t.Errorf("expected colon-separated name, got: %q", got[2].Name)
	}
	if got[1].Position != 2 {
		t.Errorf("expected positions to follow list order, got: %v", got[1].Position)
	}
}

func TestParseProductsBullets(t *testing.T) {
	got := ParseProducts("- Pixel 9 - $799\n* iPhone 16 - $829")
	if len(got) != 2 {
		t.Fatalf("expected 2 products, got: %v", len(got))
	}
	if got[0].Name != "Pixel 9" || got[1].Name != "iPhone 16" {
		t.Errorf("unexpected names: %q, %q", got[0].Name, got[1].Name)
	}
}

func TestParseProductsNoEntries(t *testing.T) {
	got := ParseProducts("I could not find anything suitable.")
	if len(got) != 0 {
		t.Fatalf("expected no products, got: %v", got)
	}
}

func TestRankDefaultFormulaBoostsBudgetFit(t *testing.T) {
	r, err := NewRanker("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prefs := catalog.Preferences{Category: "Cameras", Budget: 700}
	got, err := r.Rank(sampleAnswer, prefs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Only the ZV-1 fits the budget, the others lose the boost
	if got[0].Name != "Sony ZV-1" {
		t.Errorf("expected the within-budget entry first, got: %q", got[0].Name)
	}
	if got[1].Score < got[2].Score {
		t.Errorf("expected descending scores, got: %v then %v", got[1].Score, got[2].Score)
	}
}

func TestRankFeatureHits(t *testing.T) {
	r, err := NewRanker("feature_hits")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prefs := catalog.Preferences{Category: "Cameras", Budget: 1000, Features: []string{"4K Video", "Flip Screen"}}
	got, err := r.Rank(sampleAnswer, prefs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Name != "Canon EOS R50" {
		t.Errorf("expected the entry mentioning both features first, got: %q", got[0].Name)
	}
	if got[0].Score != 2 {
		t.Errorf("expected 2 feature hits, got: %v", got[0].Score)
	}
}

func TestRankStableOnTies(t *testing.T) {
	r, err := NewRanker("1.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := r.Rank(sampleAnswer, catalog.Preferences{Category: "Cameras", Budget: 700})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, want := range []string{"Sony ZV-1", "Canon EOS R50", "Fujifilm X-T30 II"} {
		if got[i].Name != want {
			t.Errorf("expected model order preserved at %v, got: %q", i, got[i].Name)
		}
	}
}

func TestNewRankerInvalidFormula(t *testing.T) {
	_, err := NewRanker("position +")
	if err == nil {
		t.Fatal("expected error on broken formula")
	}
}

func TestRankUnpricedNotPenalized(t *testing.T) {
	r, err := NewRanker("within_budget ? 1.0 : 0.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := r.Rank("1. Mystery Cam - no price listed", catalog.Preferences{Category: "Cameras", Budget: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Score != 1 {
		t.Errorf("expected unpriced entry to count as within budget, got score: %v", got[0].Score)
	}
}
