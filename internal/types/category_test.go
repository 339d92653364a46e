package types

import "testing"

func TestParseProductCategory(t *testing.T) {
	if _, err := ParseProductCategory("electronics"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseProductCategory("gadgets"); err == nil {
		t.Fatalf("expected error for unknown category")
	}
}

func TestInterestCategoryForPurchaseCoversEveryProductCategory(t *testing.T) {
	for pc := range productCategories {
		if _, ok := InterestCategoryForPurchase(pc); !ok {
			t.Fatalf("no interest mapping for product category %q", pc)
		}
	}
}

func TestInterestCategoryForPurchaseMapping(t *testing.T) {
	cases := map[ProductCategory]InterestCategory{
		CategoryClothing:    InterestFashion,
		CategoryElectronics: InterestTechnology,
		CategoryBooksMedia:  InterestBooks,
	}
	for pc, want := range cases {
		got, ok := InterestCategoryForPurchase(pc)
		if !ok {
			t.Fatalf("missing mapping for %q", pc)
		}
		if got != want {
			t.Fatalf("mapping %q: want=%q got=%q", pc, want, got)
		}
	}
}

func TestMusicHasNoProductCounterpart(t *testing.T) {
	for _, ic := range purchaseToInterest {
		if ic == InterestMusic {
			t.Fatalf("music should not be reachable from purchases")
		}
	}
}
