package types

import "testing"

func TestValidatePriceRoundsToCents(t *testing.T) {
	got, err := ValidatePrice(19.999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 20.00 {
		t.Fatalf("price: want=20.00 got=%v", got)
	}

	got, err = ValidatePrice(19.994)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 19.99 {
		t.Fatalf("price: want=19.99 got=%v", got)
	}
}

func TestValidatePriceRejectsNonPositive(t *testing.T) {
	if _, err := ValidatePrice(0); err == nil {
		t.Fatalf("expected error for zero price")
	}
	if _, err := ValidatePrice(-5); err == nil {
		t.Fatalf("expected error for negative price")
	}
}

func TestValidateConfidenceBounds(t *testing.T) {
	if _, err := ValidateConfidence(-0.01); err == nil {
		t.Fatalf("expected error below zero")
	}
	if _, err := ValidateConfidence(1.01); err == nil {
		t.Fatalf("expected error above one")
	}
	got, err := ValidateConfidence(0.12345)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0.123 {
		t.Fatalf("confidence: want=0.123 got=%v", got)
	}
	for _, edge := range []float64{0, 1} {
		got, err := ValidateConfidence(edge)
		if err != nil {
			t.Fatalf("edge %v: unexpected error: %v", edge, err)
		}
		if got != edge {
			t.Fatalf("edge: want=%v got=%v", edge, got)
		}
	}
}

func TestClampScore(t *testing.T) {
	if got := ClampScore(1.7); got != 1.0 {
		t.Fatalf("clamp high: want=1.0 got=%v", got)
	}
	if got := ClampScore(-0.3); got != 0.0 {
		t.Fatalf("clamp low: want=0.0 got=%v", got)
	}
	if got := ClampScore(0.56789); got != 0.568 {
		t.Fatalf("round: want=0.568 got=%v", got)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  User@Example.COM "); got != "user@example.com" {
		t.Fatalf("normalize: got=%q", got)
	}
}
