package types

import (
	"fmt"
	"math"
	"strings"
)

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) error {
	e := NormalizeEmail(email)
	at := strings.Index(e, "@")
	if at <= 0 || at == len(e)-1 || !strings.Contains(e[at:], ".") {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePrice rejects non-positive prices and rounds to 2 decimals.
func ValidatePrice(price float64) (float64, error) {
	if price <= 0 {
		return 0, fmt.Errorf("price must be greater than 0")
	}
	return math.Round(price*100) / 100, nil
}

// ValidateConfidence rejects scores outside [0,1] and rounds to 3 decimals.
func ValidateConfidence(score float64) (float64, error) {
	if score < 0.0 || score > 1.0 {
		return 0, fmt.Errorf("confidence score must be between 0.0 and 1.0")
	}
	return math.Round(score*1000) / 1000, nil
}

// ClampScore bounds a recommendation score into [0,1] rounded to 3 decimals.
func ClampScore(score float64) float64 {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return math.Round(score*1000) / 1000
}
