package logger

import (
	"strings"
	"testing"
)

func TestSanitizeValueKeyClasses(t *testing.T) {
	if got := sanitizeValue("email", "user@example.com"); got != "[REDACTED]" {
		t.Fatalf("email: want=[REDACTED] got=%v", got)
	}
	if got := sanitizeValue("password", "hunter2"); got != "[REDACTED]" {
		t.Fatalf("password: want=[REDACTED] got=%v", got)
	}

	hashed, ok := sanitizeValue("user_id", "2f1b0c1e").(string)
	if !ok || !strings.HasPrefix(hashed, "hash:") {
		t.Fatalf("user_id: want hash: prefix got=%v", hashed)
	}

	// Non-identity keys pass through untouched.
	if got := sanitizeValue("product_id", "abc-123"); got != "abc-123" {
		t.Fatalf("product_id: want passthrough got=%v", got)
	}
	if got := sanitizeValue("session_id", "abc-123"); got != "abc-123" {
		t.Fatalf("session_id: want passthrough got=%v", got)
	}
}
