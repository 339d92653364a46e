package services

import (
	"context"
	"testing"
	"time"

	"github.com/aurelle/marketing-backend/internal/requestdata"
)

func newAuthFixture(t *testing.T) (AuthService, *fixture) {
	t.Helper()
	f := newFixture(t)
	svc := NewAuthService(f.db, f.log, f.userRepo, f.graph, "test-secret", time.Hour)
	return svc, f
}

func TestRegisterNormalizesEmailAndSyncsGraph(t *testing.T) {
	svc, f := newAuthFixture(t)

	user, token, err := svc.Register(context.Background(), "  New@Example.COM ", "longenough")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "new@example.com" {
		t.Fatalf("email: got=%q", user.Email)
	}
	if token == "" {
		t.Fatalf("expected access token")
	}
	if f.graph.users != 1 {
		t.Fatalf("graph sync: want=1 got=%d", f.graph.users)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "dup@example.com", "longenough"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, _, err := svc.Register(ctx, "DUP@example.com", "longenough"); err == nil {
		t.Fatalf("expected error for duplicate email")
	}
}

func TestRegisterRejectsWeakInput(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "not-an-email", "longenough"); err == nil {
		t.Fatalf("expected error for invalid email")
	}
	if _, _, err := svc.Register(ctx, "short@example.com", "short"); err == nil {
		t.Fatalf("expected error for short password")
	}
}

func TestLoginAndTokenRoundTrip(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, "login@example.com", "longenough")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	token, err := svc.Login(ctx, "login@example.com", "longenough")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	authedCtx, err := svc.SetContextFromToken(ctx, token)
	if err != nil {
		t.Fatalf("token parse: %v", err)
	}
	rd := requestdata.GetRequestData(authedCtx)
	if rd == nil || rd.UserID != user.ID {
		t.Fatalf("request data: got=%+v", rd)
	}
	if rd.UserEmail != "login@example.com" {
		t.Fatalf("email claim: got=%q", rd.UserEmail)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "wrongpw@example.com", "longenough"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Login(ctx, "wrongpw@example.com", "different1"); err == nil {
		t.Fatalf("expected error for wrong password")
	}
}

func TestSetContextFromTokenRejectsGarbage(t *testing.T) {
	svc, _ := newAuthFixture(t)

	if _, err := svc.SetContextFromToken(context.Background(), "not.a.token"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}
