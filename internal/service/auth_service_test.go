package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atlastravel/backend/internal/util"
)

func newAuthService() (*AuthService, *memoryUserRepo) {
	users := newMemoryUserRepo()
	jwt := util.NewJWTManager("test-secret", time.Minute)
	return NewAuthService(users, jwt, ""), users
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService()

	fullName := "Chinwe Okafor"
	user, token, err := svc.Register(ctx, "Chinwe@Example.com", "travelpass42", &fullName)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a token after registration")
	}
	if user.Email != "chinwe@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}

	loggedIn, token2, err := svc.Login(ctx, "chinwe@example.com", "travelpass42")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token2 == "" {
		t.Fatalf("expected a token after login")
	}
	if loggedIn.ID != user.ID {
		t.Fatalf("expected same user, got %s and %s", user.ID, loggedIn.ID)
	}
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService()

	if _, _, err := svc.Register(ctx, "dup@example.com", "travelpass42", nil); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}
	_, _, err := svc.Register(ctx, "dup@example.com", "travelpass42", nil)
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_RegisterWeakPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService()

	if _, _, err := svc.Register(ctx, "weak@example.com", "short", nil); err == nil {
		t.Fatalf("expected error for weak password")
	}
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService()

	if _, _, err := svc.Register(ctx, "user@example.com", "travelpass42", nil); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	_, _, err := svc.Login(ctx, "user@example.com", "wrongpass99")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	_, _, err = svc.Login(ctx, "missing@example.com", "travelpass42")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService()

	user, token, err := svc.Register(ctx, "auth@example.com", "travelpass42", nil)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	resolved, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if resolved.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, resolved.ID)
	}

	if _, err := svc.Authenticate(ctx, "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
