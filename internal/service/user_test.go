package service

import (
	"errors"
	"testing"

	"github.com/hemant101104/MovieStream/internal/auth"
	"github.com/hemant101104/MovieStream/internal/config"
	"github.com/hemant101104/MovieStream/internal/store"
)

func testCfg() config.Config {
	return config.Config{JWTSecret: "test-secret", AccessTokenTTLMinutes: 15}
}

func TestRegister_IssuesCredential(t *testing.T) {
	svc := NewUserService(store.NewMemory(), testCfg())

	result, err := svc.Register("alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if result.Token == "" {
		t.Error("Register() returned empty token")
	}
	if result.User.ID == "" {
		t.Error("Register() user has empty id")
	}
	if result.User.PasswordHash == "password123" {
		t.Error("Register() stored plaintext password")
	}

	ident, err := auth.Verify(result.Token, "test-secret")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if ident.UserID != result.User.ID || ident.Username != "alice" {
		t.Errorf("credential identity = %+v, want registered user", ident)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := NewUserService(store.NewMemory(), testCfg())

	if _, err := svc.Register("alice", "alice@example.com", "password123"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	_, err := svc.Register("alice2", "alice@example.com", "otherpass")
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Register() error = %v, want ErrEmailTaken", err)
	}
}

func TestLogin(t *testing.T) {
	st := store.NewMemory()
	svc := NewUserService(st, testCfg())
	if _, err := svc.Register("alice", "alice@example.com", "password123"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"correct credentials", "alice@example.com", "password123", nil},
		{"wrong password", "alice@example.com", "wrong", ErrInvalidCredentials},
		{"unknown email", "bob@example.com", "password123", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Login(tt.email, tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Login() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login() error = %v", err)
			}
			if result.Token == "" {
				t.Error("Login() returned empty token")
			}
		})
	}
}
