package auth

import (
	"testing"
	"time"

	"github.com/hemant101104/MovieStream/internal/models"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid password", "password123", false},
		{"empty password", "", false},
		{"long password", "a" + string(make([]byte, 70)), false}, // bcrypt max is 72 bytes
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("HashPassword() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && hash == "" {
				t.Error("HashPassword() returned empty hash")
			}
		})
	}
}

func TestVerifyPassword(t *testing.T) {
	password := "testpassword123"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	tests := []struct {
		name     string
		hash     string
		password string
		want     bool
	}{
		{"correct password", hash, password, true},
		{"wrong password", hash, "wrongpassword", false},
		{"empty password", hash, "", false},
		{"invalid hash", "invalidhash", password, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyPassword(tt.hash, tt.password); got != tt.want {
				t.Errorf("VerifyPassword() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenerateToken_VerifyRoundTrip(t *testing.T) {
	secret := "test-secret-key"
	user := models.User{ID: "user-1", Username: "alice", Email: "alice@example.com"}

	token, err := GenerateToken(user, secret, 15)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("GenerateToken() returned empty token")
	}

	ident, err := Verify(token, secret)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if ident.UserID != user.ID {
		t.Errorf("Verify() UserID = %v, want %v", ident.UserID, user.ID)
	}
	if ident.Username != user.Username {
		t.Errorf("Verify() Username = %v, want %v", ident.Username, user.Username)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	user := models.User{ID: "user-1", Username: "alice"}
	token, err := GenerateToken(user, "secret-a", 15)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := Verify(token, "secret-b"); err == nil {
		t.Error("Verify() should fail with wrong secret")
	}
}

func TestVerify_ExpiredToken(t *testing.T) {
	user := models.User{ID: "user-1", Username: "alice"}
	token, err := GenerateToken(user, "secret", -1)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	// Token already expired one minute ago
	time.Sleep(10 * time.Millisecond)
	if _, err := Verify(token, "secret"); err == nil {
		t.Error("Verify() should fail for expired token")
	}
}

func TestVerify_Garbage(t *testing.T) {
	if _, err := Verify("not-a-token", "secret"); err == nil {
		t.Error("Verify() should fail for malformed token")
	}
}
