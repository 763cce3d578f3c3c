package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)

	signed, expiresAt, err := tokens.Generate(42, "user@example.com")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if time.Until(expiresAt) > time.Hour || time.Until(expiresAt) < 59*time.Minute {
		t.Errorf("expiry %v not about an hour out", expiresAt)
	}

	claims, err := tokens.Validate(signed)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "user@example.com" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestValidateRejectsBadTokens(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)

	expired, _, err := NewTokens("test-secret", -time.Minute).Generate(1, "a@example.com")
	if err != nil {
		t.Fatalf("Generate expired: %v", err)
	}
	foreign, _, err := NewTokens("other-secret", time.Hour).Generate(1, "a@example.com")
	if err != nil {
		t.Fatalf("Generate foreign: %v", err)
	}

	for name, tok := range map[string]string{
		"garbage":        "not.a.token",
		"empty":          "",
		"expired":        expired,
		"foreign secret": foreign,
	} {
		if _, err := tokens.Validate(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: error = %v, want ErrInvalidToken", name, err)
		}
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPassword(hash, "s3cret") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}
