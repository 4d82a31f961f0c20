package auth_test

import (
	"testing"
	"time"

	"github.com/jonesrussell/llmstxt-pipeline/internal/auth"
)

const testSecret = "test_secret_key_for_hmac_signing"

func TestGenerateAndValidateSessionToken(t *testing.T) {
	t.Parallel()

	token, err := auth.GenerateSessionToken(testSecret)
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}
	if !auth.ValidateSessionToken(token, testSecret, time.Hour) {
		t.Error("ValidateSessionToken() = false, want true for freshly generated token")
	}
}

func TestValidateSessionToken_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := auth.GenerateSessionToken(testSecret)
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}
	if auth.ValidateSessionToken(token, "wrong_secret", time.Hour) {
		t.Error("ValidateSessionToken() = true, want false for wrong secret")
	}
}

func TestValidateSessionToken_Expired(t *testing.T) {
	t.Parallel()

	token, err := auth.GenerateSessionToken(testSecret)
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}
	if auth.ValidateSessionToken(token, testSecret, -time.Second) {
		t.Error("ValidateSessionToken() = true, want false for a token already older than max age")
	}
}

func TestValidateSessionToken_InvalidFormat(t *testing.T) {
	t.Parallel()

	tests := []string{
		"",
		"just-one-part",
		"two:parts",
		"not:a:number",
	}
	for _, tok := range tests {
		if auth.ValidateSessionToken(tok, testSecret, time.Hour) {
			t.Errorf("ValidateSessionToken(%q) = true, want false", tok)
		}
	}
}

func TestGenerateSessionToken_Unique(t *testing.T) {
	t.Parallel()

	a, err := auth.GenerateSessionToken(testSecret)
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}
	b, err := auth.GenerateSessionToken(testSecret)
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}
	if a == b {
		t.Error("GenerateSessionToken() produced identical tokens across two calls")
	}
}
