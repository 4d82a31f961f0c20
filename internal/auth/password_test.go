package auth_test

import (
	"testing"

	"github.com/jonesrussell/llmstxt-pipeline/internal/auth"
)

// testPasswordHash is the bcrypt digest of "test_password".
const testPasswordHash = "$2b$12$LQv3c1yqBWVHxkd0LHAkCOYz6TtxMQJqhN8/LewY5GyYWNGZqKzRu"

func TestVerifyPassword_Correct(t *testing.T) {
	t.Parallel()

	if !auth.VerifyPassword("test_password", testPasswordHash) {
		t.Error("VerifyPassword() = false, want true for the matching password")
	}
}

func TestVerifyPassword_Incorrect(t *testing.T) {
	t.Parallel()

	if auth.VerifyPassword("wrong_password", testPasswordHash) {
		t.Error("VerifyPassword() = true, want false for a mismatched password")
	}
}

func TestHashPassword_RoundTrips(t *testing.T) {
	t.Parallel()

	hash, err := auth.HashPassword("my-new-password")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !auth.VerifyPassword("my-new-password", hash) {
		t.Error("VerifyPassword() = false for a password just hashed by HashPassword()")
	}
	if auth.VerifyPassword("not-the-password", hash) {
		t.Error("VerifyPassword() = true for a wrong password against a fresh hash")
	}
}
