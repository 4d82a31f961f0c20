package auth_test

import (
	"testing"

	"github.com/jonesrussell/llmstxt-pipeline/internal/auth"
)

func TestMintAndValidateInternalServiceToken(t *testing.T) {
	t.Parallel()

	token, err := auth.MintInternalServiceToken(testSecret, "cron")
	if err != nil {
		t.Fatalf("MintInternalServiceToken() error = %v", err)
	}

	service, err := auth.ValidateInternalServiceToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateInternalServiceToken() error = %v", err)
	}
	if service != "cron" {
		t.Errorf("service = %q, want cron", service)
	}
}

func TestValidateInternalServiceToken_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := auth.MintInternalServiceToken(testSecret, "cron")
	if err != nil {
		t.Fatalf("MintInternalServiceToken() error = %v", err)
	}
	if _, err := auth.ValidateInternalServiceToken(token, "wrong-secret"); err == nil {
		t.Error("ValidateInternalServiceToken() expected error for wrong secret, got nil")
	}
}

func TestValidateInternalServiceToken_Garbage(t *testing.T) {
	t.Parallel()

	if _, err := auth.ValidateInternalServiceToken("not-a-jwt", testSecret); err == nil {
		t.Error("ValidateInternalServiceToken() expected error for malformed token, got nil")
	}
}
