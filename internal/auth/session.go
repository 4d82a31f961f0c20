// Package auth implements the browser session mechanism (§6): an
// HMAC-signed cookie token, bcrypt password verification, and the
// additive internal service-to-service JWT used by cron (§12.4).
package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CookieName is the name of the session cookie set by POST /api/auth/login.
const CookieName = "llm_web_index_session"

const nonceLen = 16

// GenerateSessionToken produces a token of the form
// "timestamp:nonce:signature", where signature is
// HMAC-SHA256("timestamp:nonce", secret), base64url-no-pad encoded.
func GenerateSessionToken(secret string) (string, error) {
	nonce := make([]byte, nonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate session nonce: %w", err)
	}
	nonceB64 := base64.RawURLEncoding.EncodeToString(nonce)

	timestamp := time.Now().Unix()
	payload := fmt.Sprintf("%d:%s", timestamp, nonceB64)
	signature := signPayload(payload, secret)

	return fmt.Sprintf("%s:%s", payload, signature), nil
}

// ValidateSessionToken reports whether token is well-formed, correctly
// signed by secret, and not older than maxAge. It never returns an error
// for an invalid or expired token — only false — matching the spec's
// "invalid or expired" is just "not authenticated" semantics.
func ValidateSessionToken(token, secret string, maxAge time.Duration) bool {
	parts := strings.Split(token, ":")
	if len(parts) != 3 {
		return false
	}
	timestampStr, nonce, providedSignature := parts[0], parts[1], parts[2]

	timestamp, err := strconv.ParseInt(timestampStr, 10, 64)
	if err != nil {
		return false
	}

	issuedAt := time.Unix(timestamp, 0)
	if time.Since(issuedAt) > maxAge {
		return false
	}

	payload := fmt.Sprintf("%s:%s", timestampStr, nonce)
	expectedSignature := signPayload(payload, secret)

	return subtle.ConstantTimeCompare([]byte(providedSignature), []byte(expectedSignature)) == 1
}

func signPayload(payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
