package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// internalTokenTTL is deliberately short: minted fresh per request/tick
// rather than cached, since cron's config carries only a secret, not a
// refresh flow.
const internalTokenTTL = 2 * time.Minute

// internalServiceClaims identifies a worker/cron internal caller, distinct
// from the browser session cookie (§12.4).
type internalServiceClaims struct {
	Service string `json:"service"`
	jwt.RegisteredClaims
}

// MintInternalServiceToken signs a short-lived bearer token for service
// identity serviceName (e.g. "cron"), using sessionSecret as the HMAC key.
// Sharing the secret with session-cookie signing is intentional: both are
// the API tier's single trust root, configured by the same SESSION_SECRET.
func MintInternalServiceToken(sessionSecret, serviceName string) (string, error) {
	now := time.Now()
	claims := &internalServiceClaims{
		Service: serviceName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(internalTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(sessionSecret))
	if err != nil {
		return "", fmt.Errorf("sign internal service token: %w", err)
	}
	return signed, nil
}

// ValidateInternalServiceToken verifies tokenString against sessionSecret
// and returns the claimed service name.
func ValidateInternalServiceToken(tokenString, sessionSecret string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &internalServiceClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(sessionSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("parse internal service token: %w", err)
	}

	claims, ok := token.Claims.(*internalServiceClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid internal service token")
	}
	return claims.Service, nil
}
