package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpired reports whether tok is a JWT whose exp claim is already in
// the past. The signature is deliberately not verified — the backend is the
// authority; this is only a cheap pre-check that saves a doomed round trip.
// Opaque tokens and JWTs without exp report false.
func tokenExpired(tok string) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(time.Now())
}
