package clerk

import (
	"fmt"

	"github.com/golang-jwt/jwt/v4"

	"github.com/xy-planning-network/clerksync"
)

// SessionClaims carries the pieces of a Clerk session token the module acts
// on. The subject is the Clerk user ID.
type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid,omitempty"`
}

// parseUnverifiedClaims decodes the token's claims without checking its
// signature. Only environments that can use service stubs reach this path.
func parseUnverifiedClaims(token string) (SessionClaims, error) {
	var claims SessionClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return SessionClaims{}, fmt.Errorf("parsing session token: %w", err)
	}

	if claims.Subject == "" {
		return SessionClaims{}, fmt.Errorf("session token missing subject: %w", clerksync.ErrNotValid)
	}

	return claims, nil
}
