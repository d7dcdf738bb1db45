// Package gate issues access tokens and resolves them back to user ids.
package gate

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/pkg/tokens"
)

const DefaultTTL = 24 * time.Hour

type Gate struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func New(secret []byte, ttl time.Duration) *Gate {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Gate{Secret: secret, TTL: ttl, Now: time.Now}
}

func (g *Gate) now() time.Time {
	if g.Now == nil {
		return time.Now()
	}
	return g.Now()
}

func (g *Gate) Issue(userID uuid.UUID, role string) (string, time.Time, error) {
	now := g.now()
	exp := now.Add(g.TTL)
	token, err := tokens.NewAccessToken(g.Secret, userID.String(), role, now, exp)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

// Authenticate returns tokens.ErrMissingToken for an empty token and
// tokens.ErrInvalidToken for anything that does not verify.
func (g *Gate) Authenticate(token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, tokens.ErrMissingToken
	}

	claims, err := tokens.AccessClaimsFromToken(token, g.Secret)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", tokens.ErrInvalidToken, err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: bad subject", tokens.ErrInvalidToken)
	}
	return id, nil
}
