package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotJWT is returned when a token cannot be read as a JWT.
var ErrNotJWT = errors.New("token is not a JWT")

// Claims are the fields the backend puts in its access tokens.
type Claims struct {
	UserID uint `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

// Info is what the client can tell about a token without verifying it.
type Info struct {
	Fingerprint string    `json:"fingerprint"`
	Algorithm   string    `json:"algorithm"`
	UserID      uint      `json:"userId,omitempty"`
	Subject     string    `json:"subject,omitempty"`
	IssuedAt    time.Time `json:"issuedAt,omitzero"`
	ExpiresAt   time.Time `json:"expiresAt,omitzero"`
}

// Inspect reads the claims of raw without checking its signature.
func Inspect(raw string) (*Info, error) {
	var claims Claims
	tok, _, err := jwt.NewParser().ParseUnverified(raw, &claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJWT, err)
	}

	info := &Info{
		Fingerprint: Fingerprint(raw),
		Algorithm:   tok.Method.Alg(),
		UserID:      claims.UserID,
		Subject:     claims.Subject,
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}

// HasExpiry reports whether the token carries an exp claim.
func (i *Info) HasExpiry() bool {
	return !i.ExpiresAt.IsZero()
}

// Expired reports whether the token is past its expiry at now. A token
// without expiry never expires.
func (i *Info) Expired(now time.Time) bool {
	return i.HasExpiry() && !now.Before(i.ExpiresAt)
}

// Remaining returns the time left until expiry, zero when expired or
// without expiry.
func (i *Info) Remaining(now time.Time) time.Duration {
	if !i.HasExpiry() || i.Expired(now) {
		return 0
	}
	return i.ExpiresAt.Sub(now)
}
