package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the decoded payload of a verified access token.
type AccessClaims interface {
	AccountID() int64
	Username() string
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AccessClaims. The payload is
// intentionally small: account id and login name, plus the registered
// issued-at/expiry pair. Claims are never persisted.
type JWTClaims struct {
	jwt.RegisteredClaims
	UID  int64  `json:"id,omitempty"`
	Name string `json:"username,omitempty"`
}

// Verify interface compliance
var _ AccessClaims = (*JWTClaims)(nil)

// AccountID returns the numeric account id the token was minted for.
func (c *JWTClaims) AccountID() int64 {
	return c.UID
}

// Username returns the login name embedded in the token.
func (c *JWTClaims) Username() string {
	return c.Name
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
