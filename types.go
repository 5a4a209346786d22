package auth

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, username, password string) (Credential, error)
	Authenticate(ctx context.Context, cred Credential) (*AuthResult, error)
	Issuer() *Issuer
}

// LoginPayload is the payload the HTTP layer hands to Login.
type LoginPayload interface {
	GetUsername() string
	GetPassword() string
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	// GetTokenTTL returns the access token time-to-live in seconds.
	GetTokenTTL() int
	GetContextKey() string
	GetAuthScheme() string
}

// IdentityKeyStore maps an opaque identity key to an account record. A miss
// is an explicit not-found result, never a panic.
type IdentityKeyStore interface {
	FindByIdentityKey(ctx context.Context, key string) (*Account, error)
}

// IdentityProvider ensures we have a store to verify and retrieve accounts.
type IdentityProvider interface {
	IdentityKeyStore
	VerifyIdentity(ctx context.Context, username, password string) (*Account, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
