package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// ErrUnauthenticated is returned when an operation requires an actor and
// none was resolved for the request.
var ErrUnauthenticated = errors.New("authentication required", errors.CategoryAuth).
	WithTextCode("UNAUTHENTICATED").
	WithCode(errors.CodeUnauthorized)

// ErrInvalidCredential is returned when a credential was supplied but could
// not be trusted: unknown identity key, or token claims that do not match
// the account owning the key.
var ErrInvalidCredential = errors.New("invalid credential", errors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIAL").
	WithCode(errors.CodeUnauthorized)

// ErrForbidden is returned when a resolved actor lacks ownership or role.
var ErrForbidden = errors.New("access denied", errors.CategoryAuthz).
	WithTextCode("FORBIDDEN").
	WithCode(errors.CodeForbidden)

// ErrPasswordMismatch is the uniform login failure; it does not reveal
// whether the account exists.
var ErrPasswordMismatch = errors.New("username or password mismatch", errors.CategoryAuth).
	WithTextCode("BAD_LOGIN").
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired marks an access token past its expiry. The gate treats it
// the same as any other invalid token; the distinction exists for logging.
var ErrTokenExpired = errors.New("access token expired", errors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED").
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed marks a structurally broken or forged access token.
var ErrTokenMalformed = errors.New("access token malformed", errors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED").
	WithCode(errors.CodeUnauthorized)

// ErrIdentityNotFound is the error we return for non found accounts.
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode("IDENTITY_NOT_FOUND").
	WithCode(errors.CodeNotFound)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if hasTextCode(err, ErrTokenExpired.TextCode) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if hasTextCode(err, ErrTokenMalformed.TextCode) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed")
}

// IsInvalidCredentialError reports whether err is a gate rejection.
func IsInvalidCredentialError(err error) bool {
	return hasTextCode(err, ErrInvalidCredential.TextCode)
}

// IsUnauthenticatedError reports whether err is an absent-actor denial.
func IsUnauthenticatedError(err error) bool {
	return hasTextCode(err, ErrUnauthenticated.TextCode)
}

// IsForbiddenError reports whether err is an ownership/role denial.
func IsForbiddenError(err error) bool {
	return hasTextCode(err, ErrForbidden.TextCode)
}

func hasTextCode(err error, code string) bool {
	var rich *errors.Error
	if !errors.As(err, &rich) {
		return false
	}
	return rich.TextCode == code
}

// withReason clones a sentinel so callers can attach a human reason and
// metadata without mutating the shared value.
func withReason(sentinel *errors.Error, reason string, metadata map[string]any) error {
	clone := sentinel.Clone()
	if clone == nil {
		return sentinel
	}
	if reason != "" {
		clone.Message = reason
	}
	clone.Source = sentinel
	if len(metadata) > 0 {
		return clone.WithMetadata(metadata)
	}
	return clone
}
