package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenService signs and verifies access tokens. Implementations hold no
// mutable state and are safe for concurrent use.
type TokenService interface {
	Generate(account *Account) (string, error)
	SignClaims(claims *JWTClaims) (string, error)
	Validate(tokenString string) (AccessClaims, error)
}

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey []byte
	tokenTTL   int // seconds
	logger     Logger
}

// NewTokenService creates a new TokenService instance. tokenTTL is the
// access token time-to-live in seconds.
func NewTokenService(signingKey []byte, tokenTTL int, logger Logger) TokenService {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		signingKey: signingKey,
		tokenTTL:   tokenTTL,
		logger:     logger,
	}
}

// Generate creates an access token carrying the account's claims.
func (ts *TokenServiceImpl) Generate(account *Account) (string, error) {
	if account == nil {
		return "", errors.New("account must not be nil", errors.CategoryInternal)
	}

	now := time.Now()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ts.tokenTTL) * time.Second)),
		},
		UID:  account.ID,
		Name: account.Username,
	}

	return ts.SignClaims(claims)
}

// SignClaims signs arbitrary claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign access token")
	}

	return signedString, nil
}

// Validate parses and validates a token string, returning structured claims.
// Every failure mode (malformed, bad signature, expired) is an auth error;
// callers must not grant trust based on which one it was.
func (ts *TokenServiceImpl) Validate(tokenString string) (AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	ts.logger.Error("TokenService validate could not decode or validate claims")
	return nil, ErrTokenMalformed
}
