package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"

	"github.com/goliatone/go-errors"
)

// identityKeyBytes is the entropy of a generated identity key (256 bits).
const identityKeyBytes = 32

// maxIdentityKeyAttempts bounds the collision-check retry loop. With 256
// bits of entropy a retry should never happen in practice.
const maxIdentityKeyAttempts = 5

// NewIdentityKey returns a random, high-entropy opaque identity key.
func NewIdentityKey() (string, error) {
	buf := make([]byte, identityKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to generate identity key")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// IdentityKeyChecker reports whether a candidate key is already taken.
type IdentityKeyChecker interface {
	IdentityKeyExists(ctx context.Context, key string) (bool, error)
}

// GenerateUniqueIdentityKey mints identity keys until one is free. Keys are
// generated once per account, at registration; rotation is an external
// operation.
func GenerateUniqueIdentityKey(ctx context.Context, checker IdentityKeyChecker) (string, error) {
	for i := 0; i < maxIdentityKeyAttempts; i++ {
		key, err := NewIdentityKey()
		if err != nil {
			return "", err
		}

		taken, err := checker.IdentityKeyExists(ctx, key)
		if err != nil {
			return "", errors.Wrap(err, errors.CategoryInternal, "failed to check identity key uniqueness")
		}

		if !taken {
			return key, nil
		}
	}

	return "", errors.New("could not generate a unique identity key", errors.CategoryInternal)
}
