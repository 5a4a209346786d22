package auth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// AccountStore is the slice of the accounts repository the provider needs.
type AccountStore interface {
	GetByUsername(ctx context.Context, username string) (*Account, error)
	GetByIdentityKey(ctx context.Context, key string) (*Account, error)
	TrackLogin(ctx context.Context, account *Account) error
}

// AccountProvider resolves accounts for the authentication core.
type AccountProvider struct {
	store  AccountStore
	logger Logger
}

var _ IdentityProvider = (*AccountProvider)(nil)

// NewAccountProvider will create a new AccountProvider
func NewAccountProvider(store AccountStore) *AccountProvider {
	return &AccountProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (p *AccountProvider) WithLogger(l Logger) *AccountProvider {
	if l != nil {
		p.logger = l
	}
	return p
}

// VerifyIdentity will find the account, compare the password, and return the
// record. Unknown username and wrong password produce the same error so the
// response does not leak which accounts exist.
func (p *AccountProvider) VerifyIdentity(ctx context.Context, username, password string) (*Account, error) {
	account, err := p.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrPasswordMismatch
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve account during verification")
	}

	if err := ComparePasswordAndHash(password, account.PasswordHash); err != nil {
		return nil, ErrPasswordMismatch
	}

	if err := p.store.TrackLogin(ctx, account); err != nil {
		p.logger.Error("failed to track successful login", "error", err)
	}

	return account, nil
}

// FindByIdentityKey resolves the account owning an identity key. A miss is
// ErrIdentityNotFound; the gate maps it to an invalid-credential rejection.
func (p *AccountProvider) FindByIdentityKey(ctx context.Context, key string) (*Account, error) {
	account, err := p.store.GetByIdentityKey(ctx, key)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve account by identity key")
	}

	return account, nil
}
