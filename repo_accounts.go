package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// Accounts is the bun-backed account repository. It is the collaborator the
// auth core reads identity keys through; schema ownership stays here.
type Accounts interface {
	GetByID(ctx context.Context, id int64) (*Account, error)
	GetByUsername(ctx context.Context, username string) (*Account, error)
	GetByIdentityKey(ctx context.Context, key string) (*Account, error)
	IdentityKeyExists(ctx context.Context, key string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, account *Account) (*Account, error)
	CreateTx(ctx context.Context, tx bun.IDB, account *Account) (*Account, error)
	TrackLogin(ctx context.Context, account *Account) error
}

type accounts struct {
	db *bun.DB
}

var (
	_ Accounts           = (*accounts)(nil)
	_ AccountStore       = (Accounts)(nil)
	_ IdentityKeyChecker = (Accounts)(nil)
)

// NewAccountsRepository wires an Accounts repository over a bun DB.
func NewAccountsRepository(db *bun.DB) Accounts {
	return &accounts{db: db}
}

func (a *accounts) GetByID(ctx context.Context, id int64) (*Account, error) {
	return a.getBy(ctx, a.db, "id", id)
}

func (a *accounts) GetByUsername(ctx context.Context, username string) (*Account, error) {
	return a.getBy(ctx, a.db, "username", strings.TrimSpace(username))
}

func (a *accounts) GetByIdentityKey(ctx context.Context, key string) (*Account, error) {
	return a.getBy(ctx, a.db, "api_key", key)
}

func (a *accounts) getBy(ctx context.Context, tx bun.IDB, column string, value any) (*Account, error) {
	record := &Account{}

	err := tx.NewSelect().
		Model(record).
		Where(fmt.Sprintf("?TableAlias.%s = ?", column), value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					column: value,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *accounts) IdentityKeyExists(ctx context.Context, key string) (bool, error) {
	return a.db.NewSelect().
		Model((*Account)(nil)).
		Where("?TableAlias.api_key = ?", key).
		Exists(ctx)
}

func (a *accounts) UsernameExists(ctx context.Context, username string) (bool, error) {
	return a.db.NewSelect().
		Model((*Account)(nil)).
		Where("?TableAlias.username = ?", strings.TrimSpace(username)).
		Exists(ctx)
}

func (a *accounts) Create(ctx context.Context, account *Account) (*Account, error) {
	return a.CreateTx(ctx, a.db, account)
}

func (a *accounts) CreateTx(ctx context.Context, tx bun.IDB, account *Account) (*Account, error) {
	if _, err := tx.NewInsert().Model(account).Exec(ctx); err != nil {
		return nil, err
	}
	return account, nil
}

// TrackLogin stamps the last successful login. Failures are non-fatal to
// the login itself; callers log and continue.
func (a *accounts) TrackLogin(ctx context.Context, account *Account) error {
	now := time.Now()
	account.LoggedInAt = &now

	_, err := a.db.NewUpdate().
		Model(account).
		Column("loggedin_at").
		WherePK().
		Exec(ctx)

	return err
}
