package auth

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Accounts() Accounts
	Articles() Articles
	Comments() Comments
	Activities() repository.Repository[*ActivityRecord]
}

type mngr struct {
	db         *bun.DB
	accounts   Accounts
	articles   Articles
	comments   Comments
	activities repository.Repository[*ActivityRecord]
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:         db,
		accounts:   NewAccountsRepository(db),
		articles:   NewArticlesRepository(db),
		comments:   NewCommentsRepository(db),
		activities: NewActivitiesRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.accounts == nil {
		return errors.New("repository accounts should be initialized")
	}

	if m.articles == nil {
		return errors.New("repository articles should be initialized")
	}

	if m.comments == nil {
		return errors.New("repository comments should be initialized")
	}

	if m.activities == nil {
		return errors.New("repository activities should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Accounts() Accounts {
	return m.accounts
}

func (m mngr) Articles() Articles {
	return m.articles
}

func (m mngr) Comments() Comments {
	return m.comments
}

func (m mngr) Activities() repository.Repository[*ActivityRecord] {
	return m.activities
}
