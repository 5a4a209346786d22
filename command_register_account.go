package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// RegisterAccountMessage carries a join request into the handler.
type RegisterAccountMessage struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

func (e RegisterAccountMessage) Type() string { return "account.register" }

// RegisterAccountHandler creates an account: bcrypt-hashes the password and
// mints the one-time identity key inside a transaction.
type RegisterAccountHandler struct {
	repo         RepositoryManager
	activitySink ActivitySink
	logger       Logger
}

// NewRegisterAccountHandler returns a handler bound to the repositories.
func NewRegisterAccountHandler(repo RepositoryManager) *RegisterAccountHandler {
	return &RegisterAccountHandler{
		repo:         repo,
		activitySink: noopActivitySink{},
		logger:       defLogger{},
	}
}

// WithActivitySink configures an ActivitySink for recording registrations.
func (h *RegisterAccountHandler) WithActivitySink(sink ActivitySink) *RegisterAccountHandler {
	h.activitySink = normalizeActivitySink(sink)
	return h
}

func (h *RegisterAccountHandler) WithLogger(logger Logger) *RegisterAccountHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *RegisterAccountHandler) Execute(ctx context.Context, event RegisterAccountMessage) (*Account, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterAccountHandler) execute(ctx context.Context, event RegisterAccountMessage) (*Account, error) {
	account := &Account{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		taken, err := h.repo.Accounts().UsernameExists(ctx, event.Username)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check username availability")
		}
		if taken {
			return goerrors.New("username is already in use", goerrors.CategoryConflict).
				WithTextCode("USERNAME_TAKEN").
				WithCode(goerrors.CodeConflict)
		}

		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		apiKey, err := GenerateUniqueIdentityKey(ctx, h.repo.Accounts())
		if err != nil {
			return err
		}

		account.Username = event.Username
		account.Nickname = getNickname(event.Nickname, event.Username)
		account.PasswordHash = hash
		account.APIKey = apiKey

		if account, err = h.repo.Accounts().CreateTx(ctx, tx, account); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create account")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}

		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "account registration transaction failed")
	}

	sink := normalizeActivitySink(h.activitySink)
	recordErr := sink.Record(ctx, ActivityEvent{
		EventType: ActivityEventRegistered,
		AccountID: account.ID,
		Metadata: map[string]any{
			"username": account.Username,
		},
		OccurredAt: time.Now(),
	})
	if recordErr != nil {
		h.logger.Warn("activity sink record error: %v", recordErr)
	}

	return account, nil
}

func getNickname(nickname, username string) string {
	if nickname != "" {
		return nickname
	}
	return username
}
