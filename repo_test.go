package auth_test

import (
	"context"
	"database/sql"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	auth "github.com/quillstack/go-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	// single connection keeps the in-memory database alive for the test
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	for _, model := range []any{
		(*auth.Account)(nil),
		(*auth.Article)(nil),
		(*auth.Comment)(nil),
		(*auth.ActivityRecord)(nil),
	} {
		_, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx)
		require.NoError(t, err)
	}

	return db
}

func seedAccount(t *testing.T, repo auth.Accounts, username, apiKey string) *auth.Account {
	t.Helper()

	hash, err := auth.HashPassword("s3cret-password")
	require.NoError(t, err)

	account, err := repo.Create(context.Background(), &auth.Account{
		Username:     username,
		Nickname:     username,
		PasswordHash: hash,
		APIKey:       apiKey,
	})
	require.NoError(t, err)
	return account
}

func TestAccountsRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := auth.NewAccountsRepository(db)
	ctx := context.Background()

	account := seedAccount(t, repo, "alice", "key-alice")
	require.NotZero(t, account.ID)

	t.Run("GetByID", func(t *testing.T) {
		got, err := repo.GetByID(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)
	})

	t.Run("GetByUsername", func(t *testing.T) {
		got, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, account.ID, got.ID)

		got, err = repo.GetByUsername(ctx, "  alice  ")
		require.NoError(t, err)
		assert.Equal(t, account.ID, got.ID)
	})

	t.Run("GetByIdentityKey", func(t *testing.T) {
		got, err := repo.GetByIdentityKey(ctx, "key-alice")
		require.NoError(t, err)
		assert.Equal(t, account.ID, got.ID)
	})

	t.Run("miss is an explicit not-found", func(t *testing.T) {
		_, err := repo.GetByIdentityKey(ctx, "no-such-key")
		require.Error(t, err)
		assert.True(t, goerrors.IsNotFound(err))

		_, err = repo.GetByUsername(ctx, "ghost")
		require.Error(t, err)
		assert.True(t, goerrors.IsNotFound(err))
	})

	t.Run("existence checks", func(t *testing.T) {
		taken, err := repo.UsernameExists(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = repo.UsernameExists(ctx, "ghost")
		require.NoError(t, err)
		assert.False(t, taken)

		taken, err = repo.IdentityKeyExists(ctx, "key-alice")
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = repo.IdentityKeyExists(ctx, "no-such-key")
		require.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("TrackLogin stamps loggedin_at", func(t *testing.T) {
		require.NoError(t, repo.TrackLogin(ctx, account))

		got, err := repo.GetByID(ctx, account.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LoggedInAt)
	})
}

func TestArticlesRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := auth.NewArticlesRepository(db)
	ctx := context.Background()

	public, err := repo.Create(ctx, &auth.Article{
		AuthorID:  10,
		Title:     "public piece",
		Published: true,
		Listed:    true,
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &auth.Article{
		AuthorID: 10,
		Title:    "draft",
	})
	require.NoError(t, err)

	unlisted, err := repo.Create(ctx, &auth.Article{
		AuthorID:  20,
		Title:     "published but unlisted",
		Published: true,
	})
	require.NoError(t, err)

	t.Run("ListPublic returns published and listed only", func(t *testing.T) {
		got, err := repo.ListPublic(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, public.ID, got[0].ID)
	})

	t.Run("ListByAuthor", func(t *testing.T) {
		got, err := repo.ListByAuthor(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("Update", func(t *testing.T) {
		unlisted.Listed = true
		_, err := repo.Update(ctx, unlisted)
		require.NoError(t, err)

		got, err := repo.ListPublic(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, unlisted.ID))

		_, err := repo.GetByID(ctx, unlisted.ID)
		require.Error(t, err)
		assert.True(t, goerrors.IsNotFound(err))
	})
}

func TestCommentsRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := auth.NewCommentsRepository(db)
	ctx := context.Background()

	first, err := repo.Create(ctx, &auth.Comment{ArticleID: 1, AuthorID: 10, Content: "first"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &auth.Comment{ArticleID: 1, AuthorID: 20, Content: "second"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &auth.Comment{ArticleID: 2, AuthorID: 10, Content: "elsewhere"})
	require.NoError(t, err)

	t.Run("ListByArticle in insertion order", func(t *testing.T) {
		got, err := repo.ListByArticle(ctx, 1)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "first", got[0].Content)
	})

	t.Run("Update and Delete", func(t *testing.T) {
		first.Content = "edited"
		_, err := repo.Update(ctx, first)
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "edited", got.Content)

		require.NoError(t, repo.Delete(ctx, first.ID))
		_, err = repo.GetByID(ctx, first.ID)
		assert.True(t, goerrors.IsNotFound(err))
	})
}

func TestRepositoryManager(t *testing.T) {
	db := setupTestDB(t)
	repos := auth.NewRepositoryManager(db)

	assert.NoError(t, repos.Validate())
	assert.NotPanics(t, repos.MustValidate)
	assert.NotNil(t, repos.Accounts())
	assert.NotNil(t, repos.Articles())
	assert.NotNil(t, repos.Comments())
	assert.NotNil(t, repos.Activities())

	t.Run("RunInTx honors cancelled contexts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := repos.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			t.Fatal("transaction body must not run")
			return nil
		})
		assert.Error(t, err)
	})
}

func TestRepositoryActivitySink(t *testing.T) {
	db := setupTestDB(t)
	repos := auth.NewRepositoryManager(db)
	sink := auth.NewRepositoryActivitySink(repos.Activities())
	ctx := context.Background()

	err := sink.Record(ctx, auth.ActivityEvent{
		EventType: auth.ActivityEventLoginSuccess,
		AccountID: 42,
		Metadata:  map[string]any{"username": "alice"},
	})
	require.NoError(t, err)

	var records []*auth.ActivityRecord
	require.NoError(t, db.NewSelect().Model(&records).Scan(ctx))
	require.Len(t, records, 1)
	assert.Equal(t, string(auth.ActivityEventLoginSuccess), records[0].EventType)
	assert.Equal(t, int64(42), records[0].AccountID)
	assert.False(t, records[0].OccurredAt.IsZero())
}

func TestRegisterAccountHandler(t *testing.T) {
	db := setupTestDB(t)
	repos := auth.NewRepositoryManager(db)
	sink := &recordingSink{}
	handler := auth.NewRegisterAccountHandler(repos).WithActivitySink(sink)
	ctx := context.Background()

	t.Run("creates account with hashed password and identity key", func(t *testing.T) {
		account, err := handler.Execute(ctx, auth.RegisterAccountMessage{
			Username: "alice",
			Password: "s3cret-password",
			Nickname: "Alice",
		})

		require.NoError(t, err)
		assert.NotZero(t, account.ID)
		assert.Equal(t, "Alice", account.Nickname)
		assert.NotEmpty(t, account.APIKey)
		assert.NotEqual(t, "s3cret-password", account.PasswordHash)
		assert.NoError(t, auth.ComparePasswordAndHash("s3cret-password", account.PasswordHash))

		events := sink.Events()
		require.Len(t, events, 1)
		assert.Equal(t, auth.ActivityEventRegistered, events[0].EventType)
		assert.Equal(t, account.ID, events[0].AccountID)
		assert.Equal(t, "alice", events[0].Metadata["username"])
	})

	t.Run("nickname falls back to username", func(t *testing.T) {
		account, err := handler.Execute(ctx, auth.RegisterAccountMessage{
			Username: "bob",
			Password: "another-secret",
		})

		require.NoError(t, err)
		assert.Equal(t, "bob", account.Nickname)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		before := len(sink.Events())

		_, err := handler.Execute(ctx, auth.RegisterAccountMessage{
			Username: "alice",
			Password: "whatever-else",
		})

		require.Error(t, err)
		var rich *goerrors.Error
		require.True(t, goerrors.As(err, &rich))
		assert.Equal(t, goerrors.CategoryConflict, rich.Category)
		assert.Equal(t, "USERNAME_TAKEN", rich.TextCode)

		// failed registrations leave no activity trail
		assert.Len(t, sink.Events(), before)
	})

	t.Run("empty password is rejected", func(t *testing.T) {
		_, err := handler.Execute(ctx, auth.RegisterAccountMessage{
			Username: "carol",
		})
		require.Error(t, err)
	})

	t.Run("cancelled context aborts before touching storage", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := handler.Execute(cancelled, auth.RegisterAccountMessage{
			Username: "dave",
			Password: "irrelevant-pass",
		})
		require.Error(t, err)
	})
}
