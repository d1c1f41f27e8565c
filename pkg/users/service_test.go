package users

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talesforge/talesforge/pkg/errcodes"
	"github.com/talesforge/talesforge/pkg/migrations"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func strPtr(s string) *string {
	return &s
}

func TestServiceCreate_AssignsUUIDAndRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := NewService(newTestDB(t))
	ctx := context.Background()

	user, err := svc.Create(ctx, CreateUserOptions{Email: "author@example.com", FirstName: strPtr("Ada")})
	require.NoError(t, err)
	assert.Len(t, user.ID, 36)
	assert.False(t, user.HasPassword())

	_, err = svc.Create(ctx, CreateUserOptions{Email: "AUTHOR@example.com"})
	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, "validation_error", codeErr.Code)
}

func TestServiceRetrieveByEmail_CaseInsensitive(t *testing.T) {
	t.Parallel()

	svc := NewService(newTestDB(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateUserOptions{Email: "Editor@Example.com"})
	require.NoError(t, err)

	found, err := svc.RetrieveByEmail(ctx, "editor@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.RetrieveByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, errcodes.NotFound("User"))
}

func TestServiceUpsert(t *testing.T) {
	t.Parallel()

	svc := NewService(newTestDB(t))
	ctx := context.Background()

	first, err := svc.Upsert(ctx, CreateUserOptions{Email: "dev@example.com", IsAdmin: false})
	require.NoError(t, err)
	assert.False(t, first.IsAdmin)

	second, err := svc.Upsert(ctx, CreateUserOptions{Email: "dev@example.com", IsAdmin: true, LastName: strPtr("Lovelace")})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.IsAdmin)

	stored, err := svc.Retrieve(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsAdmin)
	require.NotNil(t, stored.LastName)
	assert.Equal(t, "Lovelace", *stored.LastName)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestServiceAuthenticate(t *testing.T) {
	t.Parallel()

	svc := NewService(newTestDB(t))
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateUserOptions{Email: "admin@example.com", Password: "correct horse", IsAdmin: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateUserOptions{Email: "nopass@example.com"})
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "ADMIN@example.com", "correct horse")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)

	invalid := errcodes.Unauthorized("Invalid email or password")
	_, err = svc.Authenticate(ctx, "admin@example.com", "wrong")
	assert.ErrorIs(t, err, invalid)
	_, err = svc.Authenticate(ctx, "nopass@example.com", "")
	assert.ErrorIs(t, err, invalid)
	_, err = svc.Authenticate(ctx, "ghost@example.com", "x")
	assert.ErrorIs(t, err, invalid)
}
