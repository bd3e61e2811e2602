package auth_test

import (
	"context"
	"io/fs"
	"testing"

	auth "github.com/goliatone/go-auth-verify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun/migrate"
)

func TestGetMigrationsFS_ListsPairs(t *testing.T) {
	up, err := fs.Glob(auth.GetMigrationsFS(), "*.up.sql")
	require.NoError(t, err)
	down, err := fs.Glob(auth.GetMigrationsFS(), "*.down.sql")
	require.NoError(t, err)

	assert.NotEmpty(t, up)
	assert.Len(t, down, len(up))
}

func TestMigrations_MatchUserModel(t *testing.T) {
	ctx := context.Background()
	db := newBareDB(t)

	migrations := migrate.NewMigrations()
	require.NoError(t, migrations.Discover(auth.GetMigrationsFS()))

	migrator := migrate.NewMigrator(db, migrations)
	require.NoError(t, migrator.Init(ctx))

	group, err := migrator.Migrate(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, group.Migrations)

	// the schema created in code is a no op on a migrated database
	require.NoError(t, auth.CreateSchema(ctx, db))

	repos := auth.NewRepositoryManager(db)
	store := repos.Users()

	created, err := store.Create(ctx, &auth.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "hash"})
	require.NoError(t, err)

	_, err = store.Create(ctx, &auth.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, auth.ErrEmailInUse)

	verified, err := store.Update(ctx, created.ID, auth.MarkEmailVerified())
	require.NoError(t, err)
	assert.True(t, verified.IsEmailVerified)
	assert.Equal(t, []auth.Role{auth.RoleUser}, verified.Roles)

	group, err = migrator.Rollback(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, group.Migrations)

	_, err = store.List(ctx)
	assert.Error(t, err)
}
