package user_test

import (
	"context"
	"testing"
	"time"

	"bookstore/internal/testutil"
	"bookstore/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepo_CreateAndLookup(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := user.NewPostgresRepo(db, 5*time.Second)
	ctx := context.Background()

	u := &user.User{Username: "reader", Email: "reader@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	byName, err := repo.GetByUsernameOrEmail(ctx, "reader")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	byEmail, err := repo.GetByUsernameOrEmail(ctx, "reader@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = repo.GetByUsernameOrEmail(ctx, "nobody")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestPostgresRepo_DuplicateUsernameLeavesTableUnchanged(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := user.NewPostgresRepo(db, 5*time.Second)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &user.User{Username: "sam", Email: "sam@example.com", PasswordHash: "h"}))
	before, err := repo.Count(ctx)
	require.NoError(t, err)

	err = repo.Create(ctx, &user.User{Username: "sam", Email: "other@example.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, user.ErrDuplicate)

	err = repo.Create(ctx, &user.User{Username: "samuel", Email: "sam@example.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, user.ErrDuplicate)

	after, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
