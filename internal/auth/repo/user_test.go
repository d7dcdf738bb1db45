package repo

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/auth/models"
	"github.com/Skotchmaster/storefront/pkg/db/dbtest"
)

func TestGormRepo_CreateUserIfNotExists(t *testing.T) {
	r := &GormRepo{DB: dbtest.Open(t, &models.User{})}
	ctx := context.Background()

	u := &models.User{Username: "alice", PasswordHash: "h"}
	require.NoError(t, r.CreateUserIfNotExists(ctx, u))
	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.Equal(t, "user", u.Role)

	err := r.CreateUserIfNotExists(ctx, &models.User{Username: "alice", PasswordHash: "other"})
	assert.ErrorIs(t, err, ErrUserAlreadyExist)
}

func TestGormRepo_Lookups(t *testing.T) {
	r := &GormRepo{DB: dbtest.Open(t, &models.User{})}
	ctx := context.Background()

	u := &models.User{Username: "bob", PasswordHash: "h"}
	require.NoError(t, r.CreateUserIfNotExists(ctx, u))

	byName, err := r.GetUserByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	byID, err := r.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", byID.Username)

	_, err = r.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = r.GetUserByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGormRepo_DeleteUser(t *testing.T) {
	r := &GormRepo{DB: dbtest.Open(t, &models.User{})}
	ctx := context.Background()

	u := &models.User{Username: "carol", PasswordHash: "h"}
	require.NoError(t, r.CreateUserIfNotExists(ctx, u))

	require.NoError(t, r.DeleteUser(ctx, u.ID))
	assert.ErrorIs(t, r.DeleteUser(ctx, u.ID), ErrUserNotFound)
}
