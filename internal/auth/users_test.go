package auth

import (
	"context"
	"testing"

	"furniture-admin/internal/apperr"
	"furniture-admin/internal/database/dbtest"
	"furniture-admin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserAndAuthenticate(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, db, NewUser{
		Name:     " Siti ",
		Email:    "Siti@Example.com",
		Password: "rahasia123",
	})
	require.NoError(t, err)
	assert.Equal(t, "Siti", user.Name)
	assert.Equal(t, "siti@example.com", user.Email)
	assert.Equal(t, models.RoleStaff, user.Role)
	assert.NotEqual(t, "rahasia123", user.PasswordHash)

	got, err := Authenticate(ctx, db, "SITI@example.com ", "rahasia123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = Authenticate(ctx, db, "siti@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = Authenticate(ctx, db, "nobody@example.com", "rahasia123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateUserValidation(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	_, err := CreateUser(ctx, db, NewUser{Name: "A", Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)

	tests := []struct {
		name string
		in   NewUser
	}{
		{"missing name", NewUser{Email: "b@example.com", Password: "password1"}},
		{"bad email", NewUser{Name: "B", Email: "nope", Password: "password1"}},
		{"short password", NewUser{Name: "B", Email: "b@example.com", Password: "short"}},
		{"unknown role", NewUser{Name: "B", Email: "b@example.com", Password: "password1", Role: "owner"}},
		{"duplicate email", NewUser{Name: "C", Email: "A@example.com", Password: "password1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateUser(ctx, db, tt.in)
			assert.ErrorIs(t, err, apperr.ErrInvalidInput)
		})
	}
}

func TestAdminExistsAndGetUser(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	exists, err := AdminExists(ctx, db)
	require.NoError(t, err)
	assert.False(t, exists)

	admin, err := CreateUser(ctx, db, NewUser{Name: "Admin", Email: "admin@example.com", Password: "password1", Role: models.RoleAdmin})
	require.NoError(t, err)

	exists, err = AdminExists(ctx, db)
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := GetUser(ctx, db, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", got.Email)

	_, err = GetUser(ctx, db, 404)
	assert.ErrorIs(t, err, apperr.ErrUserNotFound)
}
