package users_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-church-admin/internal/errors"
	"github.com/jrsteele09/go-church-admin/token"
	"github.com/jrsteele09/go-church-admin/users"
	fakeuserrepo "github.com/jrsteele09/go-church-admin/users/repofake"
	"github.com/stretchr/testify/require"
)

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"Sh0rt", true},
		{"alllowercase1", true},
		{"ALLUPPERCASE1", true},
		{"NoNumbersHere", true},
		{"Passw0rdOK", false},
	}
	for _, tc := range tests {
		t.Run(tc.password, func(t *testing.T) {
			err := users.ValidatePasswordStrength(tc.password)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := users.HashPassword("Passw0rd!")
	require.NoError(t, err)
	u := &users.User{PasswordHash: hash}

	require.True(t, u.CheckPassword("Passw0rd!"))
	require.False(t, u.CheckPassword("passw0rd!"))
}

func TestFakeUserRepo(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()

	u := &users.User{Email: " Admin@Church.org ", Role: token.RoleAdmin}
	require.NoError(t, repo.Upsert(u))
	require.NotEmpty(t, u.ID)

	got, err := repo.GetByEmail("admin@church.org")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, token.RoleAdmin, got.Identity().Role)

	byID, err := repo.GetByID(u.ID)
	require.NoError(t, err)
	require.Equal(t, "admin@church.org", byID.Email)

	require.Error(t, repo.Upsert(&users.User{ID: "other", Email: "admin@church.org"}))

	now := time.Now()
	require.NoError(t, repo.SetLastLogin("ADMIN@church.org", now))
	got, err = repo.GetByEmail("admin@church.org")
	require.NoError(t, err)
	require.True(t, got.LastLogin.Equal(now))

	require.NoError(t, repo.Delete("admin@church.org"))
	_, err = repo.GetByEmail("admin@church.org")
	require.ErrorIs(t, err, errors.ErrUserNotFound)
}
