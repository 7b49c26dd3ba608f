// Package repotest holds the behaviour every sessions.Repo implementation must share.
package repotest

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-church-admin/sessions"
	"github.com/stretchr/testify/require"
)

// Run exercises repo against the sessions.Repo contract. The repo must start empty.
func Run(t *testing.T, repo sessions.Repo) {
	t.Helper()
	ctx := context.Background()

	t.Run("GetMissing", func(t *testing.T) {
		v, found, err := repo.Get(ctx, sessions.KeyToken)
		require.NoError(t, err)
		require.False(t, found)
		require.Empty(t, v)
	})

	t.Run("PutAllThenGet", func(t *testing.T) {
		require.NoError(t, repo.PutAll(ctx, map[string]string{
			sessions.KeyToken:        "access-1",
			sessions.KeyRefreshToken: "refresh-1",
			sessions.KeyUser:         `{"id":"1"}`,
		}))

		for key, want := range map[string]string{
			sessions.KeyToken:        "access-1",
			sessions.KeyRefreshToken: "refresh-1",
			sessions.KeyUser:         `{"id":"1"}`,
		} {
			got, found, err := repo.Get(ctx, key)
			require.NoError(t, err)
			require.True(t, found, key)
			require.Equal(t, want, got)
		}
	})

	t.Run("PutAllOverwrites", func(t *testing.T) {
		require.NoError(t, repo.PutAll(ctx, map[string]string{
			sessions.KeyToken:        "access-2",
			sessions.KeyRefreshToken: "refresh-2",
		}))

		got, _, err := repo.Get(ctx, sessions.KeyToken)
		require.NoError(t, err)
		require.Equal(t, "access-2", got)
		got, _, err = repo.Get(ctx, sessions.KeyRefreshToken)
		require.NoError(t, err)
		require.Equal(t, "refresh-2", got)
	})

	t.Run("DeleteAll", func(t *testing.T) {
		require.NoError(t, repo.DeleteAll(ctx, sessions.Keys...))
		for _, key := range sessions.Keys {
			_, found, err := repo.Get(ctx, key)
			require.NoError(t, err)
			require.False(t, found, key)
		}
	})

	t.Run("DeleteMissingIsNotAnError", func(t *testing.T) {
		require.NoError(t, repo.DeleteAll(ctx, sessions.Keys...))
	})
}
