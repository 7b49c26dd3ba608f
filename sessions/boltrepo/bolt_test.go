package boltrepo_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/go-church-admin/sessions"
	"github.com/jrsteele09/go-church-admin/sessions/boltrepo"
	"github.com/jrsteele09/go-church-admin/sessions/repotest"
	"github.com/stretchr/testify/require"
)

func TestBoltRepo(t *testing.T) {
	repo, err := boltrepo.NewFromFile(filepath.Join(t.TempDir(), "session.db"), nil)
	require.NoError(t, err)
	defer repo.Close()

	repotest.Run(t, repo)
}

func TestBoltRepo_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.db")
	ctx := context.Background()

	repo, err := boltrepo.NewFromFile(path, nil)
	require.NoError(t, err)
	require.NoError(t, repo.PutAll(ctx, map[string]string{sessions.KeyToken: "persisted"}))
	require.NoError(t, repo.Close())

	reopened, err := boltrepo.NewFromFile(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	got, found, err := reopened.Get(ctx, sessions.KeyToken)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "persisted", got)
}
