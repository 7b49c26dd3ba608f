package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-church-admin/api"
	"github.com/jrsteele09/go-church-admin/devserver"
	"github.com/jrsteele09/go-church-admin/internal/config"
	"github.com/jrsteele09/go-church-admin/internal/errors"
	refreshrepofake "github.com/jrsteele09/go-church-admin/token/refresh/repofake"
	fakeuserrepo "github.com/jrsteele09/go-church-admin/users/repofake"
)

const seedPassword = "Passw0rd!"

type devConfig struct {
	config.EnvVars
	config.DevServer
}

func setupTestFixture(t *testing.T) {
	t.Helper()
	s, err := devserver.New(devConfig{
		EnvVars: config.EnvVars{Env: "TEST"},
		DevServer: config.DevServer{
			JWTSecret:          "cli-secret",
			AccessTokenExpiry:  time.Minute,
			RefreshTokenExpiry: time.Hour,
			SeedPassword:       seedPassword,
		},
	}, fakeuserrepo.NewFakeUserRepo(), refreshrepofake.NewFakeRefreshTokenRepo(), zerolog.Nop())
	require.NoError(t, err)
	_, err = s.InitialiseSystem(context.Background())
	require.NoError(t, err)
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("API_URL", srv.URL+"/api")
	t.Setenv("SESSION_BACKEND", "bolt")
	t.Setenv("SESSION_PATH", filepath.Join(dir, "session.db"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("ENV", "TEST")
}

// run executes one CLI invocation, as a fresh process would.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLoginWhoamiLogout(t *testing.T) {
	setupTestFixture(t)

	out, err := run(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")

	out, err = run(t, "login", "--email", "staff@church.local", "--password", seedPassword)
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as staff@church.local (Staff)")
	assert.Contains(t, out, "/dashboard/staff/team")

	out, err = run(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "staff@church.local (Staff)")
	assert.Contains(t, out, "events, ministry, ministry-teams, teams")

	out, err = run(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	out, err = run(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")
}

func TestLogin_PromptsForPassword(t *testing.T) {
	setupTestFixture(t)

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(seedPassword + "\n"))
	root.SetArgs([]string{"login", "--email", "admin@church.local"})
	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "(Admin)")
}

func TestLogin_BadPassword(t *testing.T) {
	setupTestFixture(t)

	_, err := run(t, "login", "--email", "admin@church.local", "--password", "nope")
	require.ErrorIs(t, err, api.ErrInvalidCredentials)
	assert.Equal(t, "invalid email or password", describeError(err))
}

func TestListGetDelete(t *testing.T) {
	setupTestFixture(t)
	_, err := run(t, "login", "--email", "admin@church.local", "--password", seedPassword)
	require.NoError(t, err)

	out, err := run(t, "list", "ministry")
	require.NoError(t, err)
	var ministries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &ministries))
	require.Len(t, ministries, 2)

	out, err = run(t, "get", "ministry", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Worship"`)

	out, err = run(t, "delete", "ministry", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted ministry 1")

	_, err = run(t, "get", "ministry", "1")
	require.ErrorIs(t, err, errors.ErrNotFound)

	_, err = run(t, "list", "sermons")
	require.ErrorContains(t, err, "unknown kind")
}

func TestRoleGuard(t *testing.T) {
	setupTestFixture(t)
	_, err := run(t, "login", "--email", "member@church.local", "--password", seedPassword)
	require.NoError(t, err)

	_, err = run(t, "list", "events")
	require.NoError(t, err)

	_, err = run(t, "list", "members")
	require.ErrorIs(t, err, errors.ErrForbidden)

	_, err = run(t, "delete", "events", "1")
	require.ErrorIs(t, err, errors.ErrForbidden)
}

func TestNotLoggedIn(t *testing.T) {
	setupTestFixture(t)

	_, err := run(t, "list", "events")
	require.ErrorIs(t, err, api.ErrSessionExpired)
	assert.Equal(t, "session expired, please log in again", describeError(err))
}

func TestVersion(t *testing.T) {
	setupTestFixture(t)

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version dev")
}
