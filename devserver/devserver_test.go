package devserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-church-admin/devserver"
	"github.com/jrsteele09/go-church-admin/internal/config"
	"github.com/jrsteele09/go-church-admin/token"
	refreshrepofake "github.com/jrsteele09/go-church-admin/token/refresh/repofake"
	fakeuserrepo "github.com/jrsteele09/go-church-admin/users/repofake"
)

const seedPassword = "Passw0rd!"

type testConfig struct {
	config.EnvVars
	config.DevServer
}

type testFixture struct {
	server *devserver.Server
	http   *httptest.Server
	ctx    context.Context
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	cfg := testConfig{
		EnvVars: config.EnvVars{AppName: "test", Env: "TEST"},
		DevServer: config.DevServer{
			JWTSecret:          "test-secret",
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenExpiry: time.Hour,
			RefreshTokenLength: 16,
			AllowedOrigins:     []string{"http://localhost:3000"},
			SeedPassword:       seedPassword,
		},
	}
	s, err := devserver.New(cfg, fakeuserrepo.NewFakeUserRepo(), refreshrepofake.NewFakeRefreshTokenRepo(), zerolog.Nop())
	require.NoError(t, err)

	password, err := s.InitialiseSystem(context.Background())
	require.NoError(t, err)
	require.Equal(t, seedPassword, password)

	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	return &testFixture{server: s, http: srv, ctx: context.Background()}
}

type authBody struct {
	Message      string `json:"message"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

func (f *testFixture) do(t *testing.T, method, path, bearer string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(f.ctx, method, f.http.URL+"/api"+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func (f *testFixture) login(t *testing.T, email string) authBody {
	t.Helper()
	resp, body := f.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": seedPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out authBody
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestLogin_IssuesTokens(t *testing.T) {
	f := setupTestFixture(t)

	out := f.login(t, "Staff@Church.local")
	require.Equal(t, "Login successful", out.Message)
	require.NotEmpty(t, out.RefreshToken)
	require.Equal(t, "staff@church.local", out.User.Email)
	require.Equal(t, "Staff", out.User.Role)

	claims, ok := token.Decode(out.Token)
	require.True(t, ok)
	require.Equal(t, token.RoleStaff, claims.Role)
	require.Equal(t, out.User.ID, claims.SubjectID)
	require.False(t, token.IsExpired(out.Token))
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	f := setupTestFixture(t)

	resp, _ := f.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "admin@church.local", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "nobody@church.local", "password": seedPassword})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRefresh_RotatesToken(t *testing.T) {
	f := setupTestFixture(t)
	first := f.login(t, "admin@church.local")

	resp, body := f.do(t, http.MethodPost, "/auth/refresh", "", map[string]string{"refreshToken": first.RefreshToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var next authBody
	require.NoError(t, json.Unmarshal(body, &next))
	require.NotEmpty(t, next.Token)
	require.NotEqual(t, first.RefreshToken, next.RefreshToken)

	resp, _ = f.do(t, http.MethodPost, "/auth/refresh", "", map[string]string{"refreshToken": first.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "consumed refresh token must be rejected")

	resp, _ = f.do(t, http.MethodPost, "/auth/refresh", "", map[string]string{"refreshToken": ""})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAuth(t *testing.T) {
	f := setupTestFixture(t)

	resp, _ := f.do(t, http.MethodGet, "/events", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = f.do(t, http.MethodGet, "/events", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	forged, err := token.NewHMACSigner("other-secret").Sign(map[string]any{
		"user_id": "1", "role": "Admin", "exp": time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)
	resp, _ = f.do(t, http.MethodGet, "/events", forged, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	out := f.login(t, "member@church.local")
	resp, body := f.do(t, http.MethodGet, "/auth/me", out.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `"role":"Member"`)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	f := setupTestFixture(t)
	token.NowTimeFunc = func() time.Time { return time.Now().Add(-time.Hour) }
	out := f.login(t, "admin@church.local")
	token.NowTimeFunc = time.Now

	resp, _ := f.do(t, http.MethodGet, "/ministry", out.Token, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoleAccess(t *testing.T) {
	f := setupTestFixture(t)
	admin := f.login(t, "admin@church.local").Token
	staff := f.login(t, "staff@church.local").Token
	member := f.login(t, "member@church.local").Token

	tests := []struct {
		name   string
		method string
		path   string
		bearer string
		body   any
		want   int
	}{
		{"member reads events", http.MethodGet, "/events", member, nil, http.StatusOK},
		{"member cannot create events", http.MethodPost, "/events", member, map[string]any{"title": "x"}, http.StatusForbidden},
		{"member cannot read ministries", http.MethodGet, "/ministry", member, nil, http.StatusForbidden},
		{"staff reads ministries", http.MethodGet, "/ministry", staff, nil, http.StatusOK},
		{"staff cannot create ministries", http.MethodPost, "/ministry", staff, map[string]any{"name": "x"}, http.StatusForbidden},
		{"staff creates teams", http.MethodPost, "/teams", staff, map[string]any{"name": "Ushers", "ministry_id": 1}, http.StatusCreated},
		{"staff cannot read members", http.MethodGet, "/members/members", staff, nil, http.StatusForbidden},
		{"admin reads members", http.MethodGet, "/members/members", admin, nil, http.StatusOK},
		{"admin lists users", http.MethodGet, "/user", admin, nil, http.StatusOK},
		{"staff cannot list users", http.MethodGet, "/user", staff, nil, http.StatusForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := f.do(t, tc.method, tc.path, tc.bearer, tc.body)
			require.Equal(t, tc.want, resp.StatusCode, string(body))
		})
	}
}

func TestResourceCRUD(t *testing.T) {
	f := setupTestFixture(t)
	admin := f.login(t, "admin@church.local").Token

	resp, body := f.do(t, http.MethodPost, "/families", admin, map[string]any{"family_name": "Jones"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		Data struct {
			FamilyID   int64  `json:"family_id"`
			FamilyName string `json:"family_name"`
		} `json:"data"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	require.Equal(t, "Jones", created.Data.FamilyName)
	require.NotZero(t, created.Data.FamilyID)

	path := "/families/" + jsonNumber(created.Data.FamilyID)
	resp, _ = f.do(t, http.MethodPut, path, admin, map[string]any{"family_name": "Jones-Smith", "family_id": 999})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = f.do(t, http.MethodGet, path, admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "Jones-Smith")
	require.Contains(t, string(body), `"family_id":`+jsonNumber(created.Data.FamilyID))

	resp, _ = f.do(t, http.MethodDelete, path, admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = f.do(t, http.MethodGet, path, admin, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = f.do(t, http.MethodGet, "/families/abc", admin, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPost, "/families", admin, []int{1})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteUser_RemovesLoginAccount(t *testing.T) {
	f := setupTestFixture(t)
	admin := f.login(t, "admin@church.local").Token

	resp, body := f.do(t, http.MethodGet, "/user/users", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed struct {
		Data []struct {
			UserID int64  `json:"user_id"`
			Email  string `json:"email"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &listed))
	var staffID int64
	for _, u := range listed.Data {
		if u.Email == "staff@church.local" {
			staffID = u.UserID
		}
	}
	require.NotZero(t, staffID)

	resp, _ = f.do(t, http.MethodDelete, "/user/users/"+jsonNumber(staffID), admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "staff@church.local", "password": seedPassword})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = f.do(t, http.MethodDelete, "/user/users/"+jsonNumber(staffID), admin, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInitialiseSystem_RejectsWeakSeedPassword(t *testing.T) {
	cfg := testConfig{
		EnvVars:   config.EnvVars{AppName: "test", Env: "TEST"},
		DevServer: config.DevServer{JWTSecret: "test-secret", SeedPassword: "password"},
	}
	s, err := devserver.New(cfg, fakeuserrepo.NewFakeUserRepo(), refreshrepofake.NewFakeRefreshTokenRepo(), zerolog.Nop())
	require.NoError(t, err)

	_, err = s.InitialiseSystem(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "uppercase")
}

func TestCORS(t *testing.T) {
	f := setupTestFixture(t)

	req, err := http.NewRequest(http.MethodOptions, f.http.URL+"/api/events", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "http://evil.example")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestNew_RequiresSecret(t *testing.T) {
	_, err := devserver.New(testConfig{}, fakeuserrepo.NewFakeUserRepo(), refreshrepofake.NewFakeRefreshTokenRepo(), zerolog.Nop())
	require.Error(t, err)
}

func jsonNumber(n int64) string {
	data, _ := json.Marshal(n)
	return string(data)
}
