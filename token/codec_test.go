package token_test

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-church-admin/token"
	"github.com/stretchr/testify/require"
)

const testSecret = "1234"

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func freezeTime(t *testing.T, now time.Time) {
	t.Helper()
	prev := token.NowTimeFunc
	token.NowTimeFunc = func() time.Time { return now }
	t.Cleanup(func() { token.NowTimeFunc = prev })
}

func sign(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	raw, err := token.NewHMACSigner(testSecret).Sign(claims)
	require.NoError(t, err)
	return raw
}

func TestDecode_ValidToken(t *testing.T) {
	raw := sign(t, jwtlib.MapClaims{
		"user_id": "42",
		"email":   "pastor@example.com",
		"role":    "Admin",
		"iat":     fixedNow.Unix(),
		"exp":     fixedNow.Add(time.Hour).Unix(),
	})

	claims, ok := token.Decode(raw)
	require.True(t, ok)
	require.Equal(t, "42", claims.SubjectID)
	require.Equal(t, "pastor@example.com", claims.Email)
	require.Equal(t, token.RoleAdmin, claims.Role)
	require.NotNil(t, claims.IssuedAt)
	require.True(t, claims.IssuedAt.Equal(fixedNow))
	require.NotNil(t, claims.ExpiresAt)
	require.True(t, claims.ExpiresAt.Equal(fixedNow.Add(time.Hour)))
}

func TestDecode_NumericUserID(t *testing.T) {
	raw := sign(t, jwtlib.MapClaims{"user_id": 7, "email": "a@b.c", "role": "Staff"})

	id, ok := token.SubjectID(raw)
	require.True(t, ok)
	require.Equal(t, "7", id)

	role, ok := token.RoleOf(raw)
	require.True(t, ok)
	require.Equal(t, token.RoleStaff, role)
}

func TestDecode_MalformedTokens(t *testing.T) {
	notJSON := base64.RawURLEncoding.EncodeToString([]byte("not json"))
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))

	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"single segment", "abc"},
		{"garbage segments", "a.b.c"},
		{"payload not json", header + "." + notJSON + ".sig"},
		{"unknown role", sign(t, jwtlib.MapClaims{"user_id": "1", "role": "Bishop"})},
		{"exp not numeric", sign(t, jwtlib.MapClaims{"user_id": "1", "exp": "tomorrow"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotPanics(t, func() {
				claims, ok := token.Decode(tt.raw)
				require.False(t, ok)
				require.Nil(t, claims)
				require.True(t, token.IsExpired(tt.raw))
			})
		})
	}
}

func TestDecode_MissingRoleStillDecodes(t *testing.T) {
	raw := sign(t, jwtlib.MapClaims{"user_id": "1", "email": "a@b.c"})

	claims, ok := token.Decode(raw)
	require.True(t, ok)
	require.Empty(t, claims.Role)

	_, ok = token.RoleOf(raw)
	require.False(t, ok)
}

func TestIsExpired(t *testing.T) {
	freezeTime(t, fixedNow)

	tests := []struct {
		name    string
		claims  jwtlib.MapClaims
		expired bool
	}{
		{"future expiry", jwtlib.MapClaims{"user_id": "1", "exp": fixedNow.Add(time.Minute).Unix()}, false},
		{"one second left", jwtlib.MapClaims{"user_id": "1", "exp": fixedNow.Add(time.Second).Unix()}, false},
		{"expires now", jwtlib.MapClaims{"user_id": "1", "exp": fixedNow.Unix()}, true},
		{"already expired", jwtlib.MapClaims{"user_id": "1", "exp": fixedNow.Add(-time.Hour).Unix()}, true},
		{"no expiry claim", jwtlib.MapClaims{"user_id": "1"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expired, token.IsExpired(sign(t, tt.claims)))
		})
	}
}

func TestIsExpired_OnlyReadsExpiry(t *testing.T) {
	freezeTime(t, fixedNow)
	exp := fixedNow.Add(time.Hour).Unix()

	tests := []struct {
		name   string
		claims jwtlib.MapClaims
	}{
		{"unknown role", jwtlib.MapClaims{"user_id": "1", "role": "Pastor", "exp": exp}},
		{"malformed iat", jwtlib.MapClaims{"user_id": "1", "role": "Admin", "iat": "yesterday", "exp": exp}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := sign(t, tt.claims)
			require.False(t, token.IsExpired(raw))
			_, ok := token.Decode(raw)
			require.False(t, ok, "Decode still rejects the claims")
		})
	}
}

func TestIsExpired_SubSecondBoundary(t *testing.T) {
	freezeTime(t, fixedNow.Add(500*time.Millisecond))
	raw := sign(t, jwtlib.MapClaims{"user_id": "1", "exp": fixedNow.Unix()})
	require.True(t, token.IsExpired(raw))
}

func TestCodec_WithKeySet(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	rsaSigner := token.NewRSASigner(key, "kid-1")

	codec := token.NewCodec(token.WithKeySet(&oidc.StaticKeySet{
		PublicKeys: []crypto.PublicKey{rsaSigner.PublicKey()},
	}))

	claims := jwtlib.MapClaims{"user_id": "9", "email": "x@y.z", "role": "Member"}

	signed, err := rsaSigner.Sign(claims)
	require.NoError(t, err)
	got, ok := codec.Decode(signed)
	require.True(t, ok)
	require.Equal(t, "9", got.SubjectID)

	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	forged, err := token.NewRSASigner(otherKey, "kid-1").Sign(claims)
	require.NoError(t, err)
	_, ok = codec.Decode(forged)
	require.False(t, ok)

	_, ok = codec.Decode(sign(t, claims))
	require.False(t, ok, "HMAC token must not pass an RSA key set")
}

func TestRole_LandingPath(t *testing.T) {
	require.Equal(t, "/dashboard/admin/ministry", token.RoleAdmin.LandingPath())
	require.Equal(t, "/dashboard/staff/team", token.RoleStaff.LandingPath())
	require.Equal(t, "/dashboard/member", token.RoleMember.LandingPath())
	require.Equal(t, "/dashboard", token.Role("").LandingPath())
}

func TestParseRole(t *testing.T) {
	role, ok := token.ParseRole("admin")
	require.True(t, ok)
	require.Equal(t, token.RoleAdmin, role)

	_, ok = token.ParseRole("")
	require.False(t, ok)
}
