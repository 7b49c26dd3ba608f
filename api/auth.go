package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/jrsteele09/go-church-admin/internal/errors"
	"github.com/jrsteele09/go-church-admin/sessions"
)

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the login endpoint's body plus the user derived from the
// issued access token. The server's own user object is kept raw; the token
// is authoritative.
type LoginResponse struct {
	Message      string          `json:"message"`
	Token        string          `json:"token"`
	RefreshToken string          `json:"refreshToken"`
	ServerUser   json.RawMessage `json:"user,omitempty"`

	User *sessions.User `json:"-"`
}

// LandingPath is where the client should navigate after login.
func (r *LoginResponse) LandingPath() string {
	if r.User == nil {
		return "/login"
	}
	return r.User.Role.LandingPath()
}

type AuthService struct {
	dispatcher *Dispatcher
}

func NewAuthService(d *Dispatcher) *AuthService {
	return &AuthService{dispatcher: d}
}

// Login authenticates and stores the session. A token without a role is
// rejected with ErrMissingRole and nothing is stored.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	resp, err := s.dispatcher.Post(ctx, LoginPath, Credentials{Email: email, Password: password})
	if err != nil {
		if IsStatus(err, http.StatusUnauthorized) {
			return nil, fmt.Errorf("[api Login] %w: %w", ErrInvalidCredentials, err)
		}
		return nil, fmt.Errorf("[api Login] %w", err)
	}

	var out LoginResponse
	if err := resp.DecodeJSON(&out); err != nil {
		return nil, fmt.Errorf("[api Login] %w", err)
	}
	if out.Token == "" || out.RefreshToken == "" {
		return nil, errors.Wrapf(ErrUnexpectedShape, "[api Login] token and refreshToken are required")
	}

	codec := s.dispatcher.session.Codec()
	claims, ok := codec.Decode(out.Token)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "[api Login] undecodable access token")
	}
	if !claims.Role.Valid() {
		return nil, errors.Wrapf(ErrMissingRole, "[api Login]")
	}

	if err := s.dispatcher.session.StoreSession(ctx, out.Token, out.RefreshToken); err != nil {
		return nil, fmt.Errorf("[api Login] %w", err)
	}
	out.User = sessions.UserFromClaims(claims)
	return &out, nil
}

// Logout clears the local session. The server keeps no client session state.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.dispatcher.session.Clear(ctx)
}

// Refresh exchanges refreshToken for a new token pair without touching the
// stored session.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	tok, err := s.dispatcher.refreshTokens(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("[api Refresh] %w", err)
	}
	return tok, nil
}

// CurrentUser returns the signed-in user, or nil when there is no valid session.
func (s *AuthService) CurrentUser(ctx context.Context) (*sessions.User, error) {
	return s.dispatcher.session.CurrentUser(ctx)
}
