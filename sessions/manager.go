// Package sessions owns the persisted client session: the access token, the
// refresh token, and the user projection derived from the access token.
package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jrsteele09/go-church-admin/internal/errors"
	"github.com/jrsteele09/go-church-admin/token"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// Manager is the single owner of persisted session state. All reads and
// writes of the token, refreshToken and user keys go through it.
type Manager struct {
	repo   Repo
	codec  *token.Codec
	logger zerolog.Logger

	// mu serialises read-modify-write sequences against the repo
	mu sync.Mutex
}

type Option func(*Manager)

func WithCodec(codec *token.Codec) Option {
	return func(m *Manager) {
		if codec != nil {
			m.codec = codec
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func NewManager(repo Repo, opts ...Option) *Manager {
	m := &Manager{
		repo:   repo,
		codec:  token.NewCodec(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Codec returns the token codec the manager derives users with.
func (m *Manager) Codec() *token.Codec {
	return m.codec
}

// StoreSession persists both tokens and the user projection derived from the
// access token in one atomic write.
func (m *Manager) StoreSession(ctx context.Context, accessToken, refreshToken string) error {
	claims, ok := m.codec.Decode(accessToken)
	if !ok {
		return errors.Wrapf(errors.ErrInvalidToken, "[sessions StoreSession] access token cannot be decoded")
	}

	userJSON, err := json.Marshal(UserFromClaims(claims))
	if err != nil {
		return fmt.Errorf("[sessions StoreSession] marshal user: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.repo.PutAll(ctx, map[string]string{
		KeyToken:        accessToken,
		KeyRefreshToken: refreshToken,
		KeyUser:         string(userJSON),
	}); err != nil {
		return fmt.Errorf("[sessions StoreSession] persist session: %w", err)
	}
	return nil
}

// CurrentUser returns the user derived from the persisted access token. A
// missing or expired token clears the whole session and yields nil.
func (m *Manager) CurrentUser(ctx context.Context) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	accessToken, found, err := m.repo.Get(ctx, KeyToken)
	if err != nil {
		return nil, fmt.Errorf("[sessions CurrentUser] read token: %w", err)
	}

	if !found || accessToken == "" || m.codec.IsExpired(accessToken) {
		if err := m.repo.DeleteAll(ctx, Keys...); err != nil {
			return nil, fmt.Errorf("[sessions CurrentUser] clear stale session: %w", err)
		}
		if found {
			m.logger.Debug().Msg("stale session cleared")
		}
		return nil, nil
	}

	claims, ok := m.codec.Decode(accessToken)
	if !ok {
		// unexpired but carrying claims this client cannot map to a user
		m.logger.Debug().Msg("session token has unreadable claims")
		return nil, nil
	}

	user := UserFromClaims(claims)
	userJSON, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("[sessions CurrentUser] marshal user: %w", err)
	}
	if err := m.repo.PutAll(ctx, map[string]string{KeyUser: string(userJSON)}); err != nil {
		return nil, fmt.Errorf("[sessions CurrentUser] persist user: %w", err)
	}
	return user, nil
}

// IsValid reports whether an unexpired access token is persisted.
func (m *Manager) IsValid(ctx context.Context) bool {
	accessToken, err := m.AccessToken(ctx)
	if err != nil || accessToken == "" {
		return false
	}
	return !m.codec.IsExpired(accessToken)
}

// Clear removes every persisted session key.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.repo.DeleteAll(ctx, Keys...); err != nil {
		return fmt.Errorf("[sessions Clear] %w", err)
	}
	return nil
}

// AccessToken returns the persisted access token, or "" when there is none.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	return m.get(ctx, KeyToken)
}

// RefreshToken returns the persisted refresh token, or "" when there is none.
func (m *Manager) RefreshToken(ctx context.Context) (string, error) {
	return m.get(ctx, KeyRefreshToken)
}

// Token returns the persisted session as an oauth2.Token whose Expiry comes
// from the access token's exp claim.
func (m *Manager) Token(ctx context.Context) (*oauth2.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	accessToken, found, err := m.repo.Get(ctx, KeyToken)
	if err != nil {
		return nil, fmt.Errorf("[sessions Token] read token: %w", err)
	}
	if !found || accessToken == "" {
		return nil, errors.ErrNoSession
	}
	refreshToken, _, err := m.repo.Get(ctx, KeyRefreshToken)
	if err != nil {
		return nil, fmt.Errorf("[sessions Token] read refresh token: %w", err)
	}

	tok := &oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
	}
	if claims, ok := m.codec.Decode(accessToken); ok && claims.ExpiresAt != nil {
		tok.Expiry = *claims.ExpiresAt
	}
	return tok, nil
}

// TokenSource adapts the persisted session to oauth2.TokenSource. It never
// refreshes; an invalid session yields ErrSessionExpired.
func (m *Manager) TokenSource(ctx context.Context) oauth2.TokenSource {
	return tokenSource{ctx: ctx, m: m}
}

type tokenSource struct {
	ctx context.Context
	m   *Manager
}

func (ts tokenSource) Token() (*oauth2.Token, error) {
	tok, err := ts.m.Token(ts.ctx)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrSessionExpired, "[sessions TokenSource] %v", err)
	}
	if ts.m.codec.IsExpired(tok.AccessToken) {
		return nil, errors.ErrSessionExpired
	}
	return tok, nil
}

// Close tears down the backing store.
func (m *Manager) Close() error {
	return m.repo.Close()
}

func (m *Manager) get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	value, found, err := m.repo.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("[sessions get] %s: %w", key, err)
	}
	if !found {
		return "", nil
	}
	return value, nil
}
