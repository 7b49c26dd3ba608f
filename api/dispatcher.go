package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/jrsteele09/go-church-admin/internal/config"
	"github.com/jrsteele09/go-church-admin/internal/errors"
	"github.com/jrsteele09/go-church-admin/sessions"
)

const maxResponseBytes = 10 << 20

// Dispatcher sends requests to the API on behalf of the current session.
// It is safe for concurrent use.
type Dispatcher struct {
	baseURL  *url.URL
	client   *http.Client
	session  *sessions.Manager
	logger   zerolog.Logger
	refresh  singleflight.Group
	observer func(Transition)
}

type Option func(*Dispatcher)

// WithHTTPClient replaces the client built from config.
func WithHTTPClient(client *http.Client) Option {
	return func(d *Dispatcher) {
		d.client = client
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithObserver registers fn to receive every attempt state transition.
func WithObserver(fn func(Transition)) Option {
	return func(d *Dispatcher) {
		d.observer = fn
	}
}

func NewDispatcher(cfg config.ClientConfig, session *sessions.Manager, opts ...Option) (*Dispatcher, error) {
	base, err := url.Parse(cfg.GetAPIURL())
	if err != nil {
		return nil, fmt.Errorf("[api NewDispatcher] parse API url %q: %w", cfg.GetAPIURL(), err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("[api NewDispatcher] API url %q must be absolute", cfg.GetAPIURL())
	}
	if session == nil {
		return nil, fmt.Errorf("[api NewDispatcher] session manager is required")
	}
	d := &Dispatcher{
		baseURL: base,
		client:  &http.Client{Timeout: cfg.GetHTTPTimeout()},
		session: session,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Session returns the session manager the dispatcher reads tokens from.
func (d *Dispatcher) Session() *sessions.Manager {
	return d.session
}

// Do sends req. A 401 is recovered by at most one refresh and one retry.
// Non-2xx results are returned as *StatusError; an unrecoverable session
// yields an error matching ErrSessionExpired after the session is cleared.
func (d *Dispatcher) Do(ctx context.Context, req *Request) (*Response, error) {
	a, err := d.newAttempt(req)
	if err != nil {
		return nil, err
	}

	bearer := d.bearerFor(ctx, req.Path)
	resp, err := d.send(ctx, a, bearer)
	if err != nil {
		_ = a.transition(StateFailed)
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized || isAuthEndpoint(req.Path) {
		return d.finish(a, resp)
	}

	if err := a.transition(StateUnauthorized); err != nil {
		return nil, err
	}
	newToken, err := d.recover(ctx, a, bearer)
	if err != nil {
		return nil, err
	}
	if err := a.transition(StateRetried); err != nil {
		return nil, err
	}

	resp, err = d.send(ctx, a, newToken)
	if err != nil {
		_ = a.transition(StateFailed)
		return nil, err
	}
	return d.finish(a, resp)
}

// Get, Post, Put and Delete are shorthands for Do with a JSON body.
func (d *Dispatcher) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return d.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

func (d *Dispatcher) Post(ctx context.Context, path string, body any) (*Response, error) {
	return d.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

func (d *Dispatcher) Put(ctx context.Context, path string, body any) (*Response, error) {
	return d.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

func (d *Dispatcher) Delete(ctx context.Context, path string) (*Response, error) {
	return d.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

func (d *Dispatcher) newAttempt(req *Request) (*attempt, error) {
	if req == nil || req.Method == "" {
		return nil, fmt.Errorf("[api Do] request method is required")
	}
	a := &attempt{
		id:     uuid.NewString(),
		req:    req,
		state:  StateInitial,
		notify: d.notify,
	}
	if req.Body != nil {
		switch b := req.Body.(type) {
		case []byte:
			a.body = b
		case json.RawMessage:
			a.body = b
		default:
			data, err := json.Marshal(b)
			if err != nil {
				return nil, fmt.Errorf("[api Do] encode body for %s %s: %w", req.Method, req.Path, err)
			}
			a.body = data
		}
	}
	return a, nil
}

func (d *Dispatcher) notify(t Transition) {
	d.logger.Debug().
		Str("request_id", t.RequestID).
		Str("method", t.Method).
		Str("path", t.Path).
		Stringer("from", t.From).
		Stringer("to", t.To).
		Msg("request state")
	if d.observer != nil {
		d.observer(t)
	}
}

// bearerFor returns the persisted access token, or "" for auth endpoints and
// when no session exists.
func (d *Dispatcher) bearerFor(ctx context.Context, path string) string {
	if isAuthEndpoint(path) {
		return ""
	}
	accessToken, err := d.session.AccessToken(ctx)
	if err != nil {
		d.logger.Warn().Err(err).Str("path", path).Msg("reading access token failed, sending unauthenticated")
		return ""
	}
	return accessToken
}

func (d *Dispatcher) send(ctx context.Context, a *attempt, bearer string) (*Response, error) {
	target := d.baseURL.JoinPath(a.req.Path)
	if len(a.req.Query) > 0 {
		target.RawQuery = a.req.Query.Encode()
	}

	var body io.Reader
	if a.body != nil {
		body = bytes.NewReader(a.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, a.req.Method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("[api Do] build %s %s: %w", a.req.Method, a.req.Path, err)
	}
	for key, values := range a.req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if a.body != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set(HeaderRequestID, a.id)
	if bearer != "" {
		(&oauth2.Token{AccessToken: bearer, TokenType: "Bearer"}).SetAuthHeader(httpReq)
	}

	httpResp, err := d.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("[api Do] %s %s: %w", a.req.Method, a.req.Path, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("[api Do] read %s %s: %w", a.req.Method, a.req.Path, err)
	}

	d.logger.Debug().
		Str("request_id", a.id).
		Str("path", a.req.Path).
		Int("status", httpResp.StatusCode).
		Msg("response")

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
		RequestID:  a.id,
	}, nil
}

func (d *Dispatcher) finish(a *attempt, resp *Response) (*Response, error) {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := a.transition(StateSucceeded); err != nil {
			return nil, err
		}
		return resp, nil
	}
	if err := a.transition(StateFailed); err != nil {
		return nil, err
	}
	return nil, &StatusError{Method: a.req.Method, Path: a.req.Path, Response: resp}
}

// recover obtains the access token the retry should carry. A request that
// raced with another refresh reuses the already rotated token.
func (d *Dispatcher) recover(ctx context.Context, a *attempt, sentToken string) (string, error) {
	refreshToken, err := d.session.RefreshToken(ctx)
	if err != nil {
		return d.loggedOut(ctx, a, err)
	}
	if refreshToken == "" {
		return d.loggedOut(ctx, a, errors.ErrNoSession)
	}
	if err := a.transition(StateRefreshing); err != nil {
		return "", err
	}

	ch := d.refresh.DoChan(refreshToken, func() (any, error) {
		// Detached so one caller's cancellation does not fail every waiter.
		return d.refreshSession(context.WithoutCancel(ctx), a.id, sentToken, refreshToken)
	})

	select {
	case <-ctx.Done():
		_ = a.transition(StateFailed)
		return "", fmt.Errorf("[api Do] waiting for refresh: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return d.loggedOut(ctx, a, res.Err)
		}
		return res.Val.(string), nil
	}
}

// refreshSession re-reads the session before spending usedRefresh. A session
// rotated since the 401 yields its current access token, or its newer refresh
// token is spent instead of the consumed one.
func (d *Dispatcher) refreshSession(ctx context.Context, requestID, sentToken, usedRefresh string) (string, error) {
	refreshToken, err := d.session.RefreshToken(ctx)
	if err != nil {
		return "", err
	}
	if refreshToken == "" {
		return "", errors.ErrNoSession
	}

	current, err := d.session.AccessToken(ctx)
	if err == nil && current != "" && current != sentToken && !d.session.Codec().IsExpired(current) {
		d.logger.Debug().Str("request_id", requestID).Msg("session already refreshed, retrying with current token")
		return current, nil
	}
	if refreshToken != usedRefresh {
		d.logger.Debug().Str("request_id", requestID).Msg("refresh token rotated since the request was sent")
	}

	tok, err := d.refreshTokens(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	if err := d.session.StoreSession(ctx, tok.AccessToken, tok.RefreshToken); err != nil {
		return "", err
	}
	d.logger.Info().Str("request_id", requestID).Msg("session refreshed")
	return tok.AccessToken, nil
}

func (d *Dispatcher) loggedOut(ctx context.Context, a *attempt, cause error) (string, error) {
	if err := a.transition(StateRefreshFailed); err != nil {
		return "", err
	}
	if err := d.session.Clear(context.WithoutCancel(ctx)); err != nil {
		d.logger.Error().Err(err).Str("request_id", a.id).Msg("clearing session failed")
	}
	if err := a.transition(StateLoggedOut); err != nil {
		return "", err
	}
	d.logger.Warn().Err(cause).Str("request_id", a.id).Str("path", a.req.Path).Msg("refresh failed, session cleared")
	return "", fmt.Errorf("[api Do] %w: %w", ErrSessionExpired, cause)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// refreshTokens exchanges refreshToken for a new token pair. It does not
// touch the session.
func (d *Dispatcher) refreshTokens(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	resp, err := d.Post(ctx, RefreshPath, refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, err
	}
	var body refreshResponse
	if err := resp.DecodeJSON(&body); err != nil {
		return nil, err
	}
	if body.Token == "" || body.RefreshToken == "" {
		return nil, errors.Wrapf(ErrUnexpectedShape, "[api refresh] token and refreshToken are required")
	}
	tok := &oauth2.Token{
		AccessToken:  body.Token,
		RefreshToken: body.RefreshToken,
		TokenType:    "Bearer",
	}
	if claims, ok := d.session.Codec().Decode(body.Token); ok && claims.ExpiresAt != nil {
		tok.Expiry = *claims.ExpiresAt
	}
	return tok, nil
}
