package resources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-church-admin/api"
	"github.com/jrsteele09/go-church-admin/internal/errors"
)

// Doer sends an API request. *api.Dispatcher satisfies it.
type Doer interface {
	Do(ctx context.Context, req *api.Request) (*api.Response, error)
}

var _ Doer = (*api.Dispatcher)(nil)

// Collection is a CRUD client for one resource path.
type Collection[T any] struct {
	doer Doer
	path string
}

func NewCollection[T any](doer Doer, path string) *Collection[T] {
	return &Collection[T]{doer: doer, path: "/" + strings.Trim(path, "/")}
}

func (c *Collection[T]) Path() string {
	return c.path
}

func (c *Collection[T]) List(ctx context.Context, query url.Values) ([]T, error) {
	resp, err := c.doer.Do(ctx, &api.Request{Method: http.MethodGet, Path: c.path, Query: query})
	if err != nil {
		return nil, fmt.Errorf("[resources List] %s: %w", c.path, err)
	}
	env, err := DecodeEnvelope[[]T](resp.Body)
	if err != nil {
		return nil, fmt.Errorf("[resources List] %s: %w", c.path, err)
	}
	if env.Data == nil {
		return []T{}, nil
	}
	return env.Data, nil
}

func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	return c.one(ctx, "Get", &api.Request{Method: http.MethodGet, Path: c.itemPath(id)})
}

func (c *Collection[T]) Create(ctx context.Context, item T) (*T, error) {
	return c.one(ctx, "Create", &api.Request{Method: http.MethodPost, Path: c.path, Body: item})
}

func (c *Collection[T]) Update(ctx context.Context, id string, item T) (*T, error) {
	return c.one(ctx, "Update", &api.Request{Method: http.MethodPut, Path: c.itemPath(id), Body: item})
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	_, err := c.doer.Do(ctx, &api.Request{Method: http.MethodDelete, Path: c.itemPath(id)})
	if err != nil {
		return c.wrap("Delete", err)
	}
	return nil
}

func (c *Collection[T]) one(ctx context.Context, op string, req *api.Request) (*T, error) {
	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		return nil, c.wrap(op, err)
	}
	env, err := DecodeEnvelope[T](resp.Body)
	if err != nil {
		return nil, fmt.Errorf("[resources %s] %s: %w", op, req.Path, err)
	}
	return &env.Data, nil
}

func (c *Collection[T]) itemPath(id string) string {
	return c.path + "/" + url.PathEscape(id)
}

func (c *Collection[T]) wrap(op string, err error) error {
	if api.IsStatus(err, http.StatusNotFound) {
		return fmt.Errorf("[resources %s] %s: %w: %w", op, c.path, errors.ErrNotFound, err)
	}
	return fmt.Errorf("[resources %s] %s: %w", op, c.path, err)
}
