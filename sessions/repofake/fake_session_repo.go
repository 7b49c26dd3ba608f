package sessionrepofake

import (
	"context"
	"errors"
	"sync"

	"github.com/jrsteele09/go-church-admin/sessions"
)

var _ sessions.Repo = (*FakeSessionRepo)(nil)

var ErrClosed = errors.New("session repo closed")

// FakeSessionRepo is an in-memory sessions.Repo. Errors can be injected to
// exercise failure paths.
type FakeSessionRepo struct {
	values   map[string]string
	putErr   error
	closed   bool
	putCalls int
	lock     sync.RWMutex
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{
		values: make(map[string]string),
	}
}

func (r *FakeSessionRepo) Get(_ context.Context, key string) (string, bool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	if r.closed {
		return "", false, ErrClosed
	}
	v, ok := r.values[key]
	return v, ok, nil
}

func (r *FakeSessionRepo) PutAll(_ context.Context, values map[string]string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.putCalls++
	if r.closed {
		return ErrClosed
	}
	if r.putErr != nil {
		return r.putErr
	}
	for k, v := range values {
		r.values[k] = v
	}
	return nil
}

func (r *FakeSessionRepo) DeleteAll(_ context.Context, keys ...string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.closed {
		return ErrClosed
	}
	for _, k := range keys {
		delete(r.values, k)
	}
	return nil
}

func (r *FakeSessionRepo) Close() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.closed = true
	return nil
}

// FailPuts makes every subsequent PutAll return err. Pass nil to stop failing.
func (r *FakeSessionRepo) FailPuts(err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.putErr = err
}

// Set writes a single key directly, bypassing the session manager.
func (r *FakeSessionRepo) Set(key, value string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.values[key] = value
}

// Snapshot returns a copy of everything stored.
func (r *FakeSessionRepo) Snapshot() map[string]string {
	r.lock.RLock()
	defer r.lock.RUnlock()

	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

func (r *FakeSessionRepo) PutCalls() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.putCalls
}
