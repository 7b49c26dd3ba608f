// Package boltrepo persists the client session in a BBolt file so it
// survives between CLI invocations.
package boltrepo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jrsteele09/go-church-admin/sessions"
	"go.etcd.io/bbolt"
)

var bucketName = []byte("session")

// Repo implements sessions.Repo backed by a BBolt database.
type Repo struct {
	db *bbolt.DB
}

var _ sessions.Repo = (*Repo)(nil)

// New returns a Repo backed by the given BBolt database.
func New(db *bbolt.DB) *Repo {
	return &Repo{db: db}
}

// NewFromFile opens (creating if needed) a BBolt database at path.
func NewFromFile(path string, options *bbolt.Options) (*Repo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}
	if options == nil {
		// Another process holding the file lock must not hang us forever
		options = &bbolt.Options{Timeout: 2 * time.Second}
	}
	db, err := bbolt.Open(path, 0o600, options)
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	return New(db), nil
}

func (r *Repo) Get(_ context.Context, key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := r.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		data := b.Get([]byte(key))
		if data == nil {
			return nil
		}
		value, found = string(data), true
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("bbolt get %s: %w", key, err)
	}
	return value, found, nil
}

func (r *Repo) PutAll(_ context.Context, values map[string]string) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		for k, v := range values {
			if err := b.Put([]byte(k), []byte(v)); err != nil {
				return fmt.Errorf("bbolt put %s: %w", k, err)
			}
		}
		return nil
	})
}

func (r *Repo) DeleteAll(_ context.Context, keys ...string) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		for _, k := range keys {
			if err := b.Delete([]byte(k)); err != nil {
				return fmt.Errorf("bbolt delete %s: %w", k, err)
			}
		}
		return nil
	})
}

// Close closes the underlying BBolt database.
func (r *Repo) Close() error {
	return r.db.Close()
}
