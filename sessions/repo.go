package sessions

import "context"

// Persisted keys. All three are present together or absent together.
const (
	KeyToken        = "token"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
)

// Keys lists every key the session owns.
var Keys = []string{KeyToken, KeyRefreshToken, KeyUser}

// Repo defines the persisted key-value storage behind a session.
// PutAll and DeleteAll must be all-or-nothing: a reader never observes some
// of the keys updated and others not.
type Repo interface {
	// Get returns the value for key and whether it was present
	Get(ctx context.Context, key string) (string, bool, error)

	// PutAll writes every key/value pair in a single atomic operation
	PutAll(ctx context.Context, values map[string]string) error

	// DeleteAll removes the keys in a single atomic operation. Missing keys are not an error.
	DeleteAll(ctx context.Context, keys ...string) error

	// Close releases the underlying storage
	Close() error
}
