// Package kvstore is the client's persistent key-value store. Values are JSON
// text addressed by string keys; the session token and the demo leave
// collections live here.
//
// Two backends exist: SQLite (the default, a file next to the client) and
// Redis. Both make Merge atomic, so concurrent read-modify-write cycles on one
// key never lose an update.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown key-value backend")

// MergeFunc receives the current value (nil when the key is absent) and
// returns the value to store. Returning an error aborts the merge.
type MergeFunc func(current []byte) ([]byte, error)

// Store is a string-keyed store of JSON values.
type Store interface {
	// Get returns (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete is a no-op for an absent key.
	Delete(ctx context.Context, key string) error
	// Merge atomically replaces the value of key with fn(current).
	Merge(ctx context.Context, key string, fn MergeFunc) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend   string
	SQLiteDSN string
	RedisAddr string
	RedisDB   int
	// RedisPrefix namespaces keys in a shared Redis instance.
	RedisPrefix string
}

// Open connects to the backend named in opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendSQLite:
		return OpenSQLite(ctx, opts.SQLiteDSN)
	case BackendRedis:
		return OpenRedis(ctx, opts.RedisAddr, opts.RedisDB, opts.RedisPrefix)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// GetJSON decodes the value stored under key into a T. An absent key yields
// the zero T.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, error) {
	var out T
	raw, err := s.Get(ctx, key)
	if err != nil || raw == nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", key, err)
	}
	return out, nil
}

// MergeJSON is Merge over decoded values.
func MergeJSON[T any](ctx context.Context, s Store, key string, fn func(current T) (T, error)) error {
	return s.Merge(ctx, key, func(raw []byte) ([]byte, error) {
		var cur T
		if raw != nil {
			if err := json.Unmarshal(raw, &cur); err != nil {
				return nil, fmt.Errorf("decode %s: %w", key, err)
			}
		}
		next, err := fn(cur)
		if err != nil {
			return nil, err
		}
		return json.Marshal(next)
	})
}
