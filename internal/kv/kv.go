// Package kv is a minimal string-keyed byte store with interchangeable
// backends: in-process memory, a local SQLite file, or a hosted KV service
// speaking the REST get/set/del protocol.
package kv

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get for a key that was never set or was deleted.
var ErrNotFound = errors.New("kv: key not found")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Options selects and configures a backend for Open.
type Options struct {
	Driver string // memory | sqlite | rest
	DSN    string // sqlite file or DSN
	URL    string // rest base URL
	Token  string // rest bearer token
}

func Open(opts Options) (Store, error) {
	switch opts.Driver {
	case "", "memory":
		return NewMemory(), nil
	case "sqlite":
		if opts.DSN == "" {
			return nil, fmt.Errorf("kv: sqlite driver needs a DSN")
		}
		return OpenSQLite(opts.DSN)
	case "rest":
		if opts.URL == "" {
			return nil, fmt.Errorf("kv: rest driver needs a URL")
		}
		return NewREST(opts.URL, opts.Token, nil), nil
	}
	return nil, fmt.Errorf("kv: unknown driver %q", opts.Driver)
}
