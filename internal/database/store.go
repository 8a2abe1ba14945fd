package database

import (
	"context"
	"errors"
)

// ErrNotFound is returned by FindOne when no document matches the filter.
var ErrNotFound = errors.New("document not found")

// DocumentStore is the narrow capability the handlers and services depend
// on: insert a record into a named collection, query by field equality.
// Any storage backend can be substituted without touching handler logic.
type DocumentStore interface {
	Insert(ctx context.Context, collection string, doc interface{}) (string, error)
	Find(ctx context.Context, collection string, filter map[string]interface{}, limit int64) ([]map[string]interface{}, error)
	FindOne(ctx context.Context, collection string, filter map[string]interface{}, out interface{}) error
}

// Diagnostics exposes the best-effort connectivity checks used by the
// /test endpoint.
type Diagnostics interface {
	Ping(ctx context.Context) error
	Collections(ctx context.Context) ([]string, error)
	Name() string
}
