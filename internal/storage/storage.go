package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
)

// Store is a flat durable key-value store. Values are opaque bytes; the
// collection helpers below serialize them as JSON arrays.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

const (
	KeyEmployees  = "employees"
	KeyAttendance = "attendance"
)

var ErrClosed = errors.New("store is closed")

// Collections binds a Store to a key prefix. There is no locking and no
// transaction across keys: concurrent read-modify-write cycles resolve as
// last writer wins.
type Collections struct {
	store  Store
	prefix string
	logger *slog.Logger
}

func NewCollections(store Store, prefix string, logger *slog.Logger) *Collections {
	return &Collections{
		store:  store,
		prefix: prefix,
		logger: logger,
	}
}

func (c *Collections) Key(name string) string {
	return c.prefix + name
}

func (c *Collections) Store() Store {
	return c.store
}

// ReadCollection returns the decoded collection stored under name. An absent
// key, a backend error and an undecodable value all read as an empty
// collection; the latter two are only visible in the logs.
func ReadCollection[T any](ctx context.Context, c *Collections, name string) []T {
	key := c.Key(name)

	data, found, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Error("failed to read collection", "key", key, "error", err)
		return []T{}
	}
	if !found || len(data) == 0 {
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		c.logger.Warn("stored collection could not be decoded, treating as empty", "key", key, "error", err)
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

// WriteCollection replaces the whole collection stored under name.
func WriteCollection[T any](ctx context.Context, c *Collections, name string, items []T) error {
	if items == nil {
		items = []T{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return err
	}

	return c.store.Set(ctx, c.Key(name), data)
}
