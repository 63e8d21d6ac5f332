package observability

import (
	"context"
	"time"

	"github.com/divron/attendance/internal/storage"
)

// InstrumentedStore times every call on the wrapped store.
type InstrumentedStore struct {
	next storage.Store
	prom *Prom
}

func InstrumentStore(next storage.Store, prom *Prom) storage.Store {
	if prom == nil {
		return next
	}
	return &InstrumentedStore{next: next, prom: prom}
}

func (s *InstrumentedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	v, found, err := s.next.Get(ctx, key)
	s.prom.observeStoreOp("get", start, err)
	return v, found, err
}

func (s *InstrumentedStore) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := s.next.Set(ctx, key, value)
	s.prom.observeStoreOp("set", start, err)
	return err
}

func (s *InstrumentedStore) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.next.Delete(ctx, key)
	s.prom.observeStoreOp("delete", start, err)
	return err
}

func (s *InstrumentedStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *InstrumentedStore) Close() error {
	return s.next.Close()
}
