package kv

import (
	"context"
	"fmt"
)

type quotaStore struct {
	Store
	limit int
}

// WithQuota wraps store so that Set rejects values longer than limit bytes
// with ErrQuotaExceeded. The previous value is left untouched.
func WithQuota(store Store, limit int) Store {
	return &quotaStore{Store: store, limit: limit}
}

func (q *quotaStore) Set(ctx context.Context, key string, value []byte) error {
	if len(value) > q.limit {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrQuotaExceeded, len(value), q.limit)
	}
	return q.Store.Set(ctx, key, value)
}
