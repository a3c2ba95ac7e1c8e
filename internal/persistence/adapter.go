// Package persistence synchronises the notebook's record collection with a
// key-value store as a single JSON blob.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"labnotebook/internal/kv"
	"labnotebook/internal/metrics"
	"labnotebook/pkg/domain"
)

// DefaultKey is the store key holding the serialized collection.
const DefaultKey = "eln_experiments"

// SaveError reports a write the backend rejected. The caller's in-memory
// collection remains authoritative.
type SaveError struct {
	Key string
	Err error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save %s: %v", e.Key, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// Adapter reads and writes the full collection under one key.
type Adapter struct {
	store   kv.Store
	key     string
	seed    func() []domain.Record
	logger  *slog.Logger
	metrics metrics.Recorder
}

// Option customises an Adapter.
type Option func(*Adapter)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(a *Adapter) {
		if key != "" {
			a.key = key
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m metrics.Recorder) Option {
	return func(a *Adapter) {
		if m != nil {
			a.metrics = m
		}
	}
}

// WithSeed replaces the first-run sample data.
func WithSeed(seed func() []domain.Record) Option {
	return func(a *Adapter) {
		if seed != nil {
			a.seed = seed
		}
	}
}

// New constructs an Adapter over store.
func New(store kv.Store, opts ...Option) *Adapter {
	a := &Adapter{
		store:   store,
		key:     DefaultKey,
		seed:    SeedRecords,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: metrics.Noop{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Key returns the storage key in use.
func (a *Adapter) Key() string { return a.key }

// Load returns the stored collection. When the blob is absent, unreadable or
// undecodable the seed collection is returned and written back. Load never
// fails; a failure to persist the seed is only logged.
func (a *Adapter) Load(ctx context.Context) []domain.Record {
	start := time.Now()
	ok := false
	defer func() { metrics.Since(ctx, a.metrics, "persistence_load", start, &ok) }()

	records, reason := a.read(ctx)
	if reason == "" {
		ok = true
		a.logger.DebugContext(ctx, "records loaded", "key", a.key, "count", len(records))
		return records
	}
	a.logger.WarnContext(ctx, "falling back to seed records", "key", a.key, "reason", reason)
	seed := a.seed()
	if err := a.Save(ctx, seed); err != nil {
		a.logger.ErrorContext(ctx, "persist seed records", "key", a.key, "error", err)
	}
	return seed
}

func (a *Adapter) read(ctx context.Context) ([]domain.Record, string) {
	raw, found, err := a.store.Get(ctx, a.key)
	if err != nil {
		return nil, "read failed: " + err.Error()
	}
	if !found {
		return nil, "no stored collection"
	}
	var records []domain.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, "decode failed: " + err.Error()
	}
	if records == nil {
		return nil, "stored collection is null"
	}
	return records, ""
}

// Save overwrites the stored blob with records. A rejected write is returned
// as *SaveError.
func (a *Adapter) Save(ctx context.Context, records []domain.Record) error {
	start := time.Now()
	ok := false
	defer func() { metrics.Since(ctx, a.metrics, "persistence_save", start, &ok) }()

	if records == nil {
		records = []domain.Record{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return &SaveError{Key: a.key, Err: fmt.Errorf("encode records: %w", err)}
	}
	if err := a.store.Set(ctx, a.key, payload); err != nil {
		a.logger.ErrorContext(ctx, "save records", "key", a.key, "bytes", len(payload), "error", err)
		return &SaveError{Key: a.key, Err: err}
	}
	ok = true
	a.logger.DebugContext(ctx, "records saved", "key", a.key, "count", len(records), "bytes", len(payload))
	return nil
}
