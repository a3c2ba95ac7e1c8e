package kv

import (
	"context"
	"fmt"

	fsstore "labnotebook/internal/infra/kv/fs"
	memorystore "labnotebook/internal/infra/kv/memory"
	pgstore "labnotebook/internal/infra/kv/postgres"
	infraS3 "labnotebook/internal/infra/kv/s3"
	sqlitestore "labnotebook/internal/infra/kv/sqlite"
)

// S3Config re-exports the infra S3 configuration type.
type S3Config = infraS3.Config

// Config selects and parameterises a backend.
//
//	Driver:      memory|fs|sqlite|postgres|s3 (default sqlite)
//	SQLitePath:  database file when Driver=sqlite (default ./labnotebook.db)
//	FSRoot:      directory root when Driver=fs (default ./notebookdata)
//	PostgresDSN: connection string when Driver=postgres
//	S3:          bucket settings when Driver=s3
//	QuotaBytes:  when positive, writes larger than this fail with ErrQuotaExceeded
type Config struct {
	Driver      Driver
	SQLitePath  string
	FSRoot      string
	PostgresDSN string
	S3          S3Config
	QuotaBytes  int
}

// Open constructs the configured Store.
func Open(ctx context.Context, cfg Config) (Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverSQLite
	}
	var (
		store Store
		err   error
	)
	switch driver {
	case DriverMemory:
		store = memorystore.New()
	case DriverFilesystem:
		store, err = fsstore.New(cfg.FSRoot)
	case DriverSQLite:
		store, err = sqlitestore.NewStore(cfg.SQLitePath)
	case DriverPostgres:
		store, err = pgstore.NewStore(ctx, cfg.PostgresDSN)
	case DriverS3:
		store, err = infraS3.New(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", driver, err)
	}
	if cfg.QuotaBytes > 0 {
		store = WithQuota(store, cfg.QuotaBytes)
	}
	return store, nil
}

// NewMemory returns an in-memory Store suitable for tests.
func NewMemory() Store { return memorystore.New() }

// NewMockS3ForTests exposes the lightweight S3 fake for cross-package tests.
func NewMockS3ForTests() Store { return infraS3.NewMockForTests() }
