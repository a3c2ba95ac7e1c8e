// Package core defines the key-value contract shared by the storage backends
// that hold the notebook blob.
package core

import (
	"context"
	"errors"
)

// Driver identifies a concrete key-value backend implementation.
type Driver string

const (
	// DriverMemory keeps values in process memory (tests, ephemeral runs).
	DriverMemory Driver = "memory"
	// DriverFilesystem stores one file per key under a root directory.
	DriverFilesystem Driver = "fs"
	// DriverSQLite stores values in an embedded sqlite file.
	DriverSQLite Driver = "sqlite"
	// DriverPostgres stores values in a PostgreSQL table.
	DriverPostgres Driver = "postgres"
	// DriverS3 stores one object per key in an S3 / MinIO bucket.
	DriverS3 Driver = "s3"
)

// Store is the minimal key-value capability the persistence layer depends on.
type Store interface {
	// Get returns the value stored at key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set overwrites the value at key.
	Set(ctx context.Context, key string, value []byte) error
	Driver() Driver
	Close() error
}

// ErrQuotaExceeded is returned by Set when the value does not fit the
// configured storage quota.
var ErrQuotaExceeded = errors.New("kv: quota exceeded")
