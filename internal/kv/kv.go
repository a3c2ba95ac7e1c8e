// Package kv re-exports the key-value abstractions and selects a backend.
package kv

import (
	"labnotebook/internal/kv/core"
)

type (
	// Driver identifies a key-value backend driver.
	Driver = core.Driver
	// Store is the interface for key-value backends.
	Store = core.Store
)

const (
	DriverMemory     = core.DriverMemory
	DriverFilesystem = core.DriverFilesystem
	DriverSQLite     = core.DriverSQLite
	DriverPostgres   = core.DriverPostgres
	DriverS3         = core.DriverS3
)

// ErrQuotaExceeded indicates a write larger than the configured quota.
var ErrQuotaExceeded = core.ErrQuotaExceeded
