package postgres

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"labnotebook/internal/infra/kv/postgres/testutil"
	"labnotebook/internal/kv/core"
)

func openStub(t *testing.T) (*Store, *testutil.StubConn) {
	t.Helper()
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	t.Cleanup(restore)
	store, err := NewStore(context.Background(), "")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store, conn
}

func TestNewStoreEnsuresStateTable(t *testing.T) {
	store, conn := openStub(t)
	if store.Driver() != core.DriverPostgres {
		t.Fatalf("unexpected driver %s", store.Driver())
	}
	var sawDDL bool
	for _, stmt := range conn.Execs {
		if strings.Contains(strings.ToUpper(stmt), "CREATE TABLE IF NOT EXISTS STATE") {
			sawDDL = true
		}
	}
	if !sawDDL {
		t.Fatalf("expected state table DDL, got execs: %v", conn.Execs)
	}
}

func TestStoreSetGet(t *testing.T) {
	ctx := context.Background()
	store, conn := openStub(t)
	if _, ok, err := store.Get(ctx, "eln_experiments"); err != nil || ok {
		t.Fatalf("expected absent key, ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, "eln_experiments", []byte(`[1]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "eln_experiments", []byte(`[2]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := store.Get(ctx, "eln_experiments")
	if err != nil || !ok || string(v) != "[2]" {
		t.Fatalf("get = %q %v %v", v, ok, err)
	}
	if len(conn.Rows) != 1 {
		t.Fatalf("expected one row, got %d", len(conn.Rows))
	}
}

func TestStoreSurfacesBackendFailures(t *testing.T) {
	ctx := context.Background()
	store, conn := openStub(t)

	conn.FailCommit = true
	if err := store.Set(ctx, "k", []byte("v")); err == nil || !strings.Contains(err.Error(), "commit") {
		t.Fatalf("expected commit error, got %v", err)
	}
	conn.FailCommit = false

	conn.FailBegin = true
	if err := store.Set(ctx, "k", []byte("v")); err == nil {
		t.Fatalf("expected begin error")
	}
	conn.FailBegin = false

	conn.FailQuery = true
	if _, _, err := store.Get(ctx, "k"); err == nil {
		t.Fatalf("expected query error")
	}
}

func TestNewStorePingFailure(t *testing.T) {
	db, conn := testutil.NewStubDB()
	conn.FailPing = true
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()
	if _, err := NewStore(context.Background(), "postgres://ignored"); err == nil {
		t.Fatalf("expected ping failure")
	}
}
