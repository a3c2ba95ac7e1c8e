package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"labnotebook/internal/kv/core"
)

func TestStoreSetGetOverwrite(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := New(root)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if s.Driver() != core.DriverFilesystem {
		t.Fatalf("unexpected driver")
	}
	if _, ok, err := s.Get(ctx, "eln_experiments"); err != nil || ok {
		t.Fatalf("expected absent, ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, "eln_experiments", []byte("[1]")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "eln_experiments", []byte("[2]")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := s.Get(ctx, "eln_experiments")
	if err != nil || !ok || string(v) != "[2]" {
		t.Fatalf("get = %q %v %v", v, ok, err)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the value file, found %d entries", len(entries))
	}
}

func TestStoreNestedKey(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := New(root)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Set(ctx, "nb/a", []byte("x")); err != nil {
		t.Fatalf("set nested: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "nb", "a")); err != nil {
		t.Fatalf("nested file missing: %v", err)
	}
}

func TestStoreRejectsUnsafeKeys(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for _, key := range []string{"", "  ", "../escape", "/abs", `\abs`} {
		if err := s.Set(ctx, key, []byte("x")); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
		if _, _, err := s.Get(ctx, key); err == nil {
			t.Fatalf("expected get error for key %q", key)
		}
	}
}
