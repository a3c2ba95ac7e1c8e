package s3

import (
	"context"
	"strings"
	"testing"

	"labnotebook/internal/kv/core"
)

func TestStoreGetSetOverwrite(t *testing.T) {
	ctx := context.Background()
	store := NewMockForTests()
	if store.Driver() != core.DriverS3 {
		t.Fatalf("unexpected driver %s", store.Driver())
	}
	if _, ok, err := store.Get(ctx, "records"); err != nil || ok {
		t.Fatalf("expected missing object, ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, "records", []byte(`[{"id":"EXP-1"}]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "records", []byte(`[]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, ok, err := store.Get(ctx, "records")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(got) != "[]" {
		t.Fatalf("expected overwritten payload, got %q", got)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestStorePrefixesKeys(t *testing.T) {
	ctx := context.Background()
	store, rt := newMock(&MockTransport{objects: make(map[string][]byte)})
	store.prefix = "notebook/"
	if err := store.Set(ctx, "records", []byte("x")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok := rt.objects["notebook/records"]; !ok {
		t.Fatalf("expected prefixed object key, have %v", rt.objects)
	}
}

func TestStoreSetFailure(t *testing.T) {
	store, rt := newMock(&MockTransport{objects: make(map[string][]byte)})
	rt.FailPut = true
	err := store.Set(context.Background(), "records", []byte("x"))
	if err == nil || !strings.Contains(err.Error(), "put object records") {
		t.Fatalf("expected wrapped put error, got %v", err)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected bucket error")
	}
}

func TestDecodeChunked(t *testing.T) {
	body, ok := decodeChunked([]byte("5;chunk-signature=abc\r\nhello\r\n0\r\n\r\n"))
	if !ok || string(body) != "hello" {
		t.Fatalf("decode failed: ok=%v body=%q", ok, body)
	}
	if _, ok := decodeChunked([]byte("plain body")); ok {
		t.Fatalf("plain body should not decode")
	}
	if _, err := parseHex("zz"); err == nil {
		t.Fatalf("expected hex error")
	}
}
