package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func backends(t *testing.T) map[string]KV {
	t.Helper()
	dir := t.TempDir()

	file, err := OpenFileKV(filepath.Join(dir, "nested", "atm.json"))
	if err != nil {
		t.Fatalf("open file kv: %v", err)
	}
	sqlite, err := OpenSQLite(filepath.Join(dir, "atm.db"))
	if err != nil {
		t.Fatalf("open sqlite kv: %v", err)
	}
	out := map[string]KV{
		BackendMemory: NewMemoryKV(),
		BackendFile:   file,
		BackendSQLite: sqlite,
	}
	t.Cleanup(func() {
		for _, kv := range out {
			_ = kv.Close()
		}
	})
	return out
}

func TestKVGetSetOverwrite(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, ok, err := kv.Get(ctx, "missing"); err != nil || ok {
				t.Fatalf("expected missing key, ok=%v err=%v", ok, err)
			}

			if err := kv.Set(ctx, "k", []byte(`{"a":1}`)); err != nil {
				t.Fatalf("set: %v", err)
			}
			if err := kv.Set(ctx, "k", []byte(`{"a":2}`)); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			if err := kv.Set(ctx, "other", []byte(`"x"`)); err != nil {
				t.Fatalf("set other: %v", err)
			}

			got, ok, err := kv.Get(ctx, "k")
			if err != nil || !ok {
				t.Fatalf("get: ok=%v err=%v", ok, err)
			}
			if string(got) != `{"a":2}` {
				t.Fatalf("unexpected value: %s", got)
			}
		})
	}
}

func TestFileKVPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atm.json")
	first, err := OpenFileKV(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Set(context.Background(), KeyTheme, []byte(`"dark"`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	_ = first.Close()

	second, err := OpenFileKV(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	got, ok, err := second.Get(context.Background(), KeyTheme)
	if err != nil || !ok || string(got) != `"dark"` {
		t.Fatalf("unexpected reopen read: %s ok=%v err=%v", got, ok, err)
	}
}

func TestFileKVRejectsNonJSON(t *testing.T) {
	kv, err := OpenFileKV(filepath.Join(t.TempDir(), "atm.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer kv.Close()
	if err := kv.Set(context.Background(), "k", []byte("not json")); err == nil {
		t.Fatal("expected error for non-JSON value")
	}
}

func TestMemoryKVClosed(t *testing.T) {
	kv := NewMemoryKV()
	_ = kv.Close()
	if err := kv.Set(context.Background(), "k", []byte(`1`)); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("redis", t.TempDir()); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
	kv, err := Open("memory", "")
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	_ = kv.Close()
}
