package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func TestMigrateRoundTripCompatibility(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate-roundtrip.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first migrate up failed: %v", err)
	}

	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down failed: %v", err)
	}

	if err := MigrateUp(db); err != nil {
		t.Fatalf("second migrate up failed: %v", err)
	}

	kv, err := NewSQLiteKV(db)
	if err != nil {
		t.Fatalf("new kv: %v", err)
	}

	if err := kv.Set(t.Context(), "roundtrip", []byte(`"ok"`)); err != nil {
		t.Fatalf("set after roundtrip failed: %v", err)
	}

	got, ok, err := kv.Get(t.Context(), "roundtrip")
	if err != nil || !ok {
		t.Fatalf("get after roundtrip failed: ok=%v err=%v", ok, err)
	}
	if string(got) != `"ok"` {
		t.Fatalf("unexpected value after roundtrip: %q", got)
	}
}

func TestMigrateUpIsIdempotent(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "idempotent.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	first, err := NewSQLiteKV(db)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := first.Set(t.Context(), KeyTheme, []byte(`"dark"`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := NewSQLiteKV(db); err != nil {
		t.Fatalf("second open: %v", err)
	}

	versions, err := AppliedMigrations(t.Context(), db)
	if err != nil {
		t.Fatalf("applied migrations: %v", err)
	}
	if len(versions) != 1 || versions[0] != "0001_kv" {
		t.Fatalf("unexpected applied versions: %v", versions)
	}

	got, ok, err := first.Get(t.Context(), KeyTheme)
	if err != nil || !ok || string(got) != `"dark"` {
		t.Fatalf("data lost across reopen: %q ok=%v err=%v", got, ok, err)
	}

	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	versions, err = AppliedMigrations(t.Context(), db)
	if err != nil || len(versions) != 0 {
		t.Fatalf("expected no applied versions, got %v err=%v", versions, err)
	}
}
