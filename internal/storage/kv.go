package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	ErrClosed         = errors.New("storage: store closed")
	ErrUnknownBackend = errors.New("storage: unknown backend")
)

// KV is the durable key-value store the adapter writes through to.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open returns the backend named by backend, rooted at dataDir.
func Open(backend, dataDir string) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendMemory:
		return NewMemoryKV(), nil
	case BackendFile:
		return OpenFileKV(filepath.Join(dataDir, "atm.json"))
	case "", BackendSQLite:
		return OpenSQLite(filepath.Join(dataDir, "atm.db"))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
