package factory

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/reliefgrid/reliefgrid/internal/config"
)

func TestNewStore_MemoryDriver(t *testing.T) {
	s, err := NewStore(&config.Config{StoreDriver: "memory"})
	if err != nil {
		t.Fatalf("memory driver: %v", err)
	}
	defer func() { _ = s.Close() }()
}

func TestNewStore_SQLiteDriver(t *testing.T) {
	cfg := &config.Config{
		StoreDriver: "sqlite",
		SQLitePath:  filepath.Join(t.TempDir(), "relief.db"),
	}
	s, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("sqlite driver: %v", err)
	}
	defer func() { _ = s.Close() }()
}

func TestNewStore_UnknownDriver(t *testing.T) {
	if _, err := NewStore(&config.Config{StoreDriver: "spanner"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNewCache_InMemory(t *testing.T) {
	c, err := NewCache(&config.Config{CacheInMemory: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	defer func() { _ = c.Close() }()
}
