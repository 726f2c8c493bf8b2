package config

import "testing"

func TestResolveDefaults_ServerTarget(t *testing.T) {
	cfg := &Config{BuildTarget: "server", StoreDriver: "auto"}
	if err := cfg.ResolveDefaults(); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.StoreDriver != "sqlite" {
		t.Fatalf("server target should derive sqlite, got %s", cfg.StoreDriver)
	}
}

func TestResolveDefaults_LocalTarget(t *testing.T) {
	cfg := &Config{BuildTarget: "local", StoreDriver: ""}
	if err := cfg.ResolveDefaults(); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.StoreDriver != "memory" {
		t.Fatalf("local target should derive memory, got %s", cfg.StoreDriver)
	}
	if !cfg.CacheInMemory {
		t.Fatal("local target should force the in-memory cache")
	}
}

func TestResolveDefaults_ExplicitDriverWins(t *testing.T) {
	cfg := &Config{BuildTarget: "server", StoreDriver: "memory"}
	if err := cfg.ResolveDefaults(); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.StoreDriver != "memory" {
		t.Fatalf("explicit driver must win, got %s", cfg.StoreDriver)
	}
}

func TestResolveDefaults_UnknownBuildTarget(t *testing.T) {
	cfg := &Config{BuildTarget: "cloud"}
	if err := cfg.ResolveDefaults(); err == nil {
		t.Fatal("expected error for unknown build target")
	}
}
