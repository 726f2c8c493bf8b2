package config

import (
	"os"
	"testing"
)

func TestConfigLoad_Defaults(t *testing.T) {
	_ = os.Unsetenv("RELIEF_BUILD_TARGET")
	_ = os.Unsetenv("RELIEF_STORE_DRIVER")
	_ = os.Unsetenv("RELIEF_HTTP_PORT")

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.BuildTarget != "server" || cfg.StoreDriver != "sqlite" || cfg.HTTPPort != 8080 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.CacheSweepSeconds != 600 {
		t.Fatalf("unexpected default sweep interval: %d", cfg.CacheSweepSeconds)
	}
}

func TestConfigLoad_StoreDriverEnvOverride(t *testing.T) {
	_ = os.Setenv("RELIEF_STORE_DRIVER", "memory")
	defer func() { _ = os.Unsetenv("RELIEF_STORE_DRIVER") }()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.StoreDriver != "memory" {
		t.Fatalf("store driver env override failed, got %s", cfg.StoreDriver)
	}
}

func TestConfigLoad_RejectsUnknownDriver(t *testing.T) {
	_ = os.Setenv("RELIEF_STORE_DRIVER", "dynamo")
	defer func() { _ = os.Unsetenv("RELIEF_STORE_DRIVER") }()

	if _, err := New(); err == nil {
		t.Fatal("expected error for unsupported store driver")
	}
}
