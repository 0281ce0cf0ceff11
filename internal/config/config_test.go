package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.StorageDir != "dbuf_db_storage" || cfg.PageSize != 4096 || cfg.BufferCapacity != 10 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadOverridesOnlySetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dbuf.yaml")
	if err := os.WriteFile(path, []byte("page_size: 8192\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.PageSize != 8192 {
		t.Fatalf("expected overridden page size, got %d", cfg.PageSize)
	}
	if cfg.StorageDir != Default().StorageDir || cfg.BufferCapacity != Default().BufferCapacity {
		t.Fatalf("expected unset fields to keep their defaults, got %+v", cfg)
	}
}
