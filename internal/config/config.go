// Package config holds the three parameters a storage engine needs to
// open: where its files live, its page size, and its buffer pool's
// capacity. A flat plain-struct Config, with defaults set first and an
// optional YAML file able to override them.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the storage engine's open configuration.
type Config struct {
	// StorageDir is the directory holding the engine's blob store
	// file.
	StorageDir string `yaml:"storage_dir"`

	// PageSize is the byte size of one page; fixed for the storage
	// state's lifetime once initialized.
	PageSize int `yaml:"page_size"`

	// BufferCapacity is the maximum number of pages the buffer pool
	// keeps cached at once.
	BufferCapacity int `yaml:"buffer_capacity"`
}

// Default returns the engine's baseline configuration, matching the
// original driver's hardcoded constants.
func Default() Config {
	return Config{
		StorageDir:     "dbuf_db_storage",
		PageSize:       4096,
		BufferCapacity: 10,
	}
}

// Load returns Default(), overridden field-by-field by any values set
// in the YAML file at path. A missing file is not an error — the
// defaults stand unmodified.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, err
	}

	var overrides Config
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return Config{}, err
	}

	if overrides.StorageDir != "" {
		cfg.StorageDir = overrides.StorageDir
	}
	if overrides.PageSize != 0 {
		cfg.PageSize = overrides.PageSize
	}
	if overrides.BufferCapacity != 0 {
		cfg.BufferCapacity = overrides.BufferCapacity
	}

	return cfg, nil
}
