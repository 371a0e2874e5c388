package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML configuration shape for keyelf. Unset
// fields are nil so the CLI can tell them apart from zero values.
type FileConfig struct {
	ChunkSize *int    `yaml:"chunk_size,omitempty"`
	Timeout   *string `yaml:"timeout,omitempty"`
	Output    *string `yaml:"output,omitempty"`
	Include   *string `yaml:"include,omitempty"`
	Exclude   *string `yaml:"exclude,omitempty"`
	NoColor   *bool   `yaml:"no_color,omitempty"`
	NoMmap    *bool   `yaml:"no_mmap,omitempty"`
	Addresses *bool   `yaml:"addresses,omitempty"`

	// Result cache for repeated directory scans
	Cache     *bool   `yaml:"cache,omitempty"`
	CachePath *string `yaml:"cache_path,omitempty"`

	AuditLog *string `yaml:"audit_log,omitempty"`
	LogLevel *string `yaml:"log_level,omitempty"`
}

// ErrNotFound is returned by LoadLocal and LoadGlobal when there is no file
// to read.
var ErrNotFound = errors.New("config not found")

// LocalNames are the file names LoadLocal looks for, in order.
var LocalNames = []string{".keyelf.yml", ".keyelf.yaml", "keyelf.yml", "keyelf.yaml"}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadLocal searches dir for a local config file. The CLI passes the working
// directory, never the scan target, so evidence directories are not read
// for settings.
func LoadLocal(dir string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range LocalNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, fmt.Errorf("%w: no local config in %s", ErrNotFound, dir)
}

// GlobalPath returns the global config location under XDG_CONFIG_HOME or
// ~/.config.
func GlobalPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return "", fmt.Errorf("%w: no config dir", ErrNotFound)
	}
	return filepath.Join(base, "keyelf", "config.yml"), nil
}

// LoadGlobal loads the global config file.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	p, err := GlobalPath()
	if err != nil {
		return cfg, err
	}
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, fmt.Errorf("%w: no global config", ErrNotFound)
}

// Validate rejects values the scanner cannot run with.
func (fc FileConfig) Validate() error {
	if fc.ChunkSize != nil && *fc.ChunkSize != 0 && *fc.ChunkSize <= 36 {
		return fmt.Errorf("chunk_size must exceed 36 bytes, got %d", *fc.ChunkSize)
	}
	if _, err := fc.TimeoutDuration(); err != nil {
		return err
	}
	if fc.LogLevel != nil {
		switch strings.ToLower(*fc.LogLevel) {
		case "", "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("log_level %q: want debug, info, warn or error", *fc.LogLevel)
		}
	}
	return nil
}

// TimeoutDuration parses the timeout field. Zero means unset.
func (fc FileConfig) TimeoutDuration() (time.Duration, error) {
	if fc.Timeout == nil || *fc.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(*fc.Timeout)
	if err != nil {
		return 0, fmt.Errorf("timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout must not be negative, got %s", d)
	}
	return d, nil
}
