// Package defaults owns the persisted fallback configuration: loading it at
// startup, creating it when absent, and swapping it safely at runtime.
package defaults

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Vovarama1992/auv-mission-bridge/internal/vehicle"
)

// ConfigLoadError is fatal at startup: without a valid default there is
// nothing safe to fall back to.
type ConfigLoadError struct {
	Path string
	Err  error
}

func (e *ConfigLoadError) Error() string {
	return fmt.Sprintf("load default config %s: %v", e.Path, e.Err)
}

func (e *ConfigLoadError) Unwrap() error { return e.Err }

// Store reads and writes the default document. Files ending in .yaml or .yml
// use YAML, everything else JSON.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: filepath.Clean(path)}
}

func (s *Store) Path() string { return s.path }

func (s *Store) isYAML() bool {
	ext := strings.ToLower(filepath.Ext(s.path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadOrCreate loads the file, or writes an all-defaults document when the
// file does not exist yet.
func (s *Store) LoadOrCreate() (vehicle.Config, error) {
	cfg, err := s.Load()
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return vehicle.Config{}, err
	}

	cfg = vehicle.Default()
	if err := s.Save(cfg); err != nil {
		return vehicle.Config{}, &ConfigLoadError{Path: s.path, Err: err}
	}
	return cfg, nil
}

// Load reads and fully validates the file.
func (s *Store) Load() (vehicle.Config, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return vehicle.Config{}, &ConfigLoadError{Path: s.path, Err: err}
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return vehicle.Config{}, &ConfigLoadError{Path: s.path, Err: errors.New("file is empty")}
	}

	var raw map[string]any
	if s.isYAML() {
		err = yaml.Unmarshal(b, &raw)
	} else {
		err = json.Unmarshal(b, &raw)
	}
	if err != nil {
		return vehicle.Config{}, &ConfigLoadError{Path: s.path, Err: err}
	}
	if raw == nil {
		return vehicle.Config{}, &ConfigLoadError{Path: s.path, Err: errors.New("top-level value is not an object")}
	}

	cfg, err := vehicle.ParseConfig(raw)
	if err != nil {
		return vehicle.Config{}, &ConfigLoadError{Path: s.path, Err: err}
	}
	return cfg, nil
}

// Save validates cfg and replaces the file atomically (write temp, rename).
func (s *Store) Save(cfg vehicle.Config) error {
	if err := vehicle.Validate(cfg); err != nil {
		return err
	}

	var (
		b   []byte
		err error
	)
	if s.isYAML() {
		b, err = yaml.Marshal(cfg)
	} else {
		b, err = json.MarshalIndent(cfg, "", "  ")
		b = append(b, '\n')
	}
	if err != nil {
		return fmt.Errorf("encode default config: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".default-config-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace config file: %w", err)
	}
	return nil
}
