package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/docchat/internal/config"
)

// ConfigStore persists the typed configuration as a TOML file.
type ConfigStore struct {
	mu       sync.Mutex
	filePath string
}

// NewConfigStore creates a TOML-backed config store at path.
// If path is empty, defaults to config.Path().
func NewConfigStore(path string) (*ConfigStore, error) {
	if path == "" {
		path = config.Path()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}

	return &ConfigStore{filePath: path}, nil
}

// Load reads the file over the built-in defaults. Keys absent from the file
// keep their default values. A missing file yields the defaults.
func (s *ConfigStore) Load() (*config.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := config.Default()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.filePath, err)
	}
	return cfg, nil
}

// Save writes cfg to the file with owner-only permissions.
func (s *ConfigStore) Save(cfg *config.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.filePath); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// Exists reports whether the config file is present.
func (s *ConfigStore) Exists() bool {
	_, err := os.Stat(s.filePath)
	return err == nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// Setting is a single flattened configuration value.
type Setting struct {
	Key   string
	Value any
}

// Flatten returns cfg as dot-notation settings sorted by key,
// e.g. llm.default_model.
func Flatten(cfg *config.Config) ([]Setting, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, err
	}

	var nested map[string]any
	if err := toml.Unmarshal(data, &nested); err != nil {
		return nil, err
	}

	flat := flattenMap(nested, "")
	out := make([]Setting, 0, len(flat))
	for k, v := range flat {
		out = append(out, Setting{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// flattenMap converts nested maps to dot-notation keys.
// E.g., {"a": {"b": 1}} becomes {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)

	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			for k, v := range flattenMap(nested, fullKey) {
				result[k] = v
			}
		} else {
			result[fullKey] = value
		}
	}

	return result
}
