// Package config loads the tagq configuration: embedded defaults overlaid
// with an optional YAML or TOML user file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// AppName names the XDG config directory.
const AppName = "tagq"

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

var (
	embeddedOnce sync.Once
	embeddedCfg  Config
	embeddedErr  error
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// DefaultConfigYAML returns a copy of the embedded default config.
func DefaultConfigYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default returns the parsed embedded configuration.
func Default() (Config, error) {
	embeddedOnce.Do(func() {
		if len(embeddedDefaultConfig) == 0 {
			embeddedErr = fmt.Errorf("embedded default config is empty")
			return
		}
		if err := yaml.Unmarshal(embeddedDefaultConfig, &embeddedCfg); err != nil {
			embeddedErr = fmt.Errorf("decode embedded default config: %w", err)
		}
	})
	return embeddedCfg.clone(), embeddedErr
}

// Load returns the defaults merged with the file at path. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := decodeInto(path, data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func decodeInto(path string, data []byte, cfg *Config) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decode config %s: %w", path, err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decode config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q (use .yaml, .yml or .toml)", ext)
	}
	return nil
}

// ResolvePath returns explicit when set, otherwise the first existing user
// config under $XDG_CONFIG_HOME/tagq or ~/.config/tagq. It returns "" when
// there is none.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	var dir string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dir = filepath.Join(xdg, AppName)
	} else if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".config", AppName)
	}
	if dir == "" {
		return ""
	}
	for _, name := range []string{"config.yaml", "config.yml", "config.toml"} {
		candidate := filepath.Join(dir, name)
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

// Validate reports the first problem with c.
func (c Config) Validate() error {
	switch strings.ToLower(c.Client.Mode) {
	case "", "simple", "advanced":
	default:
		return fmt.Errorf("%w: client.mode %q must be simple or advanced", ErrInvalid, c.Client.Mode)
	}
	if strings.TrimSpace(c.Client.Endpoint) == "" {
		return fmt.Errorf("%w: client.endpoint is required", ErrInvalid)
	}
	if c.Client.Timeout < 0 {
		return fmt.Errorf("%w: client.timeout must not be negative", ErrInvalid)
	}
	if c.Autocomplete.Debounce < 0 {
		return fmt.Errorf("%w: autocomplete.debounce must not be negative", ErrInvalid)
	}
	if c.Autocomplete.MaxRows < 0 {
		return fmt.Errorf("%w: autocomplete.max_rows must not be negative", ErrInvalid)
	}
	if c.Server.MaxTags < 0 {
		return fmt.Errorf("%w: server.max_tags must not be negative", ErrInvalid)
	}
	return nil
}

func (c Config) clone() Config {
	out := c
	if c.Theme.TagTypes != nil {
		out.Theme.TagTypes = make(map[string]string, len(c.Theme.TagTypes))
		for k, v := range c.Theme.TagTypes {
			out.Theme.TagTypes[k] = v
		}
	}
	out.Server.CORSOrigins = append([]string(nil), c.Server.CORSOrigins...)
	return out
}
