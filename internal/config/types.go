package config

import (
	"fmt"
	"time"
)

// Config is the merged tagq configuration.
type Config struct {
	Client       ClientConfig       `yaml:"client" toml:"client" json:"client"`
	Autocomplete AutocompleteConfig `yaml:"autocomplete" toml:"autocomplete" json:"autocomplete"`
	Theme        ThemeConfig        `yaml:"theme" toml:"theme" json:"theme"`
	Server       ServerConfig       `yaml:"server" toml:"server" json:"server"`
}

// ClientConfig points the search box at a tag index.
type ClientConfig struct {
	Endpoint string   `yaml:"endpoint" toml:"endpoint" json:"endpoint"`
	Timeout  Duration `yaml:"timeout" toml:"timeout" json:"timeout"`
	Mode     string   `yaml:"mode" toml:"mode" json:"mode"`
}

// AutocompleteConfig tunes the dropdown.
type AutocompleteConfig struct {
	Debounce Duration `yaml:"debounce" toml:"debounce" json:"debounce"`
	MaxRows  int      `yaml:"max_rows" toml:"max_rows" json:"max_rows"`
}

// ThemeConfig holds colours for the terminal search box. TagTypes maps a
// tag type to the colour of its suggestion rows.
type ThemeConfig struct {
	Prompt     string            `yaml:"prompt" toml:"prompt" json:"prompt"`
	Input      string            `yaml:"input" toml:"input" json:"input"`
	Text       string            `yaml:"text" toml:"text" json:"text"`
	Count      string            `yaml:"count" toml:"count" json:"count"`
	Operator   string            `yaml:"operator" toml:"operator" json:"operator"`
	SelectedFG string            `yaml:"selected_fg" toml:"selected_fg" json:"selected_fg"`
	SelectedBG string            `yaml:"selected_bg" toml:"selected_bg" json:"selected_bg"`
	Border     string            `yaml:"border" toml:"border" json:"border"`
	Error      string            `yaml:"error" toml:"error" json:"error"`
	Success    string            `yaml:"success" toml:"success" json:"success"`
	TagTypes   map[string]string `yaml:"tag_types" toml:"tag_types" json:"tag_types"`
}

// ServerConfig configures the development tag index.
type ServerConfig struct {
	Addr        string   `yaml:"addr" toml:"addr" json:"addr"`
	TagsFile    string   `yaml:"tags_file" toml:"tags_file" json:"tags_file"`
	MaxTags     int      `yaml:"max_tags" toml:"max_tags" json:"max_tags"`
	Fuzzy       bool     `yaml:"fuzzy" toml:"fuzzy" json:"fuzzy"`
	CORSOrigins []string `yaml:"cors_origins" toml:"cors_origins" json:"cors_origins"`
}

// Duration is a time.Duration written as "200ms" in every config format.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(b), err)
	}
	*d = Duration(v)
	return nil
}
