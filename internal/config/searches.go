package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// SavedSearch is a named query.
type SavedSearch struct {
	Name  string `yaml:"name" json:"name" toml:"name"`
	Query string `yaml:"query" json:"query" toml:"query"`
}

type searchesFile struct {
	Searches []SavedSearch `yaml:"searches"`
}

// SearchesPath returns where saved searches live: next to the user config
// under $XDG_CONFIG_HOME/tagq or ~/.config/tagq.
func SearchesPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName, "searches.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate saved searches: %w", err)
	}
	return filepath.Join(home, ".config", AppName, "searches.yaml"), nil
}

// LoadSearches reads the saved searches at path, sorted by name. A missing
// file yields no searches.
func LoadSearches(path string) ([]SavedSearch, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var f searchesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	sort.Slice(f.Searches, func(i, j int) bool { return f.Searches[i].Name < f.Searches[j].Name })
	return f.Searches, nil
}

// ErrEmptySearch is returned when a search phrase is blank.
var ErrEmptySearch = errors.New("search phrase cannot be empty")

// ErrSearchNotFound is returned when no saved search has the given name.
var ErrSearchNotFound = errors.New("saved search not found")

// NormalizeSearch trims phrase and collapses runs of whitespace to a single
// space.
func NormalizeSearch(phrase string) string {
	return strings.Join(strings.Fields(phrase), " ")
}

// SaveSearch stores the normalized query under name at path, replacing a
// search with the same name.
func SaveSearch(path, name, query string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: saved search name is required", ErrInvalid)
	}
	query = NormalizeSearch(query)
	if query == "" {
		return ErrEmptySearch
	}
	searches, err := LoadSearches(path)
	if err != nil {
		return err
	}

	replaced := false
	for i := range searches {
		if searches[i].Name == name {
			searches[i].Query = query
			replaced = true
		}
	}
	if !replaced {
		searches = append(searches, SavedSearch{Name: name, Query: query})
	}
	return writeSearches(path, searches)
}

// DeleteSearch removes the search called name from path.
func DeleteSearch(path, name string) error {
	name = strings.TrimSpace(name)
	searches, err := LoadSearches(path)
	if err != nil {
		return err
	}
	kept := searches[:0]
	for _, s := range searches {
		if s.Name != name {
			kept = append(kept, s)
		}
	}
	if len(kept) == len(searches) {
		return fmt.Errorf("%w: %q", ErrSearchNotFound, name)
	}
	return writeSearches(path, kept)
}

func writeSearches(path string, searches []SavedSearch) error {
	sort.Slice(searches, func(i, j int) bool { return searches[i].Name < searches[j].Name })

	out, err := yaml.Marshal(searchesFile{Searches: searches})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o600)
}
