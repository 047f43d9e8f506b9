// Package loader reads tag lists for the development tag index.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Tag is one entry of a tag file.
type Tag struct {
	Name  string `json:"tag" yaml:"tag" toml:"tag"`
	Total int64  `json:"total" yaml:"total" toml:"total"`
	Type  string `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
}

// Format names a tag file encoding.
type Format string

const (
	FormatAuto   Format = ""
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
	FormatYAML   Format = "yaml"
	FormatTOML   Format = "toml"
	FormatText   Format = "text"
)

// tagDocument is the wrapped form: {"tags": [...]}. TOML files always use
// it as [[tags]] tables.
type tagDocument struct {
	Tags []Tag `json:"tags" yaml:"tags" toml:"tags"`
}

var (
	tomlSection   = regexp.MustCompile(`^\s*\[\[?\s*[A-Za-z_][A-Za-z0-9_.-]*\s*\]\]?\s*$`)
	tomlKeyValue  = regexp.MustCompile(`^\s*[A-Za-z_][A-Za-z0-9_.-]*\s*=\s*.+$`)
	errEmptyInput = errors.New("empty input")
)

// LoadTags reads the tag file at path. The format comes from the extension
// and falls back to content sniffing.
func LoadTags(path string) ([]Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	tags, err := ReadTags(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tags, nil
}

// FormatFromPath maps a file extension to a Format.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".txt":
		return FormatText
	default:
		return FormatAuto
	}
}

// ReadTags decodes every tag from r.
func ReadTags(r io.Reader, format Format) ([]Tag, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseTags(string(data), format)
}

// ParseTags decodes input in the given format, sniffing when format is
// FormatAuto. Entries without a name are dropped.
func ParseTags(input string, format Format) ([]Tag, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, errEmptyInput
	}
	if format == FormatAuto {
		format = Detect(input)
	}

	var (
		tags []Tag
		err  error
	)
	switch format {
	case FormatJSON:
		tags, err = parseJSON(input)
	case FormatNDJSON:
		tags, err = parseNDJSON(input)
	case FormatYAML:
		tags, err = parseYAML(input)
	case FormatTOML:
		tags, err = parseTOML(input)
	case FormatText:
		tags, err = parseText(input)
	default:
		return nil, fmt.Errorf("unsupported tag file format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return compact(tags), nil
}

// Detect guesses the format of input.
func Detect(input string) Format {
	lines := strings.Split(input, "\n")
	if isLikelyNDJSON(lines) {
		return FormatNDJSON
	}
	if isLikelyTOML(lines) {
		return FormatTOML
	}
	if strings.HasPrefix(input, "{") || strings.HasPrefix(input, "[") {
		return FormatJSON
	}
	if isLikelyYAML(lines) {
		return FormatYAML
	}
	return FormatText
}

func parseJSON(input string) ([]Tag, error) {
	if strings.HasPrefix(input, "{") {
		var doc tagDocument
		if err := json.Unmarshal([]byte(input), &doc); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		return doc.Tags, nil
	}
	var tags []Tag
	if err := json.Unmarshal([]byte(input), &tags); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return tags, nil
}

func parseNDJSON(input string) ([]Tag, error) {
	var tags []Tag
	for i, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var t Tag
		if err := json.Unmarshal([]byte(line), &t); err != nil {
			return nil, fmt.Errorf("invalid JSON on line %d: %w", i+1, err)
		}
		tags = append(tags, t)
	}
	return tags, nil
}

func parseYAML(input string) ([]Tag, error) {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(input), &node); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	root := node.Content[0]
	if root.Kind == yaml.MappingNode {
		var doc tagDocument
		if err := root.Decode(&doc); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		return doc.Tags, nil
	}
	var tags []Tag
	if err := root.Decode(&tags); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return tags, nil
}

func parseTOML(input string) ([]Tag, error) {
	var doc tagDocument
	if err := toml.Unmarshal([]byte(input), &doc); err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}
	return doc.Tags, nil
}

// parseText reads one tag per line: name, then an optional count and type.
// Lines starting with # are comments.
func parseText(input string) ([]Tag, error) {
	var tags []Tag
	for i, line := range strings.Split(input, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		t := Tag{Name: fields[0]}
		if len(fields) > 1 {
			n, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid count %q", i+1, fields[1])
			}
			t.Total = n
		}
		if len(fields) > 2 {
			t.Type = fields[2]
		}
		tags = append(tags, t)
	}
	return tags, nil
}

func compact(tags []Tag) []Tag {
	out := tags[:0]
	for _, t := range tags {
		t.Name = strings.TrimSpace(t.Name)
		if t.Name == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

// isLikelyNDJSON requires several lines and a majority of JSON objects.
func isLikelyNDJSON(lines []string) bool {
	objects, nonEmpty := 0, 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonEmpty++
		if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
			objects++
		}
	}
	return nonEmpty > 1 && objects > nonEmpty/2
}

// isLikelyTOML looks for [section] headers or mostly key = value lines.
func isLikelyTOML(lines []string) bool {
	sections, pairs, nonEmpty := 0, 0, 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmpty++
		if tomlSection.MatchString(line) {
			sections++
		}
		if tomlKeyValue.MatchString(line) {
			pairs++
		}
	}
	return sections > 0 || (nonEmpty > 0 && pairs > nonEmpty/2)
}

func isLikelyYAML(lines []string) bool {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "---") || strings.Contains(trimmed, ": ") || strings.HasSuffix(trimmed, ":")
	}
	return false
}
