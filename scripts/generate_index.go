// Command generate_index renders README.md into <dist-dir>/index.html with a
// downloads table for the release archives and the query operator reference.
package main

import (
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/oakwood-commons/tagq/internal/query"
)

var archivePattern = regexp.MustCompile(`^tagq_([^_]+(?:-[^_]+)*)_(Darwin|Linux|Windows)_(arm64|x86_64)\.(?:tar\.gz|zip)$`)

var platformNames = map[string]string{
	"Darwin_arm64":   "macOS (Apple Silicon)",
	"Darwin_x86_64":  "macOS (Intel)",
	"Linux_arm64":    "Linux (ARM64)",
	"Linux_x86_64":   "Linux (x86_64)",
	"Windows_arm64":  "Windows (ARM64)",
	"Windows_x86_64": "Windows (x86_64)",
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <dist-dir>\n", os.Args[0])
		os.Exit(1)
	}
	distDir := os.Args[1]
	indexPath := filepath.Join(distDir, "index.html")

	readme, err := os.ReadFile("README.md")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading README.md: %v\n", err)
		os.Exit(1)
	}

	var names []string
	if entries, err := os.ReadDir(distDir); err == nil {
		for _, e := range entries {
			if !e.IsDir() {
				names = append(names, e.Name())
			}
		}
	}

	page := renderReadme(readme)
	page = replaceSection(page, "installation", installationHTML(names))
	page += operatorTableHTML(query.Operators())

	f, err := os.Create(indexPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating index.html: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	if err := writePage(f, page); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing index.html: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Generated %s\n", indexPath)
}

func renderReadme(md []byte) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank})
	return string(markdown.Render(p.Parse(md), renderer))
}

type download struct {
	Platform string
	Archive  string
}

// releaseDownloads picks one archive per platform from names and reports
// the release version.
func releaseDownloads(names []string) (string, []download) {
	version := "unknown"
	byPlatform := map[string]string{}
	for _, name := range names {
		m := archivePattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		version = m[1]
		key := m[2] + "_" + m[3]
		if _, seen := byPlatform[key]; !seen {
			byPlatform[key] = name
		}
	}

	keys := make([]string, 0, len(byPlatform))
	for k := range byPlatform {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]download, 0, len(keys))
	for _, k := range keys {
		out = append(out, download{Platform: platformNames[k], Archive: byPlatform[k]})
	}
	return version, out
}

func installationHTML(names []string) string {
	version, downloads := releaseDownloads(names)

	var sb strings.Builder
	sb.WriteString(`<h2 id="installation">Installation</h2>
<div class="downloads">
`)
	fmt.Fprintf(&sb, "  <h3>%s</h3>\n  <table class=\"download-table\">\n", html.EscapeString(version))
	for _, d := range downloads {
		fmt.Fprintf(&sb, "    <tr><td class=\"platform-name\">%s</td><td class=\"platform-links\"><a href=\"%s\">download</a></td></tr>\n",
			html.EscapeString(d.Platform), html.EscapeString(d.Archive))
	}
	sb.WriteString(`  </table>
</div>
<pre><code class="language-bash">tar -xzf tagq_*.tar.gz
sudo mv tagq /usr/local/bin/
</code></pre>
`)
	return sb.String()
}

// replaceSection swaps the h2 section with the given id, up to the next h2,
// for replacement. Pages without that section are returned unchanged.
func replaceSection(page, id, replacement string) string {
	start := strings.Index(page, `<h2 id="`+id+`">`)
	if start == -1 {
		return page
	}
	rest := page[start+1:]
	next := strings.Index(rest, `<h2 id="`)
	if next == -1 {
		return page[:start] + replacement
	}
	return page[:start] + replacement + rest[next:]
}

func operatorTableHTML(ops []query.Operator) string {
	var sb strings.Builder
	sb.WriteString(`<h2 id="operator-reference">Operator reference</h2>
<table class="operators">
  <tr><th>Keyword</th><th>Meaning</th></tr>
`)
	for _, op := range ops {
		fmt.Fprintf(&sb, "  <tr><td><code>%s</code></td><td>%s</td></tr>\n",
			html.EscapeString(op.Literal), html.EscapeString(op.Description))
	}
	sb.WriteString("</table>\n")
	return sb.String()
}

func writePage(w io.Writer, body string) error {
	_, err := fmt.Fprintf(w, `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>tagq - boolean tag query autocomplete</title>
  <style>
    body { font-family: system-ui, -apple-system, sans-serif; max-width: 900px; margin: 40px auto; padding: 0 20px; line-height: 1.6; color: #333; }
    h1 { color: #7c3aed; border-bottom: 2px solid #7c3aed; padding-bottom: 10px; }
    code { background: #f1f5f9; padding: 2px 6px; border-radius: 3px; font-family: Monaco, Menlo, monospace; font-size: 0.9em; }
    pre { background: #1e293b; color: #e2e8f0; padding: 16px; border-radius: 6px; overflow-x: auto; }
    pre code { background: none; color: inherit; padding: 0; }
    .downloads { background: #f5f3ff; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #7c3aed; }
    .download-table, .operators { border-collapse: collapse; }
    .download-table td, .operators td, .operators th { padding: 6px 8px; text-align: left; }
    .platform-name { font-weight: 500; width: 200px; }
  </style>
</head>
<body>
%s</body>
</html>
`, body)
	return err
}
