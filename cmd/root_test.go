package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/tagq/internal/completion"
	"github.com/oakwood-commons/tagq/pkg/settings"
)

const sampleTags = `- tag: blue_sky
  total: 40
  type: general
- tag: blue_eyes
  total: 12
  type: general
- tag: blonde_hair
  total: 30
  type: general
- tag: red_hair
  total: 25
  type: general
`

func writeTags(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tags.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleTags), 0o600))
	return path
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runCLI executes tagq with args, isolated from the user's config, and
// returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := Execute()
	return out.String(), err
}

func TestCLI_NoInputShowsHelp(t *testing.T) {
	out, err := runCLI(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "tagq [phrase]")
	assert.Contains(t, out, "Examples:")
}

func TestCLI_LiteralSuggestionsJSON(t *testing.T) {
	out, err := runCLI(t, `"blu`, "--tags-file", writeTags(t), "-o", "json")
	require.NoError(t, err)

	var rows []completion.Suggestion
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "blue_sky", rows[0].Tag)
	assert.Equal(t, int64(40), rows[0].Total.Count)
	assert.Equal(t, "blue_eyes", rows[1].Tag)
}

func TestCLI_OperatorSuggestionsTable(t *testing.T) {
	out, err := runCLI(t, `"blue_sky" i`, "--tags-file", writeTags(t), "--no-color", "--width", "60")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "TAG")
	assert.Contains(t, lines[1], "IFF")
	assert.Contains(t, lines[1], "If and only if")
	assert.Contains(t, lines[2], "IMP")
	assert.NotContains(t, out, "\x1b[")
}

func TestCLI_Pick(t *testing.T) {
	tags := writeTags(t)

	out, err := runCLI(t, `"blue_sky" AND "bl`, "--tags-file", tags, "--pick", "2")
	require.NoError(t, err)
	assert.Equal(t, "\"blue_sky\" AND \"blonde_hair\"\n", out)

	out, err = runCLI(t, `"blue_sky" a`, "--tags-file", tags, "--pick", "1")
	require.NoError(t, err)
	assert.Equal(t, "\"blue_sky\" AND \n", out)

	_, err = runCLI(t, `"zzz`, "--tags-file", tags, "--pick", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only 0 suggestions")
}

func TestCLI_SimpleMode(t *testing.T) {
	out, err := runCLI(t, "red_hair -bl", "--tags-file", writeTags(t), "--mode", "simple", "--pick", "1")
	require.NoError(t, err)
	assert.Equal(t, "red_hair blue_sky \n", out)
}

func TestCLI_Limiting(t *testing.T) {
	tags := writeTags(t)
	names := func(out string) []string {
		var rows []completion.Suggestion
		require.NoError(t, json.Unmarshal([]byte(out), &rows))
		var got []string
		for _, r := range rows {
			got = append(got, r.Tag)
		}
		return got
	}

	out, err := runCLI(t, `"b`, "--tags-file", tags, "-o", "json", "--limit", "2")
	require.NoError(t, err)
	assert.Equal(t, []string{"blue_sky", "blonde_hair"}, names(out))

	out, err = runCLI(t, `"b`, "--tags-file", tags, "-o", "json", "--offset", "1", "--limit", "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"blonde_hair"}, names(out))

	out, err = runCLI(t, `"b`, "--tags-file", tags, "-o", "json", "--tail", "1", "--offset", "2")
	require.NoError(t, err)
	assert.Equal(t, []string{"blue_eyes"}, names(out))

	_, err = runCLI(t, `"b`, "--tags-file", tags, "--limit", "1", "--tail", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestCLI_Endpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tags/autocomplete/red", r.URL.Path)
		_, _ = w.Write([]byte(`[{"tag":"red_hair","total":"25","type":"general"}]`))
	}))
	defer srv.Close()

	out, err := runCLI(t, `"red`, "--endpoint", srv.URL+"/tags/autocomplete/", "-o", "yaml")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "red_hair", rows[0]["tag"])
}

func TestCLI_EndpointFailureIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	out, err := runCLI(t, `"red`, "--endpoint", srv.URL+"/", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestCLI_HTMLOutput(t *testing.T) {
	out, err := runCLI(t, `"red`, "--tags-file", writeTags(t), "-o", "html")
	require.NoError(t, err)
	assert.Equal(t, `<li class="option tag-type-general"><span class="name">red_hair</span><span class="count">25</span></li>`+"\n", out)
}

func TestCLI_InvalidFlags(t *testing.T) {
	_, err := runCLI(t, `"red`, "-o", "csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")

	_, err = runCLI(t, `"red`, "--mode", "fancy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client.mode")

	_, err = runCLI(t, `"red`, "--endpoint", "ftp://example.com/")
	require.Error(t, err)
}

func TestCLI_ConfigFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[client]\nmode = \"simple\"\n"), 0o600))

	out, err := runCLI(t, "bl", "--config-file", cfgPath, "--tags-file", writeTags(t), "--pick", "1")
	require.NoError(t, err)
	assert.Equal(t, "blue_sky \n", out)
}

func TestLogOutputUsesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagq.log")
	out, err := logOutput(&settings.Run{LogFile: path})
	require.NoError(t, err)
	require.NotNil(t, logCloser)
	_, err = out.Write([]byte("line\n"))
	require.NoError(t, err)
	require.NoError(t, logCloser.Close())
	logCloser = nil

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line\n", string(data))
}

func TestLogOutputInteractiveDiscards(t *testing.T) {
	out, err := logOutput(&settings.Run{Interactive: true})
	require.NoError(t, err)
	assert.Equal(t, io.Discard, out)
}

func TestCLI_Version(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "tagq v0.0.0-nightly (commit unknown"), out)
}

func TestCLI_TableIsPlainWhenNotATerminal(t *testing.T) {
	out, err := runCLI(t, `"blue_sky" i`, "--tags-file", writeTags(t), "--width", "60")
	require.NoError(t, err)
	assert.Contains(t, out, "IFF")
	assert.NotContains(t, out, "\x1b[")
	assert.True(t, settings.FromContextOrDefault(rootCtx).NoColor)
}

func TestCLI_TerminalOutputKeepsColorSetting(t *testing.T) {
	orig := termIsTerminal
	t.Cleanup(func() { termIsTerminal = orig })
	termIsTerminal = func(int) bool { return true }

	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()

	resetFlags(rootCmd)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	rootCmd.SetOut(f)
	rootCmd.SetArgs([]string{`"blue_sky" i`, "--tags-file", writeTags(t)})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	require.NoError(t, Execute())
	assert.False(t, settings.FromContextOrDefault(rootCtx).NoColor)

	resetFlags(rootCmd)
	rootCmd.SetArgs([]string{`"blue_sky" i`, "--tags-file", writeTags(t), "--no-color"})
	require.NoError(t, Execute())
	assert.True(t, settings.FromContextOrDefault(rootCtx).NoColor)
}
