package cmd

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/tagq/internal/completion"
	"github.com/oakwood-commons/tagq/internal/config"
	"github.com/oakwood-commons/tagq/internal/formatter"
	"github.com/oakwood-commons/tagq/internal/limiter"
	"github.com/oakwood-commons/tagq/internal/tagserver"
	"github.com/oakwood-commons/tagq/pkg/core"
	"github.com/oakwood-commons/tagq/pkg/loader"
	"github.com/oakwood-commons/tagq/pkg/logger"
	"github.com/oakwood-commons/tagq/pkg/settings"
	"github.com/oakwood-commons/tagq/pkg/tui"
)

var (
	interactive   bool
	output        string
	mode          string
	endpoint      string
	tagsFile      string
	timeout       time.Duration
	debounce      time.Duration
	configFile    string
	debug         bool
	noColor       bool
	logFile       string
	outputWidth   int
	pick          int
	limitRecords  int
	offsetRecords int
	tailRecords   int
)

var (
	rootCtx   = context.Background()
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "tagq [phrase]",
	Short: "tagq - boolean tag query autocomplete",
	Long: `tagq completes booru-style tag queries. Quoted text is a tag, everything
outside quotes is an operator position (AND, OR, XOR, IFF, IMP, -, parentheses).

Without -i it prints the suggestions for the end of the phrase. With -i it
opens a search box with a live dropdown and prints the submitted query.`,
	Example: "\n  tagq '\"blu'\n  tagq '\"blue_sky\" a' -o json\n  tagq '\"blue_sky\" AND \"red' --pick 1\n  tagq -i --tags-file tags.yaml\n  tagq serve --tags-file tags.yaml\n",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		run := settings.NewCliParams()
		run.MinLogLevel = settings.DebugLevel(debug)
		run.LogFile = logFile
		run.ConfigFile = configFile
		run.Interactive = interactive
		run.NoColor = noColor || (!interactive && !isTerminalWriter(cmd.OutOrStdout()))

		out, err := logOutput(run)
		if err != nil {
			return err
		}
		lgr := logger.Setup(logger.Options{Level: run.MinLogLevel, Output: out})
		lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())
		rootCtx = settings.IntoContext(logger.WithLogger(context.Background(), lgr), run)
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if logCloser != nil {
			_ = logCloser.Close()
			logCloser = nil
		}
	},
	RunE: runRoot,
}

// logOutput picks the log sink: the --log-file when given, nothing while the
// search box owns the terminal, stderr otherwise.
func logOutput(run *settings.Run) (io.Writer, error) {
	if run.LogFile != "" {
		f, err := os.OpenFile(run.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		logCloser = f
		return f, nil
	}
	if run.Interactive {
		return io.Discard, nil
	}
	return os.Stderr, nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !interactive {
		return cmd.Help()
	}
	phrase := ""
	if len(args) == 1 {
		phrase = args[0]
	}

	limitCfg := limiter.Config{Limit: limitRecords, Offset: offsetRecords, Tail: tailRecords}
	if err := limitCfg.Validate(); err != nil {
		return err
	}
	format, err := formatter.ParseFormat(output)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	engine, err := newEngine(cfg, tagsFile)
	if err != nil {
		return err
	}

	if interactive {
		return runInteractive(cmd, engine, cfg, phrase)
	}

	rows, err := engine.Suggest(rootCtx, phrase)
	if err != nil {
		return err
	}
	rows = limiter.Apply(limitCfg, rows)

	if pick > 0 {
		if pick > len(rows) {
			return fmt.Errorf("--pick %d: only %d suggestions for %q", pick, len(rows), phrase)
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), engine.Insert(phrase, rows[pick-1]))
		return err
	}

	run := settings.FromContextOrDefault(rootCtx)
	applyTableTheme(cfg.Theme)
	return formatter.Render(cmd.OutOrStdout(), format, rows, formatter.Options{NoColor: run.NoColor, Width: outputWidth})
}

func runInteractive(cmd *cobra.Command, engine *core.Engine, cfg config.Config, phrase string) error {
	tcfg := tui.FromConfig(cfg)
	tcfg.Initial = phrase
	tcfg.NoColor = settings.FromContextOrDefault(rootCtx).NoColor
	tcfg.Save = saveSearch

	opts, cleanup := getProgramOptions()
	defer cleanup()

	submitted, err := tui.Run(rootCtx, engine, tcfg, opts...)
	if err != nil {
		return err
	}
	if submitted != "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), submitted)
	}
	return err
}

func saveSearch(name, q string) error {
	path, err := config.SearchesPath()
	if err != nil {
		return err
	}
	return config.SaveSearch(path, name, q)
}

// loadConfig merges the config file with the flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(config.ResolvePath(configFile))
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.Client.Endpoint = endpoint
	}
	if flags.Changed("mode") {
		cfg.Client.Mode = mode
	}
	if flags.Changed("timeout") {
		cfg.Client.Timeout = config.Duration(timeout)
	}
	if flags.Changed("debounce") {
		cfg.Autocomplete.Debounce = config.Duration(debounce)
	}
	return cfg, cfg.Validate()
}

// newEngine looks tags up in path when given, otherwise at the configured
// endpoint.
func newEngine(cfg config.Config, path string) (*core.Engine, error) {
	m, err := completion.ParseMode(cfg.Client.Mode)
	if err != nil {
		return nil, err
	}
	opts := []core.Option{core.WithMode(m)}
	if path != "" {
		tags, err := loader.LoadTags(path)
		if err != nil {
			return nil, err
		}
		idx := tagserver.NewIndex(tags, cfg.Server.Fuzzy)
		opts = append(opts, core.WithIndex(tagserver.Local{Index: idx, MaxTags: cfg.Server.MaxTags}))
	} else {
		opts = append(opts, core.WithEndpoint(cfg.Client.Endpoint, cfg.Client.Timeout.Std()))
	}
	return core.New(opts...)
}

func applyTableTheme(th config.ThemeConfig) {
	formatter.SetTableTheme(formatter.TableColors{
		HeaderFG:       colorOrNil(th.Prompt),
		TagColor:       colorOrNil(th.Text),
		CountColor:     colorOrNil(th.Count),
		OperatorColor:  colorOrNil(th.Operator),
		SeparatorColor: colorOrNil(th.Border),
	})
}

func colorOrNil(s string) color.Color {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return lipgloss.Color(s)
}

func init() { //nolint:gochecknoinits
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config-file", "", "path to a YAML or TOML config file")
	pf.BoolVar(&debug, "debug", false, "log debug output")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
	pf.BoolVar(&noColor, "no-color", false, "disable color output")

	f := rootCmd.Flags()
	f.BoolVarP(&interactive, "interactive", "i", false, "open the interactive search box")
	f.StringVarP(&output, "output", "o", "table", "output format: table|json|yaml|toml|html")
	f.StringVar(&mode, "mode", "", "completion mode: advanced|simple (default from config)")
	f.StringVar(&endpoint, "endpoint", "", "tag autocomplete endpoint (default from config)")
	f.StringVar(&tagsFile, "tags-file", "", "complete from a local tag file instead of the endpoint")
	f.DurationVar(&timeout, "timeout", 0, "tag lookup timeout (default from config)")
	f.DurationVar(&debounce, "debounce", 0, "minimum delay between lookups in the search box (default from config)")
	f.IntVar(&outputWidth, "width", 0, "table width in columns (0 = terminal width)")
	f.IntVar(&pick, "pick", 0, "print the phrase with the Nth suggestion inserted")
	f.IntVar(&limitRecords, "limit", 0, "limit the number of suggestions printed")
	f.IntVar(&offsetRecords, "offset", 0, "skip the first N suggestions")
	f.IntVar(&tailRecords, "tail", 0, "print the last N suggestions (mutually exclusive with --limit; ignores --offset)")

	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.AddCommand(versionCmd, classifyCmd, serveCmd, configCmd, searchesCmd)
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
