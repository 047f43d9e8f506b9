package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/tagq/internal/config"
	"github.com/oakwood-commons/tagq/internal/tagserver"
	"github.com/oakwood-commons/tagq/pkg/loader"
	"github.com/oakwood-commons/tagq/pkg/logger"
)

var (
	serveAddr    string
	serveTags    string
	serveMaxTags int
	serveNoFuzzy bool
	serveOrigins []string

	// serveContext is replaced in tests to stop the server.
	serveContext = func(parent context.Context) (context.Context, context.CancelFunc) {
		return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	}
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a tag file at /tags/autocomplete/<tag> for local development",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(config.ResolvePath(configFile))
		if err != nil {
			return err
		}
		sc := serverConfig(cmd, cfg.Server)

		var tags []loader.Tag
		if sc.TagsFile != "" {
			if tags, err = loader.LoadTags(sc.TagsFile); err != nil {
				return err
			}
		}
		idx := tagserver.NewIndex(tags, sc.Fuzzy)

		ctx, stop := serveContext(rootCtx)
		defer stop()

		log := logger.ForComponent(ctx, "serve")
		if idx.Len() == 0 {
			log.Info("serving an empty index; pass --tags-file to load tags")
		}
		log.V(1).Info("tag index loaded", "file", sc.TagsFile, "tags", idx.Len(), "max_tags", sc.MaxTags, "fuzzy", sc.Fuzzy)

		srv := tagserver.New(ctx, idx, tagserver.Options{
			Addr:        sc.Addr,
			MaxTags:     sc.MaxTags,
			CORSOrigins: sc.CORSOrigins,
		})
		return srv.Serve(ctx)
	},
}

// serverConfig overlays the serve flags the user set on the configured
// server section.
func serverConfig(cmd *cobra.Command, sc config.ServerConfig) config.ServerConfig {
	flags := cmd.Flags()
	if flags.Changed("addr") {
		sc.Addr = serveAddr
	}
	if flags.Changed("tags-file") {
		sc.TagsFile = serveTags
	}
	if flags.Changed("max-tags") {
		sc.MaxTags = serveMaxTags
	}
	if flags.Changed("no-fuzzy") {
		sc.Fuzzy = !serveNoFuzzy
	}
	if flags.Changed("cors-origin") {
		sc.CORSOrigins = serveOrigins
	}
	return sc
}

func init() { //nolint:gochecknoinits
	f := serveCmd.Flags()
	f.StringVar(&serveAddr, "addr", ":8000", "listen address")
	f.StringVar(&serveTags, "tags-file", "", "tag file (json, ndjson, yaml, toml or text)")
	f.IntVar(&serveMaxTags, "max-tags", tagserver.DefaultMaxTags, "maximum tags returned per lookup")
	f.BoolVar(&serveNoFuzzy, "no-fuzzy", false, "disable the fuzzy fallback when no tag has the prefix")
	f.StringSliceVar(&serveOrigins, "cors-origin", nil, "allowed CORS origins (\"*\" allows all)")
}
