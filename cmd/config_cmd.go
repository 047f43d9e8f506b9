package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/tagq/internal/config"
	"github.com/oakwood-commons/tagq/internal/formatter"
)

var configOutput string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage tagq configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the merged configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(config.ResolvePath(configFile))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		switch configOutput {
		case "yaml", "":
			s, err := formatter.EncodeYAML(cfg, formatter.YAMLFormatOptions{})
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, s)
			return err
		case "toml":
			data, err := toml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		case "json":
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, string(data))
			return err
		default:
			return fmt.Errorf("invalid output for config: %s (use yaml|toml|json)", configOutput)
		}
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := config.ResolvePath(configFile)
		if path == "" {
			path = "(built-in defaults)"
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
		return err
	},
}

var configDefaultCmd = &cobra.Command{
	Use:   "default",
	Short: "Print the built-in default configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := cmd.OutOrStdout().Write(config.DefaultConfigYAML())
		return err
	},
}

func init() { //nolint:gochecknoinits
	configCmd.PersistentFlags().StringVarP(&configOutput, "output", "o", "yaml", "output format: yaml|toml|json")
	configCmd.AddCommand(configGetCmd, configPathCmd, configDefaultCmd)
}
