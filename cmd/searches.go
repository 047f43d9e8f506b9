package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/tagq/internal/config"
	"github.com/oakwood-commons/tagq/internal/query"
)

var searchesCmd = &cobra.Command{
	Use:   "searches",
	Short: "List saved searches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := config.SearchesPath()
		if err != nil {
			return err
		}
		searches, err := config.LoadSearches(path)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(searches) == 0 {
			_, err := fmt.Fprintln(out, "no saved searches (press ctrl+s in tagq -i to save one)")
			return err
		}
		width := 0
		for _, s := range searches {
			width = max(width, runewidth.StringWidth(s.Name))
		}
		for _, s := range searches {
			if _, err := fmt.Fprintf(out, "%s  %s\n", runewidth.FillRight(s.Name, width), s.Query); err != nil {
				return err
			}
		}
		return nil
	},
}

var searchesSaveCmd = &cobra.Command{
	Use:   "save <name> <query>",
	Short: "Save a query under a name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		phrase := config.NormalizeSearch(args[1])
		if phrase == "" {
			return config.ErrEmptySearch
		}
		if _, err := query.Lex(phrase); err != nil {
			return fmt.Errorf("invalid query %q: %w", phrase, err)
		}
		path, err := config.SearchesPath()
		if err != nil {
			return err
		}
		if err := config.SaveSearch(path, args[0], phrase); err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "saved %q\n", args[0])
		return err
	},
}

var searchesDeleteYes bool

var searchesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved search",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.SearchesPath()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !searchesDeleteYes {
			if _, err := fmt.Fprintf(out, "Delete saved search %q? [y/N] ", args[0]); err != nil {
				return err
			}
			if !confirmed(cmd) {
				_, err := fmt.Fprintln(out, "kept")
				return err
			}
		}
		if err := config.DeleteSearch(path, args[0]); err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "deleted %q\n", args[0])
		return err
	},
}

// confirmed reads one answer line from the command's input.
func confirmed(cmd *cobra.Command) bool {
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func init() { //nolint:gochecknoinits
	searchesDeleteCmd.Flags().BoolVarP(&searchesDeleteYes, "yes", "y", false, "delete without asking")
	searchesCmd.AddCommand(searchesSaveCmd, searchesDeleteCmd)
}
