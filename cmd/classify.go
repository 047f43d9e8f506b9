package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/tagq/internal/formatter"
	"github.com/oakwood-commons/tagq/internal/query"
)

var classifyOutput string

// classification describes how the completion engine reads a phrase.
type classification struct {
	Phrase     string           `json:"phrase" yaml:"phrase" toml:"phrase"`
	Position   string           `json:"position" yaml:"position" toml:"position"`
	QuoteCount int              `json:"quote_count" yaml:"quote_count" toml:"quote_count"`
	Fragment   string           `json:"fragment,omitempty" yaml:"fragment,omitempty" toml:"fragment,omitempty"`
	Word       string           `json:"word" yaml:"word" toml:"word"`
	Operators  []query.Operator `json:"operators,omitempty" yaml:"operators,omitempty" toml:"operators,omitempty"`
	Tokens     []tokenView      `json:"tokens,omitempty" yaml:"tokens,omitempty" toml:"tokens,omitempty"`
	Error      string           `json:"error,omitempty" yaml:"error,omitempty" toml:"error,omitempty"`
}

type tokenView struct {
	Kind  string `json:"kind" yaml:"kind" toml:"kind"`
	Value string `json:"value" yaml:"value" toml:"value"`
	Start int    `json:"start" yaml:"start" toml:"start"`
	End   int    `json:"end" yaml:"end" toml:"end"`
}

func classifyPhrase(phrase string) classification {
	c := classification{
		Phrase:     phrase,
		Position:   query.Classify(phrase).String(),
		QuoteCount: query.QuoteCount(phrase),
	}
	if query.Classify(phrase) == query.PositionLiteral {
		c.Fragment = query.LiteralFragment(phrase)
		c.Word = query.LastToken(c.Fragment)
	} else {
		c.Word = query.OperatorWord(phrase)
		c.Operators = query.MatchOperators(c.Word)
	}

	tokens, err := query.Lex(phrase)
	if err != nil {
		c.Error = err.Error()
	}
	for _, tok := range tokens {
		c.Tokens = append(c.Tokens, tokenView{Kind: tok.Kind.String(), Value: tok.Value, Start: tok.Start, End: tok.End})
	}
	return c
}

var classifyCmd = &cobra.Command{
	Use:   "classify <phrase>",
	Short: "Show how a phrase is read: caret position, current word, operators and tokens",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := classifyPhrase(args[0])
		out := cmd.OutOrStdout()
		switch classifyOutput {
		case "yaml", "":
			s, err := formatter.EncodeYAML(c, formatter.YAMLFormatOptions{})
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, s)
			return err
		case "json":
			data, err := json.MarshalIndent(c, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, string(data))
			return err
		case "toml":
			data, err := toml.Marshal(c)
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		default:
			return fmt.Errorf("invalid output for classify: %s (use yaml|json|toml)", classifyOutput)
		}
	},
}

func init() { //nolint:gochecknoinits
	classifyCmd.Flags().StringVarP(&classifyOutput, "output", "o", "yaml", "output format: yaml|json|toml")
}
