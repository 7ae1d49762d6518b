package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dhamidi/ahi/ebnf/grammar"
	"github.com/dhamidi/ahi/ebnf/parse"
)

func newParseCmd(a *app) *cobra.Command {
	var showChart bool

	cmd := &cobra.Command{
		Use:   "parse [input]",
		Short: "Check that input is a sentence of the grammar and print its syntax tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := inputArg(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			g, err := a.loadGrammar("")
			if err != nil {
				return err
			}
			return runParse(cmd.OutOrStdout(), g, input, showChart)
		},
	}

	cmd.Flags().BoolVar(&showChart, "chart", false, "print the Earley chart")

	return cmd
}

func runParse(w io.Writer, g *grammar.Grammar, input string, showChart bool) error {
	tokens, err := g.Scan([]byte(input), "").Tokenize()
	if err != nil {
		return fmt.Errorf("tokenize: %w", err)
	}

	parser := parse.NewEarleyParser(g, tokens)
	root, err := parser.Parse("")
	if showChart {
		for _, set := range parser.Chart() {
			fmt.Fprintf(w, "== %d\n", set.Position())
			for _, item := range set.Items() {
				fmt.Fprintf(w, "  %s\n", parser.Describe(item))
			}
		}
	}
	if err != nil {
		return err
	}
	return root.Print(w)
}
