package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dhamidi/ahi/ebnf/grammar"
	"github.com/dhamidi/ahi/ebnflex"
)

func newTokensCmd(a *app) *cobra.Command {
	var showHidden bool

	cmd := &cobra.Command{
		Use:   "tokens [input]",
		Short: "Tokenize input and show what is left untokenized",
		Long: `Tokenize input with the grammar's lexer and print one token per line.
Scanning stops at the first character no token matches; the rest of the
input is printed as the untokenized remainder. Without an argument the
input is read from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := inputArg(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			g, err := a.loadGrammar("")
			if err != nil {
				return err
			}
			return printTokens(cmd.OutOrStdout(), g, input, showHidden)
		},
	}

	cmd.Flags().BoolVarP(&showHidden, "all", "a", false, "also print tokens on the hidden channel")

	return cmd
}

func printTokens(w io.Writer, g *grammar.Grammar, input string, showHidden bool) error {
	lexer := g.Scan([]byte(input), "")
	for {
		tok, err := lexer.NextToken()
		if errors.Is(err, io.EOF) {
			return nil
		}
		var scanErr *ebnflex.ScanError
		if errors.As(err, &scanErr) {
			fmt.Fprintf(w, "untokenized %q\n", input[scanErr.Position.Offset:])
			return nil
		}
		if err != nil {
			return err
		}
		if tok.Channel != 0 && !showHidden {
			continue
		}
		fmt.Fprintln(w, tok)
	}
}
