package main

import (
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/ahi/atn"
	"github.com/dhamidi/ahi/ebnf/grammar"
)

func newEbnfCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ebnf",
		Short:         "EBNF grammar tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newEbnfCheckCmd(a))
	cmd.AddCommand(newEbnfCompileCmd(a))
	cmd.AddCommand(newEbnfDumpCmd(a))

	return cmd
}

// newEbnfCheckCmd verifies against the production given by the global
// --start flag; without it only the syntax is checked.
func newEbnfCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:           "check <file>",
		Short:         "Parse and verify an EBNF grammar file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			f, err := os.Open(filename)
			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}
			defer f.Close()

			g, err := ebnf.Parse(filename, f)
			if err != nil {
				printErrors(cmd.OutOrStdout(), err)
				return err
			}

			if a.start == "" {
				return nil
			}
			if err := ebnf.Verify(g, a.start); err != nil {
				printErrors(cmd.OutOrStdout(), err)
				return err
			}

			return nil
		},
	}
}

func newEbnfCompileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:           "compile <file>",
		Short:         "Compile a grammar and list its token kinds",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.loadGrammar(args[0])
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return err
			}
			return printKinds(cmd.OutOrStdout(), g)
		},
	}
}

func newEbnfDumpCmd(a *app) *cobra.Command {
	var lexer, parser bool

	cmd := &cobra.Command{
		Use:           "dump <file>",
		Short:         "Print the automata compiled from a grammar",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.loadGrammar(args[0])
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return err
			}
			if !lexer && !parser {
				lexer, parser = true, true
			}

			out := cmd.OutOrStdout()
			if lexer {
				fmt.Fprintln(out, "# lexer")
				if err := g.Lexer().Dump(out, atn.RuneLabel); err != nil {
					return err
				}
			}
			if parser {
				fmt.Fprintln(out, "# parser")
				if err := g.Parser().Dump(out, g.TokenName); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&lexer, "lexer", false, "dump the character automaton")
	cmd.Flags().BoolVar(&parser, "parser", false, "dump the token automaton")

	return cmd
}

// printKinds lists one token kind per line.
func printKinds(w io.Writer, g *grammar.Grammar) error {
	hidden := make(map[string]bool)
	for _, name := range g.Hidden() {
		hidden[name] = true
	}

	fmt.Fprintf(w, "start %s\n", g.Start())
	for k := 1; k <= g.Kinds(); k++ {
		name := g.TokenName(k)
		class := "token"
		switch {
		case hidden[name]:
			class = "hidden"
		case name[0] == '"':
			class = "literal"
		}
		if _, err := fmt.Fprintf(w, "%3d %-8s %s\n", k, class, name); err != nil {
			return err
		}
	}
	return nil
}

// errorCount returns the number of errors in an error list, or 1.
func errorCount(err error) int {
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		return v.Len()
	}
	return 1
}

func printErrors(w io.Writer, err error) {
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintln(w, v.Index(i).Interface())
		}
	} else {
		fmt.Fprintln(w, err)
	}
}
