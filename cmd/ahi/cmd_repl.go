package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/dhamidi/ahi/ebnf/grammar"
	"github.com/dhamidi/ahi/suggest"
)

const historyFile = ".ahi_history"

func newReplCmd(a *app) *cobra.Command {
	var casePref string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Type sentences of the grammar with tab completion",
		Long: `Start an interactive prompt. Tab completes the input with the grammar's
suggestions; Enter parses the line and prints its syntax tree or the
syntax error. Lines starting with ":" are commands:

  :tokens <input>  tokenize input
  :quit            leave the prompt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.loadGrammar("")
			if err != nil {
				return err
			}
			s, err := a.newSuggester(g, casePref)
			if err != nil {
				return err
			}
			return runRepl(g, s, a.cfg.Suggest.Timeout.Duration, a.cfg.Server.MaxResults)
		},
	}

	cmd.Flags().StringVar(&casePref, "case", "", "case preference: LOWER, UPPER or BOTH (default from config)")

	return cmd
}

func runRepl(g *grammar.Grammar, s *suggest.Suggester, timeout time.Duration, maxResults int) error {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetTabCompletionStyle(liner.TabPrints)
	ln.SetWordCompleter(wordCompleter(s, timeout, maxResults))

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Printf("ahi %s, start production %s. Tab completes, :quit exits.\n", version, g.Start())

	for {
		line, err := ln.Prompt("> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		if quit := handleReplLine(os.Stdout, g, line); quit {
			return nil
		}
	}
}

// handleReplLine runs a command or parses a sentence. It reports whether the
// prompt should end.
func handleReplLine(w io.Writer, g *grammar.Grammar, line string) (quit bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, ":") {
		if err := runParse(w, g, line, false); err != nil {
			fmt.Fprintln(w, err)
		}
		return false
	}

	command, rest, _ := strings.Cut(trimmed, " ")
	switch command {
	case ":quit", ":q":
		return true
	case ":tokens":
		if err := printTokens(w, g, rest, true); err != nil {
			fmt.Fprintln(w, err)
		}
	default:
		fmt.Fprintf(w, "unknown command %s. Type :quit to exit.\n", command)
	}
	return false
}

// wordCompleter completes the text before the cursor. The head liner keeps
// is the input up to the partial token, so each completion is a whole token.
func wordCompleter(s *suggest.Suggester, timeout time.Duration, maxResults int) liner.WordCompleter {
	return func(line string, pos int) (string, []string, string) {
		runes := []rune(line)
		if pos > len(runes) {
			pos = len(runes)
		}
		before, after := string(runes[:pos]), string(runes[pos:])

		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		suggestions, err := s.SuggestContext(ctx, before)
		if err != nil {
			log.Debugf("completion: %v", err)
			return before, nil, after
		}
		if maxResults > 0 && len(suggestions) > maxResults {
			suggestions = suggestions[:maxResults]
		}

		partial := s.Partial(before)
		completions := make([]string, len(suggestions))
		for i, tail := range suggestions {
			completions[i] = partial + tail
		}
		return before[:len(before)-len(partial)], completions, after
	}
}
