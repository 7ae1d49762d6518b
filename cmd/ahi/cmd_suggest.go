package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhamidi/ahi/suggest"
)

func newSuggestCmd(a *app) *cobra.Command {
	var (
		casePref string
		timeout  time.Duration
		labels   bool
	)

	cmd := &cobra.Command{
		Use:   "suggest [input]",
		Short: "Print the completions for input",
		Long: `Print the texts that can be appended to input, one per line. Each
either completes the partial token at the end of input or adds the next
token. Without an argument the input is read from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := inputArg(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			g, err := a.loadGrammar("")
			if err != nil {
				return err
			}
			s, err := a.newSuggester(g, casePref)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("timeout") {
				timeout = a.cfg.Suggest.Timeout.Duration
			}
			return runSuggest(cmd.Context(), cmd.OutOrStdout(), s, input, timeout, labels)
		},
	}

	cmd.Flags().StringVar(&casePref, "case", "", "case preference: LOWER, UPPER or BOTH (default from config)")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 2*time.Second, "give up after this long (0 disables)")
	cmd.Flags().BoolVarP(&labels, "labels", "l", false, "print whole tokens instead of the text to append")

	return cmd
}

func runSuggest(ctx context.Context, w io.Writer, s *suggest.Suggester, input string, timeout time.Duration, labels bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	suggestions, err := s.SuggestContext(ctx, input)
	if err != nil {
		return err
	}

	partial := ""
	if labels {
		partial = s.Partial(input)
	}
	for _, tail := range suggestions {
		if _, err := fmt.Fprintln(w, partial+tail); err != nil {
			return err
		}
	}
	return nil
}
