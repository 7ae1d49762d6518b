package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/ahi/lsp"
)

func newLSPCmd(a *app) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.loadGrammar("")
			if err != nil {
				return err
			}
			s, err := a.newSuggester(g, "")
			if err != nil {
				return err
			}
			server := lsp.NewServer(g, s, lsp.Options{
				MaxResults: a.cfg.Server.MaxResults,
				Timeout:    a.cfg.Suggest.Timeout.Duration,
				Version:    version,
				Debug:      a.verbosity > 1,
			})
			if address != "" {
				return server.RunTCP(address)
			}
			return server.RunStdio()
		},
	}

	cmd.Flags().StringVar(&address, "tcp", "", "listen on a TCP address instead of stdio")

	return cmd
}
