package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/ahi/ipc"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Answer msgpack completion requests on stdin and stdout",
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

			server := ipc.NewServer(s, os.Stdin, os.Stdout, ipc.Options{
				MaxResults: a.cfg.Server.MaxResults,
				Timeout:    a.cfg.Suggest.Timeout.Duration,
			})
			return server.Serve(cmd.Context())
		},
	}
}
