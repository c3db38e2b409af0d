package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/dhamidi/mangata/workspace"
)

func newLSPCmd(cfg *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the language server. It speaks over stdio unless --tcp or
--websocket is given, and publishes recovery diagnostics, document
symbols, folding ranges and hover information for AsciiDoc files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.bind(cmd.Flags(), "attribute", "attributes-file", "max-depth")
			opts, err := cfg.parseOptions()
			if err != nil {
				return err
			}

			server := workspace.NewLSPServer(version, opts...)
			server.PollInterval, _ = cmd.Flags().GetDuration("poll")

			if addr, _ := cmd.Flags().GetString("tcp"); addr != "" {
				return server.RunTCP(addr)
			}
			if addr, _ := cmd.Flags().GetString("websocket"); addr != "" {
				return server.RunWebSocket(addr)
			}
			return server.RunStdio()
		},
	}

	cmd.Flags().String("tcp", "", "listen for a client on this TCP address instead of stdio")
	cmd.Flags().String("websocket", "", "listen for a client on this WebSocket address instead of stdio")
	cmd.Flags().Duration("poll", 2*time.Second, "how often to check the workspace for changes (0 disables)")
	addParseFlags(cmd)

	return cmd
}
