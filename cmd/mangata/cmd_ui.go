package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhamidi/mangata/ui"
	"github.com/dhamidi/mangata/workspace"
)

func newUICmd(cfg *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Start the web playground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.bind(cmd.Flags(), "addr", "attribute", "attributes-file", "max-depth")
			opts, err := cfg.parseOptions()
			if err != nil {
				return err
			}

			var ws *workspace.Workspace
			if root, _ := cmd.Flags().GetString("root"); root != "" {
				ws = workspace.New(root, opts...)
				watcher := workspace.NewFileWatcher(ws, 2*time.Second)
				watcher.Start()
				defer watcher.Stop()
			}

			server, err := ui.NewServer(ws, opts...)
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}

			addr := cfg.v.GetString("addr")
			displayAddr := addr
			if strings.HasPrefix(addr, ":") {
				displayAddr = "localhost" + addr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Starting server at http://%s\n", displayAddr)
			return http.ListenAndServe(addr, server)
		},
	}

	cmd.Flags().String("addr", ":8080", "address to listen on")
	cmd.Flags().String("root", "", "serve the AsciiDoc files below this directory")
	addParseFlags(cmd)

	return cmd
}
