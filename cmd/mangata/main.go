package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

var log = commonlog.GetLogger("mangata")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := newConfig()

	rootCmd := &cobra.Command{
		Use:           "mangata",
		Short:         "A source-preserving AsciiDoc block parser",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.load(); err != nil {
				return err
			}
			// -1 logs warnings and above, each -v adds a level
			commonlog.Configure(cfg.v.GetInt("verbose")-1, nil)
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", defaultConfigFile, "config file (yaml, toml or json)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "increase log verbosity")
	cfg.bind(rootCmd.PersistentFlags(), "config", "verbose")

	rootCmd.AddCommand(newParseCmd(cfg))
	rootCmd.AddCommand(newAttrlistCmd())
	rootCmd.AddCommand(newCheckCmd(cfg))
	rootCmd.AddCommand(newLSPCmd(cfg))
	rootCmd.AddCommand(newUICmd(cfg))

	return rootCmd
}
