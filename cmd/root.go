package cmd

import (
	"os"

	"github.com/rskv-p/searchlab/cmd/cmd_repl"
	"github.com/rskv-p/searchlab/cmd/cmd_search"
	"github.com/rskv-p/searchlab/cmd/cmd_serve"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "searchlab",
	Short:        "Search structures lab: slot stores, hash tables and tries",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(cmd_serve.Cmd)
	rootCmd.AddCommand(cmd_search.Cmd)
	rootCmd.AddCommand(cmd_repl.Cmd)
}
