package cmd_repl

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rskv-p/searchlab/pkg/x_log"
	"github.com/rskv-p/searchlab/servs/s_search/search_cfg"
	"github.com/rskv-p/searchlab/servs/s_search/search_serv"

	"github.com/spf13/cobra"
)

var (
	configPath string
	kindName   string
)

// Cmd runs a local shell over an in-process service.
var Cmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive shell over local search structures",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := search_cfg.Load(configPath)
		if err != nil {
			return err
		}
		cfg.Log.ToFile = false
		x_log.InitWithConfig(&cfg.Log, "repl")
		defer x_log.Close()

		kind, err := search_serv.ParseKind(kindName)
		if err != nil {
			return err
		}
		sh := NewShell(search_serv.New(cfg.Tree), kind, cmd.OutOrStdout())
		return sh.Run(cmd.InOrStdin(), isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()))
	},
}

func init() {
	Cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (tree defaults)")
	Cmd.Flags().StringVarP(&kindName, "kind", "k", string(search_serv.KindLinear), "initial structure")
}
