package cmd_serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rskv-p/searchlab/pkg/x_db"
	"github.com/rskv-p/searchlab/pkg/x_log"
	"github.com/rskv-p/searchlab/servs/s_search/search_api"
	"github.com/rskv-p/searchlab/servs/s_search/search_cfg"
	"github.com/rskv-p/searchlab/servs/s_search/search_serv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var configPath string

var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search structures over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := search_cfg.Load(configPath)
		if err != nil {
			return err
		}
		x_log.InitWithConfig(&cfg.Log, "searchlab")
		defer x_log.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return Run(ctx, cfg)
	},
}

func init() {
	Cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (default $SEARCH_CFG or ./searchlab.json)")
}

// Run wires the journal, hub and optional bus around a service and serves
// until ctx is done.
func Run(ctx context.Context, cfg *search_cfg.Config) error {
	log := x_log.New("serve")

	db, err := x_db.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer x_db.Close(db)

	journal, err := search_serv.NewJournal(db)
	if err != nil {
		return err
	}
	if err := cfg.Auth.Validate(); err != nil {
		return err
	}
	if cfg.Auth.Enabled {
		if err := search_serv.EnsureAdmin(db, cfg.Auth.Admin, cfg.Auth.Password); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}

	svc := search_serv.New(cfg.Tree)
	hub := search_api.NewHub()
	defer hub.Close()

	onChange := []search_serv.HookFunc{
		journal.Hook(func(err error) { log.Warn().Err(err).Msg("journal write failed") }),
		hub.Hook(),
	}

	bus, err := openBus(cfg.NATS)
	if err != nil {
		return err
	}
	if bus != nil {
		defer bus.Close()
		if err := bus.Serve(svc); err != nil {
			return fmt.Errorf("bus serve: %w", err)
		}
		onChange = append(onChange, bus.Hook())
		log.Info().Str("url", bus.URL()).Str("subject", cfg.NATS.Subject).Msg("event bus connected")
	}

	svc.SetHooks(search_serv.Hooks{
		OnChange: search_serv.Fanout(onChange...),
		OnSearch: hub.Hook(),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return search_api.Serve(gctx, cfg.HTTPAddress, search_api.NewRouter(*cfg, svc, journal, hub))
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		return nil
	})
	return g.Wait()
}

// openBus returns nil when NATS is not configured.
func openBus(cfg search_cfg.NATSConfig) (*search_serv.Bus, error) {
	switch {
	case cfg.Embedded:
		return search_serv.NewEmbeddedBus(cfg.Port, cfg.Subject)
	case cfg.URL != "":
		return search_serv.Connect(cfg.URL, cfg.Subject)
	default:
		return nil, nil
	}
}
