package cli

import (
	"os"
	"time"

	"github.com/drewdunne/cursorbridge/internal/bridge"
	"github.com/drewdunne/cursorbridge/internal/config"
	"github.com/drewdunne/cursorbridge/internal/logging"
	"github.com/drewdunne/cursorbridge/internal/server"
	"github.com/spf13/cobra"
)

const journalCleanupInterval = time.Hour

// ServeCmd returns the command that runs the HTTP server.
func ServeCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the message server",
		Long: `Start the HTTP server. Chat messages POSTed to /v1/messages are checked for
the trigger keyword and turned into instruction files.

Endpoints:
  POST /v1/messages   {"message": "...", "source": "..."}
  GET  /health
  GET  /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(true, config.BridgeOverrides{})
			if err != nil {
				return err
			}

			logger := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Writer: os.Stderr,
			})

			journal := logging.NewJournal(cfg.Logging.Dir)
			scheduler := logging.NewCleanupScheduler(
				logging.NewCleaner(cfg.Logging.Dir, cfg.Logging.RetentionDays),
				journalCleanupInterval,
				logger,
			)
			scheduler.Start()
			defer scheduler.Stop()

			emitter := bridge.New(cfg.Bridge.Dir, bridge.Settings{
				Enabled:        cfg.Bridge.Enabled,
				TriggerKeyword: cfg.Bridge.TriggerKeyword,
			})

			srv := server.New(cfg, emitter,
				server.WithLogger(logger),
				server.WithJournal(journal),
			)

			return srv.ListenAndServeWithShutdown()
		},
	}
}
