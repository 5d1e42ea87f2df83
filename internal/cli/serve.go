package cli

import (
	"os"
	"os/signal"
	"syscall"

	"restaurant/ordering/internal/container"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ordering site over HTTP",
		Long: `Fetch the catalog and serve the site. When the catalog cannot be
fetched the site still starts and answers every page with an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if addr != "" {
				host, port, err := splitAddr(addr)
				if err != nil {
					return err
				}
				rootOpts.config.Server.Host, rootOpts.config.Server.Port = host, port
			}

			app, err := container.New(ctx, rootOpts.config, rootOpts.containerOpts...)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Boot(ctx); err != nil {
				log.Warnf("⚠️ Serving the unavailable page until restart: %v", err)
			}
			return app.Serve(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address host:port (overrides server.host/server.port)")
	return cmd
}
