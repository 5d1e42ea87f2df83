package cli

import (
	"context"
	"fmt"
	"io"

	"restaurant/ordering/internal/config"
	"restaurant/ordering/internal/container"
	"restaurant/ordering/internal/notify"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Ephemeral  bool
	LogLevel   string

	config        *config.Config
	containerOpts []container.Option
}

// NewRootCommand creates the root command. Container options are passed to
// every command's container; tests use them to swap storage and the catalog
// source.
func NewRootCommand(containerOpts ...container.Option) *cobra.Command {
	opts := &RootOptions{containerOpts: containerOpts}

	cmd := &cobra.Command{
		Use:   "ordering",
		Short: "Restaurant ordering site",
		Long: `Serve the restaurant ordering site, or work with the same cart,
favorites and checkout from the terminal.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}
			if opts.LogLevel != "" {
				cfg.Log.Level = opts.LogLevel
			}
			if opts.Ephemeral {
				cfg.Storage.Driver = "memory"
			}
			if err := config.SetupLogging(cfg.Log); err != nil {
				return err
			}
			opts.config = cfg
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default ./config.yaml)")
	cmd.PersistentFlags().BoolVar(&opts.Ephemeral, "ephemeral", false, "keep cart and favorites in memory only")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "override log.level")

	// Add subcommands
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMenuCommand(opts))
	cmd.AddCommand(NewCartCommand(opts))
	cmd.AddCommand(NewFavoritesCommand(opts))
	cmd.AddCommand(NewCheckoutCommand(opts))

	return cmd
}

// withApp boots a container for one command, runs fn and flushes state.
// A failed catalog fetch fails the command before fn runs.
func (o *RootOptions) withApp(cmd *cobra.Command, fn func(app *container.Container) error) (err error) {
	ctx := commandContext(cmd)

	app, err := container.New(ctx, o.config, o.containerOpts...)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := app.Boot(ctx); err != nil {
		return fmt.Errorf("failed to load the menu: %w", err)
	}

	err = fn(app)
	printToasts(cmd.OutOrStdout(), cmd.ErrOrStderr(), app.Toasts.Drain())
	return err
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printToasts(out, errOut io.Writer, toasts []notify.Notification) {
	for _, n := range toasts {
		if n.Level == notify.LevelError {
			fmt.Fprintf(errOut, "✖ %s\n", n.Message)
			continue
		}
		fmt.Fprintf(out, "✔ %s\n", n.Message)
	}
}
