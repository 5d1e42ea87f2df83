package cli

import (
	"fmt"
	"strconv"

	"restaurant/ordering/internal/container"
	"restaurant/ordering/internal/domain"

	"github.com/spf13/cobra"
)

// NewCartCommand groups the cart subcommands. Lines are addressed by key:
// "12" for a sizeless product, "12:M" for a sized one.
func NewCartCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and change the cart",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(app *container.Container) error {
				return showCart(cmd, app)
			})
		},
	})

	cmd.AddCommand(newCartAddCommand(rootOpts))

	cmd.AddCommand(lineCommand(rootOpts, "inc <key>", "Add one unit to a line", func(app *container.Container, key domain.LineKey) bool {
		_, ok := app.Session.IncrementLine(key)
		return ok
	}))
	cmd.AddCommand(lineCommand(rootOpts, "dec <key>", "Remove one unit from a line (never below 1)", func(app *container.Container, key domain.LineKey) bool {
		app.Session.DecrementLine(key)
		_, exists := findLine(app, key)
		return exists
	}))
	cmd.AddCommand(lineCommand(rootOpts, "remove <key>", "Remove a line", func(app *container.Container, key domain.LineKey) bool {
		return app.Session.RemoveLine(key)
	}))

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <qty>",
		Short: "Set a line's quantity; 0 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := domain.ParseLineKey(args[0])
			if err != nil {
				return err
			}
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q: %w", args[1], err)
			}
			return rootOpts.withApp(cmd, func(app *container.Container) error {
				if _, ok := app.Session.SetLineQuantity(key, qty); !ok {
					return fmt.Errorf("no cart line %s", key)
				}
				return showCart(cmd, app)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(app *container.Container) error {
				app.Session.ClearCart()
				return showCart(cmd, app)
			})
		},
	})

	return cmd
}

func newCartAddCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		size string
		qty  int
	)

	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(app *container.Container) error {
				if _, err := app.Session.AddToCart(args[0], size, qty); err != nil {
					return err
				}
				return showCart(cmd, app)
			})
		},
	}

	cmd.Flags().StringVarP(&size, "size", "s", "", "size label S, M or L (default: smallest offered)")
	cmd.Flags().IntVarP(&qty, "qty", "n", 1, "quantity")
	return cmd
}

func lineCommand(rootOpts *RootOptions, use, short string, apply func(app *container.Container, key domain.LineKey) bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := domain.ParseLineKey(args[0])
			if err != nil {
				return err
			}
			return rootOpts.withApp(cmd, func(app *container.Container) error {
				if !apply(app, key) {
					return fmt.Errorf("no cart line %s", key)
				}
				return showCart(cmd, app)
			})
		},
	}
}

func findLine(app *container.Container, key domain.LineKey) (domain.LineItem, bool) {
	for _, it := range app.Session.CartItems() {
		if it.Key() == key {
			return it, true
		}
	}
	return domain.LineItem{}, false
}

func showCart(cmd *cobra.Command, app *container.Container) error {
	return printCart(cmd.OutOrStdout(), app.Session.CartLines(), app.Session.CartTotal(), app.Renderer.Money())
}
