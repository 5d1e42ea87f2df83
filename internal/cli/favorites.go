package cli

import (
	"fmt"

	"restaurant/ordering/internal/container"

	"github.com/spf13/cobra"
)

func NewFavoritesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fav",
		Aliases: []string{"favorites"},
		Short:   "Show and change favorites",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show favorites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(app *container.Container) error {
				return showFavorites(cmd, app)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <product-id>",
		Short: "Add a product to favorites, or remove it when already there",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(app *container.Container) error {
				if _, err := app.Session.ToggleFavorite(args[0]); err != nil {
					return err
				}
				return showFavorites(cmd, app)
			})
		},
	})

	return cmd
}

func showFavorites(cmd *cobra.Command, app *container.Container) error {
	products := app.Session.FavoriteProducts()
	if len(products) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "You have no favorites yet.")
		return err
	}
	return printProducts(cmd.OutOrStdout(), products, app.Renderer.Money(), app.Session.IsFavorite)
}
