package cli

import (
	"restaurant/ordering/internal/container"
	"restaurant/ordering/internal/domain"

	"github.com/spf13/cobra"
)

func NewMenuCommand(rootOpts *RootOptions) *cobra.Command {
	var filter domain.Filter

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "List the menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(app *container.Container) error {
				products := app.Index.Filter(filter)
				return printProducts(cmd.OutOrStdout(), products, app.Renderer.Money(), app.Session.IsFavorite)
			})
		},
	}

	cmd.Flags().StringVar(&filter.Category, "cat", "", "category id")
	cmd.Flags().StringVar(&filter.Tag, "tag", "", "sub-filter tag within the category")
	cmd.Flags().StringVarP(&filter.Query, "query", "q", "", "search name and keywords")
	return cmd
}
