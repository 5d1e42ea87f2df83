package cli

import (
	"fmt"

	"restaurant/ordering/internal/container"
	"restaurant/ordering/internal/domain"

	"github.com/spf13/cobra"
)

func NewCheckoutCommand(rootOpts *RootOptions) *cobra.Command {
	var contact domain.Contact

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Compose the WhatsApp order for the current cart",
		Long: `Validate the contact details, print the order message and the
WhatsApp link that sends it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(app *container.Container) error {
				msg, err := app.Session.Checkout(commandContext(cmd), contact)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, msg.Text)
				fmt.Fprintln(out)
				fmt.Fprintln(out, msg.Link)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&contact.Name, "name", "", "customer name")
	cmd.Flags().StringVar(&contact.Phone, "phone", "", "customer phone")
	cmd.Flags().StringVar(&contact.Address, "address", "", "delivery address")
	cmd.Flags().StringVar(&contact.Notes, "notes", "", "order notes")
	cmd.Flags().StringVar(&contact.Payment, "pay", "Cash", "payment method")
	return cmd
}
