package cmd

import (
	"fmt"
	"strconv"

	"tendersdz/models"

	"github.com/spf13/cobra"
)

func (c *cli) suppliersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suppliers",
		Short: "Manage suppliers",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List suppliers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			suppliers, err := c.app.Client.ListSuppliers(cmd.Context())
			if err != nil {
				return err
			}
			t := newTable("ID", "Name", "Contact", "Country", "OEM", "Verified")
			for _, s := range suppliers {
				t.Row(strconv.Itoa(s.ID), s.Name, models.Deref(s.Contact), models.Deref(s.Country), yesNo(s.IsOEM), yesNo(s.Verified))
			}
			fmt.Fprintln(c.out, t.Render())
			return nil
		},
	}

	var in models.SupplierInput
	var contact, country string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a supplier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Contact = models.StringPtr(contact)
			in.Country = models.StringPtr(country)
			created, err := c.app.Client.CreateSupplier(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Created supplier %d (%s)\n", created.ID, created.Name)
			return nil
		},
	}
	create.Flags().StringVar(&in.Name, "name", "", "supplier name")
	create.Flags().StringVar(&contact, "contact", "", "contact person or email")
	create.Flags().StringVar(&country, "country", "", "country")
	create.Flags().BoolVar(&in.IsOEM, "oem", false, "supplier is the manufacturer")
	create.Flags().BoolVar(&in.Verified, "verified", false, "supplier is verified")

	update := &cobra.Command{
		Use:   "update ID",
		Short: "Update the given fields of a supplier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			patch := models.SupplierPatch{
				Name:     changedString(cmd, "name"),
				Contact:  changedString(cmd, "contact"),
				Country:  changedString(cmd, "country"),
				IsOEM:    changedBool(cmd, "oem"),
				Verified: changedBool(cmd, "verified"),
			}
			updated, err := c.app.Client.UpdateSupplier(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Updated supplier %d (%s)\n", updated.ID, updated.Name)
			return nil
		},
	}
	update.Flags().String("name", "", "supplier name")
	update.Flags().String("contact", "", "contact person or email")
	update.Flags().String("country", "", "country")
	update.Flags().Bool("oem", false, "supplier is the manufacturer")
	update.Flags().Bool("verified", false, "supplier is verified")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a supplier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.app.Client.DeleteSupplier(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Deleted supplier %d\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, create, update, del)
	return cmd
}
