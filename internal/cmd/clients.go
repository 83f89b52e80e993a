package cmd

import (
	"fmt"
	"strconv"

	"tendersdz/models"

	"github.com/spf13/cobra"
)

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// changedString возвращает значение флага, только если он задан
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func changedBool(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetBool(name)
	return &v
}

func (c *cli) clientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Manage clients",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clients, err := c.app.Client.ListClients(cmd.Context())
			if err != nil {
				return err
			}
			t := newTable("ID", "Name", "Contact", "Country", "Notes")
			for _, cl := range clients {
				t.Row(strconv.Itoa(cl.ID), cl.Name, models.Deref(cl.Contact), models.Deref(cl.Country), models.Deref(cl.Notes))
			}
			fmt.Fprintln(c.out, t.Render())
			return nil
		},
	}

	var in models.ClientInput
	var contact, country, notes string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Contact = models.StringPtr(contact)
			in.Country = models.StringPtr(country)
			in.Notes = models.StringPtr(notes)
			created, err := c.app.Client.CreateClient(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Created client %d (%s)\n", created.ID, created.Name)
			return nil
		},
	}
	create.Flags().StringVar(&in.Name, "name", "", "client name")
	create.Flags().StringVar(&contact, "contact", "", "contact person or email")
	create.Flags().StringVar(&country, "country", "", "country")
	create.Flags().StringVar(&notes, "notes", "", "free-form notes")

	update := &cobra.Command{
		Use:   "update ID",
		Short: "Update the given fields of a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			patch := models.ClientPatch{
				Name:    changedString(cmd, "name"),
				Contact: changedString(cmd, "contact"),
				Country: changedString(cmd, "country"),
				Notes:   changedString(cmd, "notes"),
			}
			updated, err := c.app.Client.UpdateClient(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Updated client %d (%s)\n", updated.ID, updated.Name)
			return nil
		},
	}
	update.Flags().String("name", "", "client name")
	update.Flags().String("contact", "", "contact person or email")
	update.Flags().String("country", "", "country")
	update.Flags().String("notes", "", "free-form notes")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.app.Client.DeleteClient(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Deleted client %d\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, create, update, del)
	return cmd
}
