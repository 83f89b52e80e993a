package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"tendersdz/models"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func itemsTable(items []models.TenderItem) *table.Table {
	t := newTable("ID", "Tender", "Category", "Description", "Qty", "UoM", "Authenticity")
	for _, item := range items {
		t.Row(
			strconv.Itoa(item.ID),
			strconv.Itoa(item.TenderID),
			string(item.Category),
			item.Description,
			strconv.FormatFloat(item.Qty, 'f', -1, 64),
			item.UOM,
			yesNo(item.AuthenticityRequired),
		)
	}
	return t
}

func normCategory(s string) models.TenderCategory {
	return models.TenderCategory(strings.ToUpper(strings.TrimSpace(s)))
}

func (c *cli) itemsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Manage tender items",
	}

	var tenderID int
	list := &cobra.Command{
		Use:   "list",
		Short: "List tender items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter *int
			if cmd.Flags().Changed("tender") {
				filter = &tenderID
			}
			items, err := c.app.Client.ListTenderItems(cmd.Context(), filter)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, itemsTable(items).Render())
			return nil
		},
	}
	list.Flags().IntVar(&tenderID, "tender", 0, "only items of this tender")

	in := models.NewTenderItemInput(0)
	var category string
	create := &cobra.Command{
		Use:   "create",
		Short: "Add an item to a tender",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Category = normCategory(category)
			created, err := c.app.Client.CreateTenderItem(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Created item %d for tender %d\n", created.ID, created.TenderID)
			return nil
		},
	}
	create.Flags().IntVar(&in.TenderID, "tender", 0, "tender the item belongs to")
	create.Flags().StringVar(&category, "category", string(in.Category), "HW, SW, SPARE or SERVICE")
	create.Flags().StringVar(&in.Description, "description", "", "item description")
	create.Flags().Float64Var(&in.Qty, "qty", 1, "quantity")
	create.Flags().StringVar(&in.UOM, "uom", in.UOM, "unit of measure")
	create.Flags().BoolVar(&in.AuthenticityRequired, "authenticity", in.AuthenticityRequired, "authenticity certificate required")

	update := &cobra.Command{
		Use:   "update ID",
		Short: "Update the given fields of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			patch := models.TenderItemPatch{
				Description:          changedString(cmd, "description"),
				UOM:                  changedString(cmd, "uom"),
				AuthenticityRequired: changedBool(cmd, "authenticity"),
			}
			if v := changedString(cmd, "category"); v != nil {
				category := normCategory(*v)
				patch.Category = &category
			}
			if cmd.Flags().Changed("qty") {
				v, _ := cmd.Flags().GetFloat64("qty")
				patch.Qty = &v
			}
			updated, err := c.app.Client.UpdateTenderItem(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Updated item %d\n", updated.ID)
			return nil
		},
	}
	update.Flags().String("category", "", "HW, SW, SPARE or SERVICE")
	update.Flags().String("description", "", "item description")
	update.Flags().Float64("qty", 0, "quantity")
	update.Flags().String("uom", "", "unit of measure")
	update.Flags().Bool("authenticity", false, "authenticity certificate required")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a tender item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.app.Client.DeleteTenderItem(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Deleted item %d\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, create, update, del)
	return cmd
}
