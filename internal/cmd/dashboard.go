package cmd

import (
	"fmt"
	"strconv"

	"tendersdz/internal/dashboard"
	"tendersdz/models"

	"github.com/spf13/cobra"
)

func (c *cli) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show counts and the nearest submission deadlines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := dashboard.Load(cmd.Context(), c.app.Client)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s %d   %s %d   %s %d   %s %d\n",
				titleStyle.Render("Clients:"), s.Clients,
				titleStyle.Render("Suppliers:"), s.Suppliers,
				titleStyle.Render("Tenders:"), s.Tenders,
				titleStyle.Render("Open:"), s.Open,
			)
			for _, status := range models.TenderStatuses {
				if n := s.ByStatus[status]; n > 0 {
					fmt.Fprintf(c.out, "  %s %d\n", statusLabel(status), n)
				}
			}

			fmt.Fprintln(c.out)
			fmt.Fprintln(c.out, titleStyle.Render("Upcoming submission deadlines"))
			if len(s.Upcoming) == 0 {
				fmt.Fprintln(c.out, mutedStyle.Render("No upcoming deadlines."))
				return nil
			}
			t := newTable("ID", "Title", "Reference", "Status", "Deadline")
			for _, tender := range s.Upcoming {
				t.Row(strconv.Itoa(tender.ID), tender.Title, models.Deref(tender.ReferenceNo), statusLabel(tender.Status), tender.SubmissionDeadline.Date())
			}
			fmt.Fprintln(c.out, t.Render())
			return nil
		},
	}
}
