package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"tendersdz/internal/export"
	"tendersdz/models"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func parseDeadline(s string) (*models.Timestamp, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	ts, err := models.ParseTimestamp(s)
	if err != nil {
		return nil, fmt.Errorf("invalid deadline %q, expected YYYY-MM-DD", s)
	}
	return &ts, nil
}

func deadlineCell(ts *models.Timestamp) string {
	if ts == nil {
		return "-"
	}
	return ts.Date()
}

// writeFile создает файл отчета; при ошибке записи файл удаляется
func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func (c *cli) tendersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenders",
		Short: "Manage tenders",
	}
	cmd.AddCommand(
		c.tendersListCmd(),
		c.tendersShowCmd(),
		c.tendersCreateCmd(),
		c.tendersUpdateCmd(),
		c.tendersDeleteCmd(),
		c.tendersExportCmd(),
		c.tendersSheetCmd(),
	)
	return cmd
}

func (c *cli) tendersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tenders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				tenders []models.Tender
				clients []models.Client
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() (err error) {
				tenders, err = c.app.Client.ListTenders(ctx)
				return err
			})
			g.Go(func() (err error) {
				clients, err = c.app.Client.ListClients(ctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			names := export.ClientNames(clients)
			t := newTable("ID", "Reference", "Title", "Client", "Status", "Currency", "Deadline")
			for _, tender := range tenders {
				t.Row(
					strconv.Itoa(tender.ID),
					models.Deref(tender.ReferenceNo),
					tender.Title,
					export.ClientName(names, tender.ClientID),
					statusLabel(tender.Status),
					tender.Currency,
					deadlineCell(tender.SubmissionDeadline),
				)
			}
			fmt.Fprintln(c.out, t.Render())
			return nil
		},
	}
}

func (c *cli) tendersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a tender with its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var (
				tender *models.Tender
				items  []models.TenderItem
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() (err error) {
				tender, err = c.app.Client.GetTender(ctx, id)
				return err
			})
			g.Go(func() (err error) {
				items, err = c.app.Client.ListTenderItems(ctx, &id)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			fmt.Fprintf(c.out, "%s #%d %s\n", titleStyle.Render("Tender"), tender.ID, tender.Title)
			fmt.Fprintf(c.out, "  Reference: %s\n", models.Deref(tender.ReferenceNo))
			fmt.Fprintf(c.out, "  Client:    #%d\n", tender.ClientID)
			fmt.Fprintf(c.out, "  Status:    %s\n", statusLabel(tender.Status))
			fmt.Fprintf(c.out, "  Currency:  %s\n", tender.Currency)
			fmt.Fprintf(c.out, "  Deadline:  %s\n", deadlineCell(tender.SubmissionDeadline))
			fmt.Fprintln(c.out)
			if len(items) == 0 {
				fmt.Fprintln(c.out, mutedStyle.Render("No items."))
				return nil
			}
			fmt.Fprintln(c.out, itemsTable(items).Render())
			return nil
		},
	}
}

func (c *cli) tendersCreateCmd() *cobra.Command {
	var (
		in        = models.NewTenderInput()
		reference string
		status    string
		deadline  string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tender",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if in.SubmissionDeadline, err = parseDeadline(deadline); err != nil {
				return err
			}
			in.ReferenceNo = models.StringPtr(reference)
			in.Status = models.TenderStatus(status).Normalize()
			in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))

			created, err := c.app.Client.CreateTender(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Created tender %d (%s)\n", created.ID, created.Title)
			return nil
		},
	}
	cmd.Flags().IntVar(&in.ClientID, "client-id", 0, "client the tender belongs to")
	cmd.Flags().StringVar(&in.Title, "title", "", "tender title")
	cmd.Flags().StringVar(&reference, "reference", "", "reference number")
	cmd.Flags().StringVar(&in.Currency, "currency", in.Currency, "currency code")
	cmd.Flags().StringVar(&status, "status", string(in.Status), "tender status")
	cmd.Flags().StringVar(&deadline, "deadline", "", "submission deadline (YYYY-MM-DD)")
	return cmd
}

func (c *cli) tendersUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update the given fields of a tender",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			patch := models.TenderPatch{
				Title:       changedString(cmd, "title"),
				ReferenceNo: changedString(cmd, "reference"),
			}
			if cmd.Flags().Changed("client-id") {
				v, _ := cmd.Flags().GetInt("client-id")
				patch.ClientID = &v
			}
			if v := changedString(cmd, "currency"); v != nil {
				currency := strings.ToUpper(strings.TrimSpace(*v))
				patch.Currency = &currency
			}
			if v := changedString(cmd, "status"); v != nil {
				status := models.TenderStatus(*v).Normalize()
				patch.Status = &status
			}
			// --deadline "" снимает срок
			if v := changedString(cmd, "deadline"); v != nil {
				deadline, err := parseDeadline(*v)
				if err != nil {
					return err
				}
				patch.SubmissionDeadline = models.SetTimestamp(deadline)
			}

			updated, err := c.app.Client.UpdateTender(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Updated tender %d (%s)\n", updated.ID, updated.Title)
			return nil
		},
	}
	cmd.Flags().Int("client-id", 0, "client the tender belongs to")
	cmd.Flags().String("title", "", "tender title")
	cmd.Flags().String("reference", "", "reference number")
	cmd.Flags().String("currency", "", "currency code")
	cmd.Flags().String("status", "", "tender status")
	cmd.Flags().String("deadline", "", `submission deadline (YYYY-MM-DD), "" removes it`)
	return cmd
}

func (c *cli) tendersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a tender and its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.app.Client.DeleteTender(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Deleted tender %d\n", id)
			return nil
		},
	}
}

func (c *cli) tendersExportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the tender register to XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				tenders []models.Tender
				clients []models.Client
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() (err error) {
				tenders, err = c.app.Client.ListTenders(ctx)
				return err
			})
			g.Go(func() (err error) {
				clients, err = c.app.Client.ListClients(ctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			if output == "" {
				output = fmt.Sprintf("tenders-%s.xlsx", time.Now().Format("20060102"))
			}
			err := writeFile(output, func(f *os.File) error {
				return export.TenderRegister(f, tenders, clients)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Exported %d tenders to %s\n", len(tenders), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default tenders-YYYYMMDD.xlsx)")
	return cmd
}

func (c *cli) tendersSheetCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "sheet ID",
		Short: "Render a tender sheet to PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var (
				tender  *models.Tender
				items   []models.TenderItem
				clients []models.Client
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() (err error) {
				tender, err = c.app.Client.GetTender(ctx, id)
				return err
			})
			g.Go(func() (err error) {
				items, err = c.app.Client.ListTenderItems(ctx, &id)
				return err
			})
			g.Go(func() (err error) {
				clients, err = c.app.Client.ListClients(ctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			if output == "" {
				output = fmt.Sprintf("tender-%d.pdf", id)
			}
			clientName := export.ClientName(export.ClientNames(clients), tender.ClientID)
			err = writeFile(output, func(f *os.File) error {
				return export.TenderSheet(f, *tender, clientName, items, time.Now())
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default tender-ID.pdf)")
	return cmd
}
