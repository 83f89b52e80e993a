package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"tendersdz/internal/api/apitest"
	"tendersdz/internal/logging"
	"tendersdz/models"

	"github.com/spf13/cobra"
)

func (c *cli) fakeBackendCmd() *cobra.Command {
	var (
		addr     string
		username string
		password string
		seed     bool
	)
	cmd := &cobra.Command{
		Use:   "fake-backend",
		Short: "Run an in-memory backend for local development",
		Long: `fake-backend serves the same REST contract as the tenders backend
from memory: form login at /auth/login, JWT bearer tokens and the
clients, suppliers, tenders and tender_items resources. Data is lost
on exit.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationStandalone: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(c.errOut, "info", "text")
			if err != nil {
				return err
			}

			backend := apitest.New()
			if err := backend.AddUser(username, password); err != nil {
				return err
			}
			if seed {
				seedDemo(backend)
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			server := &http.Server{
				Handler:           backend.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx := cmd.Context()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				server.Shutdown(shutdownCtx)
			}()

			logger.Info("fake backend listening", "addr", ln.Addr().String(), "user", username)
			if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8000", "listen address")
	cmd.Flags().StringVar(&username, "user", apitest.TestUser, "login of the only account")
	cmd.Flags().StringVar(&password, "password", apitest.TestPassword, "password of the only account")
	cmd.Flags().BoolVar(&seed, "seed", false, "start with demo records")
	return cmd
}

// seedDemo заполняет бэкенд несколькими записями для ручной проверки
func seedDemo(b *apitest.Backend) {
	client := b.SeedClient(models.Client{Name: "Sonatrach", Country: models.StringPtr("Algeria")})
	b.SeedSupplier(models.Supplier{Name: "Cisco", IsOEM: true, Verified: true})

	deadline := models.Timestamp{Time: time.Now().UTC().AddDate(0, 0, 14).Truncate(24 * time.Hour)}
	tender := b.SeedTender(models.Tender{
		ClientID:           client.ID,
		Title:              "Network core refresh",
		ReferenceNo:        models.StringPtr("AO-2024-017"),
		Currency:           models.DefaultCurrency,
		Status:             models.StatusStudying,
		SubmissionDeadline: &deadline,
	})
	b.SeedTenderItem(models.TenderItem{
		TenderID:             tender.ID,
		Category:             models.CategoryHW,
		Description:          "Core switch, 48 ports",
		Qty:                  2,
		UOM:                  models.DefaultUOM,
		AuthenticityRequired: true,
	})
}
