// Package cmd - команды tendersctl
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tendersdz/internal/api"
	"tendersdz/internal/app"
	"tendersdz/internal/config"
	"tendersdz/internal/logging"

	"github.com/spf13/cobra"
)

// Аннотации команд
const (
	// команда работает без входа (login, logout, status)
	annotationPublic = "public"
	// команде не нужны ни сессия, ни бэкенд
	annotationStandalone = "standalone"
)

var ErrNotLoggedIn = errors.New("not logged in, run `tendersctl login`")

type cli struct {
	configPath string
	apiURL     string
	verbose    bool

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	app *app.App
}

// Execute строит дерево команд, выполняет его с args и закрывает ресурсы
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	c := &cli{in: in, out: out, errOut: errOut}
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if c.app != nil {
		if cerr := c.app.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tendersctl",
		Short: "Command line client for the TendersDZ backend",
		Long: `tendersctl manages clients, suppliers, tenders and tender items
through the TendersDZ REST backend.

The session (token and email) is kept in the configured session store
and shared with the web console.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $TENDERS_CONFIG)")
	root.PersistentFlags().StringVar(&c.apiURL, "api-url", "", "backend base URL (overrides TENDERS_API_BASE_URL)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log backend requests")

	root.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.statusCmd(),
		c.dashboardCmd(),
		c.clientsCmd(),
		c.suppliersCmd(),
		c.tendersCmd(),
		c.itemsCmd(),
		c.fakeBackendCmd(),
	)
	return root
}

// setup загружает настройки и сессию; команды без аннотации public
// требуют входа
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[annotationStandalone] == "true" {
		return nil
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.apiURL != "" {
		cfg.APIBaseURL = c.apiURL
	}
	level := "warn"
	if c.verbose {
		level = "debug"
	}
	logger, err := logging.New(c.errOut, level, cfg.Log.Format)
	if err != nil {
		return err
	}

	c.app, err = app.New(cmd.Context(), cfg, logger, api.NavigatorFunc(c.navigate))
	if err != nil {
		return err
	}
	cmd.SetContext(api.WithLocation(cmd.Context(), cmd.CommandPath()))

	if cmd.Annotations[annotationPublic] != "true" && !c.app.Auth.IsAuthenticated() {
		return ErrNotLoggedIn
	}
	return nil
}

// navigate - реакция CLI на сброс сессии бэкендом
func (c *cli) navigate(ctx context.Context, target string) {
	fmt.Fprintln(c.errOut, warnStyle.Render("session expired, run `tendersctl login`"))
}

func public(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[annotationPublic] = "true"
	return cmd
}
