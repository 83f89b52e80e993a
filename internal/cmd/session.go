package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"tendersdz/internal/api"

	"github.com/spf13/cobra"
)

func (c *cli) loginCmd() *cobra.Command {
	var (
		username      string
		password      string
		passwordStdin bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the access token",
		Example: `  tendersctl login --username admin@tenders.dz --password secret
  echo "$PASSWORD" | tendersctl login --username admin@tenders.dz --password-stdin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if passwordStdin {
				line, err := bufio.NewReader(c.in).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read password from stdin: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if err := c.app.Auth.Login(cmd.Context(), username, password); err != nil {
				return fmt.Errorf("login failed: %s", api.UserMessage(err, err.Error()))
			}
			fmt.Fprintln(c.out, successStyle.Render("Logged in as "+c.app.Auth.Identifier()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	_ = cmd.MarkFlagRequired("username")
	return public(cmd)
}

func (c *cli) logoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Logged out")
			return nil
		},
	}
	return public(cmd)
}

func (c *cli) statusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(c.out, mutedStyle.Render("Backend: "+c.app.Client.BaseURL()))
			if !c.app.Auth.IsAuthenticated() {
				fmt.Fprintln(c.out, warnStyle.Render("Not logged in"))
				return nil
			}
			identifier := c.app.Auth.Identifier()
			if identifier == "" {
				identifier = "unknown user"
			}
			fmt.Fprintln(c.out, successStyle.Render("Logged in as "+identifier))
			return nil
		},
	}
	return public(cmd)
}
