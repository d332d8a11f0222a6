package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/edgarogh/mdj/internal/api"
	"github.com/edgarogh/mdj/internal/session"
	"github.com/edgarogh/mdj/internal/store"
)

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func newLoginCommand() *cobra.Command {
	var email, password string
	command := &cobra.Command{
		Use:   "login",
		Short: "Open a session on the backend and remember it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, store.WithoutInitialFetch())
			if err != nil {
				return err
			}

			credentials := api.Credentials{
				Email:    firstNonEmpty(email, a.cfg.Account.Email),
				Password: firstNonEmpty(password, a.cfg.Account.Password),
			}
			if credentials.Email == "" || credentials.Password == "" {
				_ = a.close()
				return fmt.Errorf("an email and a password are required, use --email and --password or MDJ_EMAIL and MDJ_PASSWORD")
			}

			outcome, err := a.root.Login(cmd.Context(), credentials)
			if err != nil {
				_ = a.close()
				return fmt.Errorf("root.Login() > %w", err)
			}
			if outcome != api.LoginSucceeded {
				_ = a.close()
				return fmt.Errorf("login failed: %s", outcome)
			}
			if err := session.Save(a.cfg.Session.File, a.cfg.Server.BaseURL, a.client.Cookies(), time.Now()); err != nil {
				_ = a.close()
				return fmt.Errorf("session.Save() > %w", err)
			}

			a.root.Wait()
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", a.root.AccountInfo().Email)
			return a.close()
		},
	}
	command.Flags().StringVar(&email, "email", "", "Account email (default from config or MDJ_EMAIL)")
	command.Flags().StringVar(&password, "password", "", "Account password (default from config or MDJ_PASSWORD)")
	return command
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Close the session and forget it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, store.WithoutInitialFetch())
			if err != nil {
				return err
			}
			if err := a.root.Logout(cmd.Context()); err != nil {
				_ = a.close()
				return fmt.Errorf("root.Logout() > %w", err)
			}
			if err := session.Clear(a.cfg.Session.File); err != nil {
				_ = a.close()
				return fmt.Errorf("session.Clear() > %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return a.close()
		},
	}
}
