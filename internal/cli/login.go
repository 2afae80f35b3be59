package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/mailpilot/internal/api"
	"github.com/nhle/mailpilot/internal/auth"
)

func newLoginCommand(opts *options) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in through the browser and store the credential",
		Long: `login prints the backend sign-in address and waits for the browser to be
redirected back to the loopback address in auth.redirect_addr. The token from
the redirect is verified against the backend and stored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close()
			cfg := e.cfg

			creds, err := openCredentials(cfg, opts.ephemeral)
			if err != nil {
				return err
			}

			l, err := auth.Listen(cfg.Auth.RedirectAddr)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Open this address in your browser and sign in:\n\n  %s\n\n", cfg.Auth.LoginURL)
			fmt.Fprintf(out, "Waiting for the redirect on %s%s ...\n", l.URL(), auth.DashboardPath)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			token, err := l.Wait(ctx)
			if err != nil {
				return err
			}

			client := api.NewClient(cfg.API.BaseURL, cfg.RequestTimeout(), cfg.API.RequestsPerSecond)
			client.SetToken(token)
			user, err := client.Me(ctx)
			if err != nil {
				return fmt.Errorf("verifying credential: %w", err)
			}

			if err := creds.Set(token); err != nil {
				return err
			}
			e.log.Info().Str("email", user.Email).Msg("signed in")
			fmt.Fprintf(out, "Signed in as %s <%s>.\n", user.DisplayName, user.Email)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "how long to wait for the browser")
	return cmd
}

func newLogoutCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			creds, err := openCredentials(e.cfg, opts.ephemeral)
			if err != nil {
				return err
			}
			if err := creds.Clear(); err != nil {
				return err
			}
			e.log.Info().Msg("signed out")
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mailpilot %s\n", Version)
		},
	}
}
