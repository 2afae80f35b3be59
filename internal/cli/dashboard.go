package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/mailpilot/internal/api"
	"github.com/nhle/mailpilot/internal/app"
	"github.com/nhle/mailpilot/internal/dashboard"
	"github.com/nhle/mailpilot/internal/theme"
	"github.com/nhle/mailpilot/internal/ui/history"
)

// runDashboard opens the terminal UI.
func runDashboard(cmd *cobra.Command, opts *options) error {
	token, err := explicitCredential(opts)
	if err != nil {
		return err
	}

	e, err := openEnv(opts)
	if err != nil {
		return err
	}
	defer e.Close()
	cfg := e.cfg

	if err := theme.Apply(cfg.Display.Theme); err != nil {
		return err
	}

	creds, err := openCredentials(cfg, opts.ephemeral)
	if err != nil {
		return err
	}

	hist, err := openHistory(cfg)
	if err != nil {
		return err
	}
	var reader history.Reader
	dashOpts := []dashboard.Option{
		dashboard.WithLogger(e.log),
		dashboard.WithNotificationTTL(cfg.NotificationTTL()),
	}
	if hist != nil {
		defer hist.Close()
		reader = hist
		dashOpts = append(dashOpts, dashboard.WithRecorder(hist))
	}

	e.log.Info().
		Str("base_url", cfg.API.BaseURL).
		Bool("history", hist != nil).
		Msg("starting dashboard")

	m := app.New(app.Options{
		NewDashboard: func() app.Dashboard {
			client := api.NewClient(cfg.API.BaseURL, cfg.RequestTimeout(), cfg.API.RequestsPerSecond)
			return dashboard.New(client, creds, dashOpts...)
		},
		Credential:   token,
		History:      reader,
		LoginURL:     cfg.Auth.LoginURL,
		RedirectAddr: cfg.Auth.RedirectAddr,
	})

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
	)
	final, err := p.Run()
	if fm, ok := final.(app.Model); ok {
		fm.Close()
	} else {
		m.Close()
	}
	if err != nil {
		e.log.Error().Err(err).Msg("dashboard exited")
		return err
	}
	return nil
}
