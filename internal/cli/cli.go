package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nhle/mailpilot/internal/auth"
	"github.com/nhle/mailpilot/internal/credential"
	"github.com/nhle/mailpilot/internal/logging"
	"github.com/nhle/mailpilot/internal/model"
	"github.com/nhle/mailpilot/internal/store"
)

// Version is overridden at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// options holds the persistent flags shared by every command.
type options struct {
	configPath  string
	token       string
	redirectURL string
	ephemeral   bool
}

// NewRootCommand builds the mailpilot command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "mailpilot",
		Short: "Terminal dashboard for an AI email assistant",
		Long: `mailpilot shows your inbox from the assistant backend, summarizes
messages, threads and attachments, drafts replies in your own voice and turns
dates into calendar events.

Examples:
  mailpilot                      # open the dashboard
  mailpilot login                # sign in through the browser
  mailpilot --token <token>      # open the dashboard with an explicit token
  mailpilot history              # list recent notifications
  mailpilot logout               # forget the stored credential`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", model.DefaultConfigPath(), "path to the config file")
	flags.BoolVar(&opts.ephemeral, "ephemeral", false, "keep the credential in memory only")
	root.Flags().StringVar(&opts.token, "token", "", "bearer token to sign in with")
	root.Flags().StringVar(&opts.redirectURL, "redirect-url", "", "post-sign-in redirect URL carrying ?token=")

	root.AddCommand(
		newLoginCommand(opts),
		newLogoutCommand(opts),
		newHistoryCommand(opts),
		newVersionCommand(),
	)

	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// env bundles what every command opens from the config.
type env struct {
	cfg    *model.AppConfig
	log    zerolog.Logger
	closer io.Closer
}

func (e *env) Close() error {
	return e.closer.Close()
}

func openEnv(opts *options) (*env, error) {
	cfg, err := model.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	logger, closer, err := logging.Open(cfg.Log)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: logger, closer: closer}, nil
}

// openCredentials selects the credential store for the config and flags.
func openCredentials(cfg *model.AppConfig, ephemeral bool) (credential.Store, error) {
	if ephemeral || strings.EqualFold(cfg.Auth.Keyring, "memory") {
		return credential.NewMemory(""), nil
	}
	return credential.OpenKeyring(model.ConfigDir())
}

// openHistory opens the history store, or returns nil when it is disabled.
func openHistory(cfg *model.AppConfig) (*store.SQLiteStore, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.History.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}
	return store.NewSQLiteStore(cfg.History.Path)
}

// explicitCredential returns the token given on the command line, if any.
func explicitCredential(opts *options) (string, error) {
	switch {
	case opts.token != "" && opts.redirectURL != "":
		return "", errors.New("--token and --redirect-url are mutually exclusive")
	case opts.redirectURL != "":
		return auth.TokenFromRedirect(opts.redirectURL)
	default:
		return strings.TrimSpace(opts.token), nil
	}
}
