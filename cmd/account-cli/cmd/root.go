package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/nfrund/accounttabs/internal/config"
	"github.com/nfrund/accounttabs/internal/database"
	"github.com/nfrund/accounttabs/internal/email"
	"github.com/nfrund/accounttabs/internal/identity"
	"github.com/nfrund/accounttabs/internal/logging"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "account-cli",
		Short: "Account service administration tool",
		Long: `account-cli manages customer accounts in the configured account store
and previews how the account page picks its active tab.

Configuration is read from the environment (and a .env file if present),
exactly like the server.

Use "account-cli [command] --help" for more information about a command.`,
		SilenceUsage: true,
	}
	root.AddCommand(newVersionCmd(), newUserCmd(), newTabsCmd())
	return root
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openService loads configuration and opens the identity service. The
// returned function closes the account store.
func openService(ctx context.Context) (*identity.Service, func(), error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, err
	}
	logging.New(cfg.GetLogFormat(), cfg.GetLogLevel())

	repo, closeDB, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	emailer, err := email.NewEmailService(cfg)
	if err != nil {
		_ = closeDB(ctx)
		return nil, nil, err
	}

	svc := identity.NewService(repo, emailer, identity.Config{
		SiteName:   cfg.GetSiteName(),
		AccountURL: cfg.GetAccountURL(),
		ResetTTL:   cfg.GetResetTokenTTL(),
	})
	return svc, func() { _ = closeDB(ctx) }, nil
}
