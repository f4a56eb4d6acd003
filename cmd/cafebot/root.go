package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/eliseohh/cafebot/internal/catalog"
	"github.com/eliseohh/cafebot/internal/config"
)

// Version is set at build time.
var Version = "dev"

// app carries what PersistentPreRunE loaded to the subcommands.
type app struct {
	cfgFile string
	cfg     *config.Config
	log     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "cafebot",
		Short: "Café menu Telegram bot",
		Long: `cafebot serves the café's drinks and desserts menu over Telegram.

Guests browse categories with inline buttons, open item cards with
ingredients and storage details, and search drinks by name.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(a.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.cfg, a.log = cfg, logger

			if cfg.File != "" {
				logger.Debug("using config file", slog.String("path", cfg.File))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./cafebot.yaml)")
	flags.String("database", "", "path to the catalog SQLite database")
	flags.String("images-dir", "", "directory holding dessert photos")
	flags.String("token", "", "Telegram bot token")
	flags.String("log-level", "", "log level (debug|info|warn|error)")
	flags.String("log-format", "", "log format (text|json)")

	root.AddCommand(
		newServeCmd(a),
		newSeedCmd(a),
		newDumpCmd(a),
		newMenuCmd(a),
		newCheckCmd(a),
		newVersionCmd(),
	)
	return root
}

// openCatalog opens the configured database and makes sure both tables exist.
func (a *app) openCatalog(ctx context.Context) (*catalog.DB, error) {
	db, err := catalog.Open(a.cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := db.InitSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog %s: %w", a.cfg.Database, err)
	}
	return db, nil
}
