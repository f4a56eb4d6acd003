package main

import (
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/eliseohh/cafebot/internal/bot"
	"github.com/eliseohh/cafebot/internal/menu"
	"github.com/eliseohh/cafebot/internal/seed"
)

func newServeCmd(a *app) *cobra.Command {
	var seedFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bot until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Token == "" {
				return errors.New("no bot token: set --token, CAFEBOT_TOKEN or TELEGRAM_TOKEN")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := a.openCatalog(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			if seedFile != "" {
				c, err := seed.LoadFile(seedFile)
				if err != nil {
					return err
				}
				if _, err := seed.Apply(ctx, db, c, a.log); err != nil {
					return err
				}
			}

			engine := menu.NewEngine(db, a.cfg.Menu, a.log.With(slog.String("component", "menu")))
			b, err := bot.New(bot.Config{
				Token:       a.cfg.Token,
				ImagesDir:   a.cfg.ImagesDir,
				PollTimeout: a.cfg.PollTimeout,
			}, engine, a.log.With(slog.String("component", "bot")))
			if err != nil {
				return err
			}

			eg, egctx := errgroup.WithContext(ctx)
			eg.Go(func() error {
				return b.Run(egctx)
			})
			return eg.Wait()
		},
	}

	cmd.Flags().StringVar(&seedFile, "seed", "", "import this catalog file before starting")
	cmd.Flags().Duration("poll-timeout", 0, "long polling timeout")
	return cmd
}
