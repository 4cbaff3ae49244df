package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/avolkhin/deskbot/internal/channel/telegram"
	"github.com/avolkhin/deskbot/internal/config"
	"github.com/avolkhin/deskbot/internal/intake"
	"github.com/avolkhin/deskbot/internal/logging"
	"github.com/avolkhin/deskbot/internal/relay"
	"github.com/avolkhin/deskbot/internal/routing"
	"github.com/avolkhin/deskbot/internal/session"
	"github.com/avolkhin/deskbot/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := paths.EnsureDirs(); err != nil {
				return err
			}

			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}
			if issues := config.Validate(&cfg); len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			// the flag wins over the config file
			if logLevel == "" {
				log = logging.New(nil, cfg.Logging.Level, cfg.Logging.Style)
			}

			db, err := store.Open(paths.DatabasePath(&cfg), log)
			if err != nil {
				return err
			}
			defer db.Close()

			bot, err := telegram.New(cfg.Telegram, log)
			if err != nil {
				return err
			}

			identities := store.NewIdentityStore(db)
			requests := store.NewRequestStore(db)
			sessions := session.NewStore()

			relaySvc := relay.New(requests, bot, cfg.Telegram.OperatorChatID, cfg.Messages, cfg.Telegram.AckReaction, log)
			machine := intake.New(sessions, identities, relaySvc, bot, cfg.Messages, log)
			dispatcher := routing.New(machine, relaySvc, cfg.Telegram.OperatorChatID, log)

			bot.OnUpdate(dispatcher.Handle)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Info().Int64("operatorChat", cfg.Telegram.OperatorChatID).Msg("deskbot starting")
			if err := bot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			log.Info().Msg("deskbot stopped")
			return nil
		},
	}
}
