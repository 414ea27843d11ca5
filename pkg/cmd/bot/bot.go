package bot

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"f1fastestlaps/log"
	"f1fastestlaps/pkg/bot"
	"f1fastestlaps/pkg/config"
	"f1fastestlaps/pkg/dashboard"
	"f1fastestlaps/pkg/export"
	"f1fastestlaps/pkg/model"
)

var datasetPath string

func NewBotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "answers dataset queries on telegram",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startBot()
		},
	}
	cmd.Flags().StringVar(&datasetPath, "dataset",
		export.DefaultFileName(model.ModeSingle),
		"dataset file to answer from")
	return cmd
}

func startBot() error {
	if config.TelegramToken == "" {
		return errors.New("telegram token required (--telegram-token, F1LAPS_TELEGRAM_TOKEN or TELEGRAM_TOKEN)")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := bot.New(config.TelegramToken, dashboard.NewDataset(datasetPath))
	if err != nil {
		return err
	}
	log.Info("Start listening for updates. Press Ctrl-C to stop it")
	b.Run(ctx)
	return nil
}
