package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"f1fastestlaps/log"
	"f1fastestlaps/pkg/config"
	"f1fastestlaps/pkg/dashboard"
	"f1fastestlaps/pkg/export"
	"f1fastestlaps/pkg/model"
	"f1fastestlaps/pkg/store"
	"f1fastestlaps/pkg/webserver"
)

var (
	datasetPath   string
	watchInterval time.Duration
)

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "starts the dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer()
		},
	}
	cmd.Flags().StringVar(&datasetPath, "dataset",
		export.DefaultFileName(model.ModeSingle),
		"dataset file to explore")
	cmd.Flags().StringVarP(&config.Addr, "addr", "a",
		config.DefaultAddr,
		"dashboard listen address")
	cmd.Flags().StringVar(&config.Title, "title",
		config.DefaultTitle,
		"dashboard title")
	cmd.Flags().DurationVar(&watchInterval, "watch-interval",
		2*time.Second,
		"how often the dataset file is checked for changes")
	return cmd
}

func startServer() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dataset := dashboard.NewDataset(datasetPath)
	if _, _, err := dataset.Load(); err != nil {
		log.Warn("dataset not loaded yet", log.String("dataset", datasetPath), log.ErrorField(err))
	}

	opts := []webserver.Option{webserver.WithTitle(config.Title)}
	if config.DB != "" {
		runs, err := store.NewManager(config.DB)
		if err != nil {
			log.Warn("run history not available", log.String("db", config.DB), log.ErrorField(err))
		} else {
			defer runs.Close()
			opts = append(opts, webserver.WithRunStore(runs))
		}
	}

	m := webserver.NewManager(dataset, opts...)
	go m.Watch(ctx, watchInterval)
	return m.Serve(ctx, config.Addr)
}
