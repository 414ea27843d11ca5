package export

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"f1fastestlaps/log"
	"f1fastestlaps/pkg/config"
	"f1fastestlaps/pkg/export"
	"f1fastestlaps/pkg/model"
	"f1fastestlaps/pkg/notification"
	"f1fastestlaps/pkg/openf1"
	"f1fastestlaps/pkg/pipeline"
	"f1fastestlaps/pkg/store"
)

type exportOptions struct {
	output      string
	sessionType string
	quiet       bool
	// single only
	driverNumber int
	driverName   string
}

func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "builds fastest lap datasets from the OpenF1 api",
	}
	cmd.AddCommand(newSingleCmd())
	cmd.AddCommand(newAllCmd())
	return cmd
}

func newSingleCmd() *cobra.Command {
	opts := exportOptions{}
	cmd := &cobra.Command{
		Use:   "single",
		Short: "fastest lap of one driver per session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), model.ModeSingle, opts)
		},
	}
	addCommonFlags(cmd, &opts)
	cmd.Flags().IntVar(&opts.driverNumber, "driver", model.DefaultDriverNumber, "driver number")
	cmd.Flags().StringVar(&opts.driverName, "driver-name", "",
		"name written to the dataset (default: api broadcast name, \""+
			model.DefaultDriverName+"\" for driver 1)")
	return cmd
}

func newAllCmd() *cobra.Command {
	opts := exportOptions{}
	cmd := &cobra.Command{
		Use:   "all",
		Short: "fastest lap of every driver per session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), model.ModeAll, opts)
		},
	}
	addCommonFlags(cmd, &opts)
	return cmd
}

func addCommonFlags(cmd *cobra.Command, opts *exportOptions) {
	cmd.Flags().StringVarP(&opts.output, "output", "o", "",
		"dataset file (default derived from the mode and driver)")
	cmd.Flags().StringVar(&opts.sessionType, "session-type", "",
		"restrict to one session type (Race, Qualifying, Practice, ...)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not print the dataset")
}

// resolve fills in the defaults that depend on other options.
func (o exportOptions) resolve(mode model.Mode) exportOptions {
	if mode != model.ModeSingle {
		o.driverNumber, o.driverName = 0, ""
		if o.output == "" {
			o.output = export.DefaultFileName(mode)
		}
		return o
	}
	if o.driverName == "" && o.driverNumber == model.DefaultDriverNumber {
		o.driverName = model.DefaultDriverName
	}
	if o.output == "" {
		o.output = export.DriverFileName(o.driverNumber)
	}
	return o
}

func runExport(ctx context.Context, mode model.Mode, opts exportOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	opts = opts.resolve(mode)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	timeout, err := config.APITimeout()
	if err != nil {
		log.Warn("Invalid timeout value. Using default", log.ErrorField(err), log.Duration("timeout", timeout))
	}
	client := openf1.NewClient(config.APIURL, timeout)
	p, err := pipeline.New(client, pipeline.Options{
		Mode:         mode,
		Years:        config.Years,
		DriverNumber: opts.driverNumber,
		DriverName:   opts.driverName,
		SessionType:  opts.sessionType,
	})
	if err != nil {
		return err
	}

	log.Info("export started",
		log.String("mode", string(mode)), log.Ints("years", config.Years), log.String("output", opts.output))
	res, err := p.Run(ctx)
	if err != nil {
		log.Warn("export aborted, dataset left untouched", log.String("output", opts.output), log.ErrorField(err))
		return err
	}
	if err := export.Write(opts.output, res.Entries); err != nil {
		log.Error("could not write dataset", log.String("output", opts.output), log.ErrorField(err))
		return err
	}
	log.Info("dataset written", log.String("output", opts.output), log.Int("rows", len(res.Entries)))

	if !opts.quiet {
		export.RenderTable(os.Stdout, res.Entries)
	}
	recordRun(mode, opts.output, res)
	notifyRun(ctx, mode, opts.output, res)
	return nil
}

func recordRun(mode model.Mode, output string, res *pipeline.Result) {
	if config.DB == "" {
		return
	}
	m, err := store.NewManager(config.DB)
	if err != nil {
		log.Warn("run history not available", log.String("db", config.DB), log.ErrorField(err))
		return
	}
	defer m.Close()

	run, err := m.SaveRun(store.Run{
		Dataset:    output,
		Mode:       mode,
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
		Warnings:   len(res.Warnings),
	}, res.Entries)
	if err != nil {
		log.Warn("could not record run", log.ErrorField(err))
		return
	}
	log.Info("run recorded", log.Int64("run", run.ID), log.String("db", config.DB))
}

func notifyRun(ctx context.Context, mode model.Mode, output string, res *pipeline.Result) {
	if config.TelegramToken == "" || len(config.NotifyChatIDs) == 0 {
		return
	}
	n, err := notification.NewTelegramManager(config.TelegramToken, config.NotifyChatIDs)
	if err != nil {
		log.Warn("notifications not available", log.ErrorField(err))
		return
	}
	err = n.ExportFinished(ctx, notification.Summary{
		Dataset:  output,
		Mode:     mode,
		Years:    config.Years,
		Rows:     len(res.Entries),
		Warnings: len(res.Warnings),
		Took:     res.FinishedAt.Sub(res.StartedAt),
	})
	if err != nil {
		log.Warn("could not send notification", log.ErrorField(err))
	}
}
