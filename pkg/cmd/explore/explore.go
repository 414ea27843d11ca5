package explore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"f1fastestlaps/log"
	"f1fastestlaps/pkg/config"
	"f1fastestlaps/pkg/openf1"
)

var (
	year        int
	sessionType string
)

func NewExploreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "prints what the sessions endpoint returns for a year",
		RunE: func(cmd *cobra.Command, args []string) error {
			timeout, err := config.APITimeout()
			if err != nil {
				log.Warn("Invalid timeout value. Using default", log.ErrorField(err))
			}
			client := openf1.NewClient(config.APIURL, timeout)
			return explore(cmd.Context(), client, os.Stdout)
		},
	}
	cmd.Flags().IntVar(&year, "year", 2023, "season to explore")
	cmd.Flags().StringVar(&sessionType, "session-type", "Race",
		"session type to explore (empty for all)")
	return cmd
}

type rawSessionSource interface {
	GetRawSessions(ctx context.Context, year int, sessionType string) ([]json.RawMessage, error)
}

func explore(ctx context.Context, source rawSessionSource, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	raw, err := source.GetRawSessions(ctx, year, sessionType)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Found %d sessions\n", len(raw))
	if len(raw) == 0 {
		return nil
	}
	var b bytes.Buffer
	if err := json.Indent(&b, raw[0], "", "  "); err != nil {
		return err
	}
	fmt.Fprintf(w, "First session:\n%s\n", b.String())
	return nil
}
