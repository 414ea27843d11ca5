package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nikoksr/notify"
	"github.com/nikoksr/notify/service/telegram"
	"github.com/pkg/errors"

	"f1fastestlaps/log"
	"f1fastestlaps/pkg/model"
)

const subjectExportFinished = "F1 fastest laps export finished:"

// Sender is satisfied by *notify.Notify.
type Sender interface {
	Send(ctx context.Context, subject, message string) error
}

// Summary describes a finished export.
type Summary struct {
	Dataset  string
	Mode     model.Mode
	Years    []int
	Rows     int
	Warnings int
	Took     time.Duration
}

func (s Summary) String() string {
	years := make([]string, 0, len(s.Years))
	for _, y := range s.Years {
		years = append(years, fmt.Sprint(y))
	}
	return fmt.Sprintf("Dataset: %s\nMode: %s\nYears: %s\nRows: %d\nWarnings: %d\nTook: %s",
		s.Dataset, s.Mode, strings.Join(years, ", "), s.Rows, s.Warnings, s.Took.Round(time.Millisecond))
}

type Manager struct {
	sender Sender
}

func NewManager(sender Sender) *Manager {
	return &Manager{sender: sender}
}

// NewTelegramManager sends notifications to the given telegram chats.
func NewTelegramManager(token string, chatIDs []int64) (*Manager, error) {
	if len(chatIDs) == 0 {
		return nil, errors.New("no chat ids to notify")
	}
	tg, err := telegram.New(token)
	if err != nil {
		return nil, errors.Wrap(err, "telegram service")
	}
	tg.AddReceivers(chatIDs...)
	return NewManager(notify.NewWithServices(tg)), nil
}

// ExportFinished notifies about a finished export. A nil manager does
// nothing so callers need no guard when notifications are disabled.
func (m *Manager) ExportFinished(ctx context.Context, s Summary) error {
	if m == nil || m.sender == nil {
		return nil
	}
	log.Info("sending export notification", log.String("dataset", s.Dataset))
	if err := m.sender.Send(ctx, subjectExportFinished, s.String()); err != nil {
		return errors.Wrap(err, "send notification")
	}
	return nil
}
