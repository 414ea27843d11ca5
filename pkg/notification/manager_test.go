package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"f1fastestlaps/pkg/model"
)

type fakeSender struct {
	subject, message string
	err              error
}

func (f *fakeSender) Send(_ context.Context, subject, message string) error {
	f.subject, f.message = subject, message
	return f.err
}

func TestExportFinished(t *testing.T) {
	sender := &fakeSender{}
	m := NewManager(sender)

	err := m.ExportFinished(context.Background(), Summary{
		Dataset: "all_drivers_fastest_laps.csv", Mode: model.ModeAll,
		Years: []int{2023, 2024}, Rows: 812, Warnings: 2, Took: 95*time.Second + 1234*time.Microsecond,
	})
	require.NoError(t, err)
	assert.Equal(t, subjectExportFinished, sender.subject)
	assert.Equal(t, "Dataset: all_drivers_fastest_laps.csv\nMode: all\nYears: 2023, 2024\nRows: 812\nWarnings: 2\nTook: 1m35.001s", sender.message)
}

func TestExportFinishedError(t *testing.T) {
	m := NewManager(&fakeSender{err: errors.New("telegram down")})
	err := m.ExportFinished(context.Background(), Summary{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram down")
}

func TestNilManager(t *testing.T) {
	var m *Manager
	assert.NoError(t, m.ExportFinished(context.Background(), Summary{}))
}

func TestNewTelegramManagerNeedsChats(t *testing.T) {
	_, err := NewTelegramManager("token", nil)
	assert.Error(t, err)
}
