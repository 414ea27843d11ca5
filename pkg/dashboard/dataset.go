package dashboard

import (
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"

	"f1fastestlaps/log"
	"f1fastestlaps/pkg/export"
	"f1fastestlaps/pkg/model"
)

// Dataset is an exported CSV kept in memory. The file is read again only
// after its modification time or size changed.
type Dataset struct {
	path string

	mu      sync.Mutex
	modTime time.Time
	size    int64
	loaded  bool
	entries []model.FastestLapEntry
}

func NewDataset(path string) *Dataset {
	return &Dataset{path: path}
}

func (d *Dataset) Path() string {
	return d.path
}

// Load returns the current entries and whether they were read from disk in
// this call. On a read error the previous entries are kept.
func (d *Dataset) Load() ([]model.FastestLapEntry, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	info, err := os.Stat(d.path)
	if err != nil {
		return d.entries, false, errors.Wrap(err, "stat dataset")
	}
	if d.loaded && info.ModTime().Equal(d.modTime) && info.Size() == d.size {
		return d.entries, false, nil
	}
	entries, err := export.Load(d.path)
	if err != nil {
		return d.entries, false, err
	}
	d.entries = entries
	d.modTime = info.ModTime()
	d.size = info.Size()
	d.loaded = true
	log.Info("dataset loaded", log.String("path", d.path), log.Int("rows", len(entries)))
	return entries, true, nil
}
