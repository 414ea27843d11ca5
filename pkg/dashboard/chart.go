package dashboard

import (
	"image/color"
	"io"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"f1fastestlaps/pkg/model"
)

var barColor = color.RGBA{R: 0x1E, G: 0x41, B: 0xFF, A: 0xFF}

// RenderChart writes a PNG horizontal bar chart of lap seconds by race
// location.
func RenderChart(w io.Writer, entries []model.FastestLapEntry, title string) error {
	rows := ChartRows(entries)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Fastest Lap Time (seconds)"
	p.Y.Label.Text = "Race Location"

	height := 6 * vg.Centimeter
	if len(rows) > 0 {
		values := make(plotter.Values, len(rows))
		labels := make([]string, len(rows))
		for i, r := range rows {
			values[i] = r.LapSeconds.GetOrZero()
			labels[i] = r.RaceLocation
		}
		bars, err := plotter.NewBarChart(values, 0.6*vg.Centimeter)
		if err != nil {
			return errors.Wrap(err, "bar chart")
		}
		bars.Horizontal = true
		bars.Color = barColor
		bars.LineStyle.Width = 0
		p.Add(bars)
		p.NominalY(labels...)
		height += vg.Length(len(rows)) * 0.8 * vg.Centimeter
	}

	writer, err := p.WriterTo(25*vg.Centimeter, height, "png")
	if err != nil {
		return errors.Wrap(err, "plot writer")
	}
	if _, err := writer.WriteTo(w); err != nil {
		return errors.Wrap(err, "write chart")
	}
	return nil
}

// ChartTitle names the chart after the selected driver, if any.
func ChartTitle(q Query) string {
	if q.Driver != "" {
		return q.Driver + "'s Fastest Laps"
	}
	return "Fastest Laps"
}
