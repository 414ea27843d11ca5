package export

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"f1fastestlaps/pkg/model"
)

// RenderTable prints the dataset as a console table.
func RenderTable(w io.Writer, entries []model.FastestLapEntry) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)

	header := table.Row{}
	for _, h := range Header {
		header = append(header, h)
	}
	t.AppendHeader(header)
	for _, e := range entries {
		row := table.Row{}
		for _, v := range record(e) {
			row = append(row, v)
		}
		t.AppendRow(row)
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "", "Rows", len(entries)})
	t.Render()
}
