package bot

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"

	"f1fastestlaps/pkg/dashboard"
	"f1fastestlaps/pkg/helper"
	"f1fastestlaps/pkg/model"
)

const (
	commandStart = "start"
	commandHelp  = "help"
	commandYears = "years"
	commandLaps  = "laps"
	commandBest  = "best"

	tableDriver   = "PIL"
	tableLocation = "Location"
	tableTime     = "Time"
	tableGap      = "Gap"

	bestTop     = 10
	lapsPerPage = 12
)

const helpText = `/years - years in the dataset
/laps <year> [session type] - fastest laps per race location
/best <year> [session type] - best laps and gap to the fastest`

// Answer is the rendered reply to a command. Pages is above 1 when the
// text is one page of a longer laps table.
type Answer struct {
	Text  string
	Query dashboard.Query
	Page  int
	Pages int
}

// Reply renders the answer to a bot command. The text is meant to be sent
// inside a MarkdownV2 code block.
func Reply(entries []model.FastestLapEntry, command, args string) Answer {
	fields := strings.Fields(args)
	switch command {
	case commandStart, commandHelp:
		return Answer{Text: helpText}
	case commandYears:
		years := dashboard.OptionsOf(entries).Years
		if len(years) == 0 {
			return Answer{Text: "No data yet"}
		}
		return Answer{Text: "Years: " + strings.Join(lo.Map(years, func(y int, _ int) string { return strconv.Itoa(y) }), ", ")}
	case commandLaps, commandBest:
		q, err := queryOf(fields)
		if err != nil {
			return Answer{Text: err.Error() + "\n\n" + helpText}
		}
		if command == commandLaps {
			return LapsPage(entries, q, 0)
		}
		filtered := dashboard.Filter(entries, q)
		if len(filtered) == 0 {
			return Answer{Text: fmt.Sprintf("No laps for %s", describe(q)), Query: q}
		}
		return Answer{Text: bestTable(filtered, q), Query: q}
	}
	return Answer{Text: "Unknown command\n\n" + helpText}
}

// LapsPage renders one page of the laps table of q. Out of range pages are
// clamped.
func LapsPage(entries []model.FastestLapEntry, q dashboard.Query, page int) Answer {
	filtered := dashboard.Filter(entries, q)
	if len(filtered) == 0 {
		return Answer{Text: fmt.Sprintf("No laps for %s", describe(q)), Query: q}
	}
	pages := (len(filtered) + lapsPerPage - 1) / lapsPerPage
	page = max(0, min(page, pages-1))
	chunk := lo.Slice(filtered, page*lapsPerPage, page*lapsPerPage+lapsPerPage)

	title := fmt.Sprintf("Fastest laps %s", describe(q))
	if pages > 1 {
		title += fmt.Sprintf(" (%d/%d)", page+1, pages)
	}
	m := dashboard.ComputeMetrics(filtered)
	return Answer{
		Text:  fmt.Sprintf("%s\n\n%sTotal Races: %d\nBest Lap: %s", title, lapsTable(chunk), m.TotalRaces, m.BestLapText),
		Query: q,
		Page:  page,
		Pages: pages,
	}
}

func queryOf(fields []string) (dashboard.Query, error) {
	if len(fields) == 0 {
		return dashboard.Query{}, fmt.Errorf("a year is required")
	}
	year, err := strconv.Atoi(fields[0])
	if err != nil {
		return dashboard.Query{}, fmt.Errorf("invalid year %q", fields[0])
	}
	return dashboard.Query{Year: year, SessionType: strings.Join(fields[1:], " ")}, nil
}

func describe(q dashboard.Query) string {
	if q.SessionType == "" {
		return strconv.Itoa(q.Year)
	}
	return fmt.Sprintf("%d %s", q.Year, q.SessionType)
}

func lapsTable(entries []model.FastestLapEntry) string {
	var b bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&b)
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{tableDriver, tableLocation, tableTime})
	for _, e := range entries {
		t.AppendRow([]interface{}{
			helper.GetDriverCodeName(e.DriverName),
			shortLocation(e.RaceLocation),
			e.FastestLapTime,
		})
	}
	t.Render()
	return b.String()
}

func bestTable(entries []model.FastestLapEntry, q dashboard.Query) string {
	rows := dashboard.ChartRows(entries)
	if len(rows) == 0 {
		return fmt.Sprintf("No timed laps for %s", describe(q))
	}
	// fastest first
	slices.Reverse(rows)
	best := rows[0].LapSeconds.GetOrZero()

	var b bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&b)
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{tableDriver, tableLocation, tableTime, tableGap})
	for _, r := range lo.Slice(rows, 0, bestTop) {
		t.AppendRow([]interface{}{
			helper.GetDriverCodeName(r.DriverName),
			shortLocation(r.RaceLocation),
			r.FastestLapTime,
			helper.SecondsToDiff(r.LapSeconds.GetOrZero() - best),
		})
	}
	t.Render()
	return fmt.Sprintf("Best laps %s\n\n%s", describe(q), b.String())
}

// shortLocation keeps the location and drops the country.
func shortLocation(raceLocation string) string {
	location, _, _ := strings.Cut(raceLocation, ", ")
	return location
}
