package webserver

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"f1fastestlaps/log"
	"f1fastestlaps/pkg/dashboard"
)

type indexData struct {
	Title      string
	ChartTitle string
	Query      dashboard.Query
	Options    dashboard.Options
	Metrics    dashboard.Metrics
	Rows       []dashboard.Row
	ChartURL   string
	Error      string
}

func (m *Manager) indexHandler(w http.ResponseWriter, r *http.Request) {
	data := indexData{Title: m.title}
	entries, _, err := m.dataset.Load()
	if err != nil && entries == nil {
		data.Error = "No dataset available yet: " + err.Error()
		m.renderIndex(w, http.StatusServiceUnavailable, data)
		return
	}

	data.Options = dashboard.OptionsOf(entries)
	q := dashboard.DefaultQuery(data.Options)
	if len(r.URL.Query()) > 0 {
		if q, err = parseQuery(r); err != nil {
			data.Error = err.Error()
			m.renderIndex(w, http.StatusBadRequest, data)
			return
		}
	}
	filtered := dashboard.Filter(entries, q)
	data.Query = q
	data.ChartTitle = dashboard.ChartTitle(q)
	data.Metrics = dashboard.ComputeMetrics(filtered)
	data.Rows = dashboard.Rows(filtered)
	data.ChartURL = "/chart.png?" + queryValues(q).Encode()
	m.renderIndex(w, http.StatusOK, data)
}

func (m *Manager) renderIndex(w http.ResponseWriter, status int, data indexData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := indexTemplate.Execute(w, data); err != nil {
		log.Error("rendering index", log.ErrorField(err))
	}
}

func queryValues(q dashboard.Query) url.Values {
	v := url.Values{}
	if q.Year != 0 {
		v.Set("year", strconv.Itoa(q.Year))
	}
	if q.SessionType != "" {
		v.Set("sessionType", q.SessionType)
	}
	if q.Driver != "" {
		v.Set("driver", q.Driver)
	}
	if q.SessionName != "" {
		v.Set("sessionName", q.SessionName)
	}
	return v
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{ .Title }}</title>
  <style>
    body { font-family: sans-serif; max-width: 60rem; margin: 0 auto; }
    h1 { text-align: center; }
    h2 { color: #1E41FF; text-align: center; }
    .metrics { display: flex; gap: 4rem; justify-content: center; }
    .metric span { display: block; font-size: 2rem; }
    table { border-collapse: collapse; width: 100%; }
    td, th { border-bottom: 1px solid #ddd; padding: 0.3rem; text-align: left; }
  </style>
</head>
<body>
  <h1>{{ .Title }}</h1>
  {{ if .Error }}<p class="error">{{ .Error }}</p>{{ else }}
  <form method="get" action="/">
    <label>Select Year
      <select name="year">{{ range .Options.Years }}
        <option value="{{ . }}"{{ if eq . $.Query.Year }} selected{{ end }}>{{ . }}</option>{{ end }}
      </select>
    </label>
    <label>Select Session Type
      <select name="sessionType">{{ range .Options.SessionTypes }}
        <option{{ if eq . $.Query.SessionType }} selected{{ end }}>{{ . }}</option>{{ end }}
      </select>
    </label>
    <label>Driver
      <select name="driver">
        <option value="">All</option>{{ range .Options.Drivers }}
        <option{{ if eq . $.Query.Driver }} selected{{ end }}>{{ . }}</option>{{ end }}
      </select>
    </label>
    <label>Session
      <select name="sessionName">
        <option value="">All</option>{{ range .Options.SessionNames }}
        <option{{ if eq . $.Query.SessionName }} selected{{ end }}>{{ . }}</option>{{ end }}
      </select>
    </label>
    <button type="submit">Apply</button>
  </form>

  <h3>Key Stats</h3>
  <div class="metrics">
    <div class="metric">Total Races<span>{{ .Metrics.TotalRaces }}</span></div>
    <div class="metric">Best Lap<span>{{ .Metrics.BestLapText }}</span></div>
  </div>

  <h2>{{ .ChartTitle }}</h2>
  <img src="{{ .ChartURL }}" alt="{{ .ChartTitle }}" style="width: 100%">

  <table>
    <tr><th>Year</th><th>Driver Name</th><th>Driver Number</th><th>Race Location</th><th>Date</th><th>Session Name</th><th>Session Type</th><th>Fastest Lap Time</th></tr>
    {{ range .Rows }}<tr><td>{{ .Year }}</td><td>{{ .DriverName }}</td><td>{{ .DriverNumber }}</td><td>{{ .RaceLocation }}</td><td>{{ .Date }}</td><td>{{ .SessionName }}</td><td>{{ .SessionType }}</td><td>{{ .FastestLapTime }}</td></tr>
    {{ end }}
  </table>
  {{ end }}
  <script>
    const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');
    ws.onmessage = () => location.reload();
  </script>
</body>
</html>
`))
