package webserver

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"f1fastestlaps/log"
	"f1fastestlaps/pkg/caster"
	"f1fastestlaps/pkg/dashboard"
	"f1fastestlaps/pkg/model"
	"f1fastestlaps/pkg/pubsub"
	"f1fastestlaps/pkg/store"
)

const topicDataset = "dataset"

var upgrader = websocket.Upgrader{} // use default options

// RunStore is the part of the run history the dashboard reads.
type RunStore interface {
	ListRuns(limit int) ([]store.Run, error)
	Entries(runID int64) ([]model.FastestLapEntry, error)
}

// ReloadEvent is pushed to websocket clients after the dataset changed.
type ReloadEvent struct {
	Dataset  string    `json:"dataset"`
	Rows     int       `json:"rows"`
	LoadedAt time.Time `json:"loadedAt"`
}

type Manager struct {
	r       *mux.Router
	title   string
	dataset *dashboard.Dataset
	runs    RunStore
	ps      *pubsub.PubSub[string]
	caster  caster.ChannelCaster[ReloadEvent]
}

type Option func(*Manager)

func WithRunStore(runs RunStore) Option {
	return func(m *Manager) {
		m.runs = runs
	}
}

func WithTitle(title string) Option {
	return func(m *Manager) {
		m.title = title
	}
}

func NewManager(dataset *dashboard.Dataset, opts ...Option) *Manager {
	m := &Manager{
		r:       mux.NewRouter(),
		title:   "F1 Fastest Laps Explorer",
		dataset: dataset,
		ps:      pubsub.NewPubSub[string](),
		caster:  caster.JSONChannelCaster[ReloadEvent]{},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.rootHandlers()
	return m
}

func (m *Manager) Handler() http.Handler {
	return m.r
}

func (m *Manager) rootHandlers() {
	m.r.HandleFunc("/", m.indexHandler).Methods(http.MethodGet)
	m.r.HandleFunc("/chart.png", m.chartHandler).Methods(http.MethodGet)
	m.r.HandleFunc("/ws", m.websocketHandler)

	api := m.r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/options", m.optionsHandler).Methods(http.MethodGet)
	api.HandleFunc("/laps", m.lapsHandler).Methods(http.MethodGet)
	api.HandleFunc("/metrics", m.metricsHandler).Methods(http.MethodGet)
	api.HandleFunc("/runs", m.runsHandler).Methods(http.MethodGet)
	api.HandleFunc("/runs/{id:[0-9]+}/entries", m.runEntriesHandler).Methods(http.MethodGet)
}

// Watch polls the dataset file and broadcasts a ReloadEvent each time it is
// read again. It returns when ctx is done.
func (m *Manager) Watch(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.reload()
		}
	}
}

func (m *Manager) reload() {
	entries, changed, err := m.dataset.Load()
	if err != nil {
		log.Warn("dataset not available", log.String("path", m.dataset.Path()), log.ErrorField(err))
		return
	}
	if !changed {
		return
	}
	payload, err := m.caster.To(ReloadEvent{Dataset: m.dataset.Path(), Rows: len(entries), LoadedAt: time.Now()})
	if err != nil {
		log.Error("encoding reload event", log.ErrorField(err))
		return
	}
	n := m.ps.Publish(topicDataset, payload)
	log.Debug("reload event published", log.Int("clients", n))
}

// Serve listens on addr until ctx is done and then shuts down gracefully.
func (m *Manager) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      m.r,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("webserver listening", log.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("webserver shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (m *Manager) websocketHandler(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade", log.ErrorField(err))
		return
	}
	defer c.Close()

	events := m.ps.Subscribe(topicDataset)
	defer m.ps.Unsubscribe(topicDataset, events)

	// the reader notices the client going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case payload, ok := <-events:
			if !ok {
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
				log.Debug("websocket write", log.ErrorField(err))
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func (m *Manager) entries(w http.ResponseWriter, r *http.Request) ([]model.FastestLapEntry, bool) {
	entries, _, err := m.dataset.Load()
	if err != nil && entries == nil {
		renderError(w, r, http.StatusServiceUnavailable, err)
		return nil, false
	}
	return entries, true
}

func (m *Manager) optionsHandler(w http.ResponseWriter, r *http.Request) {
	entries, ok := m.entries(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, dashboard.OptionsOf(entries))
}

func (m *Manager) lapsHandler(w http.ResponseWriter, r *http.Request) {
	entries, ok := m.entries(w, r)
	if !ok {
		return
	}
	q, err := parseQuery(r)
	if err != nil {
		renderError(w, r, http.StatusBadRequest, err)
		return
	}
	render.JSON(w, r, dashboard.Rows(dashboard.Filter(entries, q)))
}

func (m *Manager) metricsHandler(w http.ResponseWriter, r *http.Request) {
	entries, ok := m.entries(w, r)
	if !ok {
		return
	}
	q, err := parseQuery(r)
	if err != nil {
		renderError(w, r, http.StatusBadRequest, err)
		return
	}
	render.JSON(w, r, dashboard.ComputeMetrics(dashboard.Filter(entries, q)))
}

func (m *Manager) chartHandler(w http.ResponseWriter, r *http.Request) {
	entries, ok := m.entries(w, r)
	if !ok {
		return
	}
	q, err := parseQuery(r)
	if err != nil {
		renderError(w, r, http.StatusBadRequest, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	if err := dashboard.RenderChart(w, dashboard.Filter(entries, q), dashboard.ChartTitle(q)); err != nil {
		log.Error("rendering chart", log.ErrorField(err))
	}
}

func (m *Manager) runsHandler(w http.ResponseWriter, r *http.Request) {
	if m.runs == nil {
		render.JSON(w, r, []store.Run{})
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			renderError(w, r, http.StatusBadRequest, errors.Wrap(err, "limit"))
			return
		}
		limit = n
	}
	runs, err := m.runs.ListRuns(limit)
	if err != nil {
		renderError(w, r, http.StatusInternalServerError, err)
		return
	}
	render.JSON(w, r, runs)
}

func (m *Manager) runEntriesHandler(w http.ResponseWriter, r *http.Request) {
	if m.runs == nil {
		renderError(w, r, http.StatusNotFound, errors.New("run history disabled"))
		return
	}
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		renderError(w, r, http.StatusBadRequest, err)
		return
	}
	entries, err := m.runs.Entries(id)
	if err != nil {
		renderError(w, r, http.StatusInternalServerError, err)
		return
	}
	render.JSON(w, r, entries)
}

func parseQuery(r *http.Request) (dashboard.Query, error) {
	v := r.URL.Query()
	q := dashboard.Query{
		SessionType: v.Get("sessionType"),
		Driver:      v.Get("driver"),
		SessionName: v.Get("sessionName"),
	}
	if year := v.Get("year"); year != "" {
		n, err := strconv.Atoi(year)
		if err != nil {
			return q, errors.Errorf("invalid year %q", year)
		}
		q.Year = n
	}
	return q, nil
}

func renderError(w http.ResponseWriter, r *http.Request, status int, err error) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": err.Error()})
}
