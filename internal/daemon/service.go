// Package daemon provides the long-running portfolio monitor and its HTTP API.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/fireledger/fireledger/internal/model"
	"github.com/fireledger/fireledger/internal/pipeline"
	"github.com/fireledger/fireledger/internal/store"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr          string
	Schedule      string // cron spec, e.g. "@every 1m" or "*/5 * * * *"
	EventsBuffer  int
	HorizonMonths int
	Backend       string
}

// Snapshot is a compact portfolio state for status/event payloads.
type Snapshot struct {
	At                time.Time    `json:"at"`
	Records           int          `json:"records"`
	Goals             int          `json:"goals"`
	TotalPrincipal    float64      `json:"total_principal"`
	TotalMaturity     float64      `json:"total_maturity"`
	TotalInterest     float64      `json:"total_interest"`
	ROIPercent        model.Number `json:"roi_percent"`
	UpcomingCount     int          `json:"upcoming_maturities"`
	ProjectedAmount   model.Number `json:"projected_amount"`
	YearsToRetirement int          `json:"years_to_retirement"`
}

// Delta captures snapshot changes between refreshes.
type Delta struct {
	Records         int          `json:"records"`
	Goals           int          `json:"goals"`
	TotalPrincipal  float64      `json:"total_principal"`
	TotalMaturity   float64      `json:"total_maturity"`
	UpcomingCount   int          `json:"upcoming_maturities"`
	ProjectedAmount model.Number `json:"projected_amount"`
}

func (d Delta) isZero() bool {
	return d.Records == 0 &&
		d.Goals == 0 &&
		d.TotalPrincipal == 0 &&
		d.TotalMaturity == 0 &&
		d.UpcomingCount == 0 &&
		d.ProjectedAmount == 0
}

// Event is emitted whenever the portfolio snapshot changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastRefreshAt   time.Time `json:"last_refresh_at"`
	Schedule        string    `json:"schedule"`
	RefreshCount    int64     `json:"refresh_count"`
	Backend         string    `json:"backend"`
	HorizonMonths   int       `json:"horizon_months"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg   Config
	store store.Store
	log   logrus.FieldLogger
	now   func() time.Time

	mu            sync.RWMutex
	startedAt     time.Time
	lastRefreshAt time.Time
	refreshCount  int64
	lastError     string
	hasSnapshot   bool
	snapshot      Snapshot
	data          *pipeline.LoadResult
	report        pipeline.Report
	nextEventID   int64
	events        []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service reading from st.
func New(cfg Config, st store.Store, log logrus.FieldLogger) *Service {
	if cfg.Schedule == "" {
		cfg.Schedule = "@every 1m"
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8797"
	}
	if cfg.HorizonMonths < 0 {
		cfg.HorizonMonths = 0
	}

	return &Service{
		cfg:       cfg,
		store:     st,
		log:       log.WithField("component", "daemon"),
		now:       time.Now,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Router returns the HTTP routes served by the daemon.
func (s *Service) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	v1.HandleFunc("/summary", s.handleSummary).Methods(http.MethodGet)
	v1.HandleFunc("/categories", s.handleCategories).Methods(http.MethodGet)
	v1.HandleFunc("/maturities", s.handleMaturities).Methods(http.MethodGet)
	v1.HandleFunc("/distribution", s.handleDistribution).Methods(http.MethodGet)
	v1.HandleFunc("/projection", s.handleProjection).Methods(http.MethodGet)
	v1.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
	v1.HandleFunc("/stream", s.handleStream).Methods(http.MethodGet)
	return r
}

// Run serves the HTTP API and refreshes on the cron schedule until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(s.cfg.Schedule, func() { s.Refresh(ctx) }); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", s.cfg.Schedule, err)
	}

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Seed initial snapshot so status is useful immediately.
	s.Refresh(ctx)

	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	s.log.WithFields(logrus.Fields{"addr": s.cfg.Addr, "schedule": s.cfg.Schedule}).Info("daemon started")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("daemon http server: %w", err)
	}
}

// Refresh reloads the store and recomputes every view. Failures are kept
// as LastError and the previous snapshot stays in place.
func (s *Service) Refresh(ctx context.Context) {
	now := s.now()
	lr, err := pipeline.Load(ctx, s.store)
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastRefreshAt = now
		s.refreshCount++
		s.mu.Unlock()
		s.log.WithError(err).Warn("refresh failed")
		return
	}

	report := pipeline.BuildReport(lr, model.DateOf(now), s.cfg.HorizonMonths)
	snap := snapshotFromReport(lr, report, now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.data = lr
	s.report = report
	s.lastRefreshAt = now
	s.refreshCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: "snapshot", Timestamp: now, Snapshot: snap}
		publish = true
	} else if delta := diffSnapshots(prev, snap); !delta.isZero() {
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: "portfolio_delta", Timestamp: now, Snapshot: snap, Delta: delta}
		publish = true
	}
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"records": snap.Records,
		"took":    lr.Took,
	}).Debug("refreshed")

	if publish {
		s.publishEvent(ev)
	}
}

func snapshotFromReport(lr *pipeline.LoadResult, r pipeline.Report, at time.Time) Snapshot {
	return Snapshot{
		At:                at,
		Records:           len(lr.Records),
		Goals:             len(lr.Goals),
		TotalPrincipal:    r.Summary.TotalPrincipal,
		TotalMaturity:     r.Summary.TotalMaturity,
		TotalInterest:     r.Summary.TotalInterest,
		ROIPercent:        model.Number(r.Summary.ROIPercent),
		UpcomingCount:     len(r.Maturities),
		ProjectedAmount:   model.Number(r.Projection.ProjectedAmount),
		YearsToRetirement: r.Projection.YearsToRetirement,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Records:         curr.Records - prev.Records,
		Goals:           curr.Goals - prev.Goals,
		TotalPrincipal:  curr.TotalPrincipal - prev.TotalPrincipal,
		TotalMaturity:   curr.TotalMaturity - prev.TotalMaturity,
		UpcomingCount:   curr.UpcomingCount - prev.UpcomingCount,
		ProjectedAmount: numberDelta(prev.ProjectedAmount, curr.ProjectedAmount),
	}
}

// numberDelta treats two undefined values as unchanged, and a move between
// defined and undefined as an undefined change.
func numberDelta(prev, curr model.Number) model.Number {
	p, c := float64(prev), float64(curr)
	if math.IsNaN(p) && math.IsNaN(c) {
		return 0
	}
	return model.Number(c - p)
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

// Status returns the current runtime status.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastRefreshAt:   s.lastRefreshAt,
		Schedule:        s.cfg.Schedule,
		RefreshCount:    s.refreshCount,
		Backend:         s.cfg.Backend,
		HorizonMonths:   s.cfg.HorizonMonths,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) subscribe(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

// current returns the latest data and report, or false before the first
// successful refresh.
func (s *Service) current() (*pipeline.LoadResult, pipeline.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data, s.report, s.data != nil
}

// parseHorizon reads ?horizon=N, falling back to def when absent.
func parseHorizon(r *http.Request, def int) (int, error) {
	v := r.URL.Query().Get("horizon")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("horizon must be a non-negative integer, got %q", v)
	}
	return n, nil
}
