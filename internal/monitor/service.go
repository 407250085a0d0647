// Package monitor provides the long-running transaction monitor service.
package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/tdnguyendev/mbwatch/internal/bank"
	"github.com/tdnguyendev/mbwatch/internal/config"
	"github.com/tdnguyendev/mbwatch/internal/message"
	"github.com/tdnguyendev/mbwatch/internal/model"
	"github.com/tdnguyendev/mbwatch/internal/weather"
)

// Bank is the slice of the bank client the monitor needs.
type Bank interface {
	LatestTransaction(ctx context.Context, from, to time.Time) (model.Transaction, bool, error)
	TransactionHistory(ctx context.Context, from, to time.Time) ([]model.Transaction, error)
}

// Notifier sends one formatted message to the chat group.
type Notifier interface {
	SendMessage(ctx context.Context, text string) error
}

// WeatherSource fetches current conditions.
type WeatherSource interface {
	Current(ctx context.Context, coordinates string) (*weather.Observation, error)
}

// Tracker persists the single last-seen transaction.
type Tracker interface {
	Last() (model.Transaction, bool, error)
	SaveLast(tx model.Transaction) error
}

// Config controls the monitor runtime behavior.
type Config struct {
	Account         string
	Coordinates     string
	Window          config.Window
	Interval        time.Duration
	WeatherInterval time.Duration
	Addr            string
	EventsBuffer    int
}

// Event is emitted for every message the monitor sends to the group.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"` // transaction, summary, weather, greeting, error
	Timestamp time.Time `json:"timestamp"`
	RefNo     string    `json:"ref_no,omitempty"`
	Amount    string    `json:"amount,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	Window          string    `json:"window"`
	InWindow        bool      `json:"in_window"`
	Account         string    `json:"account,omitempty"`
	LastRefNo       string    `json:"last_ref_no,omitempty"`
	TodayCount      int       `json:"today_count"`
	TodayTotal      string    `json:"today_total"`
	LastWeatherAt   time.Time `json:"last_weather_at,omitzero"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service runs the polling loop and the local status API.
type Service struct {
	cfg      Config
	bank     Bank
	notifier Notifier
	weather  WeatherSource
	tracker  Tracker
	log      *logrus.Logger
	now      func() time.Time

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	inWindow    bool
	lastRefNo   string
	todayCount  int
	todayTotal  decimal.Decimal
	lastWeather time.Time
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new monitor with the provided config and dependencies.
// weatherSrc may be nil, in which case weather reports are skipped.
func New(cfg Config, bankClient Bank, notifier Notifier, weatherSrc WeatherSource, tracker Tracker, log *logrus.Logger) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 10 * time.Second
	}
	if cfg.WeatherInterval <= 0 {
		cfg.WeatherInterval = 90 * time.Minute
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8879"
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Service{
		cfg:        cfg,
		bank:       bankClient,
		notifier:   notifier,
		weather:    weatherSrc,
		tracker:    tracker,
		log:        log,
		now:        time.Now,
		todayTotal: decimal.Zero,
		subs:       make(map[int]chan Event),
	}
}

// Run starts the status API and the polling loop until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	s.mu.Lock()
	s.startedAt = s.now()
	s.inWindow = s.cfg.Window.Contains(s.startedAt)
	s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.announce(ctx, "greeting", message.Startup(s.now()))
	s.log.WithFields(logrus.Fields{
		"window":   s.cfg.Window.String(),
		"interval": s.cfg.Interval,
		"addr":     s.cfg.Addr,
	}).Info("monitor started")

	// Seed the first poll so status is useful immediately.
	s.tick(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.shutdown(server)
			return nil
		case <-ticker.C:
			s.tick(ctx)
		case err := <-errCh:
			return fmt.Errorf("monitor http server: %w", err)
		}
	}
}

func (s *Service) shutdown(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.announce(ctx, "greeting", message.Shutdown(s.now()))
	s.log.Info("monitor stopped")
	_ = server.Shutdown(ctx)
}

// tick runs one scheduler step: window transitions first, then the in-window
// checks. Every failure is logged and the loop carries on.
func (s *Service) tick(ctx context.Context) {
	now := s.now()
	inWindow := s.cfg.Window.Contains(now)

	s.mu.Lock()
	wasInWindow := s.inWindow
	s.inWindow = inWindow
	s.lastPollAt = now
	s.pollCount++
	s.mu.Unlock()

	if inWindow != wasInWindow {
		if inWindow {
			s.enterWindow(ctx, now)
		} else {
			s.leaveWindow(ctx, now)
		}
	}

	if !inWindow {
		s.log.Debug("outside operating hours, skipping checks")
		return
	}

	if s.weatherDue(now) {
		s.weatherReport(ctx, now)
	}

	s.checkTransactions(ctx, now)
}

func (s *Service) enterWindow(ctx context.Context, now time.Time) {
	s.log.Info("operating window opened")

	s.mu.Lock()
	s.todayCount = 0
	s.todayTotal = decimal.Zero
	s.mu.Unlock()

	s.announce(ctx, "greeting", message.Morning())
	s.weatherReport(ctx, now)
}

func (s *Service) leaveWindow(ctx context.Context, now time.Time) {
	s.log.Info("operating window closed, sending daily summary")

	txs, err := s.bank.TransactionHistory(ctx, dayStart(now), now)
	if err != nil {
		s.setError(fmt.Errorf("daily summary: %w", err))
		s.log.WithError(err).Error("daily summary fetch failed")
		txs = nil
	}

	summary := model.Summarize(now, txs)
	s.announceEvent(ctx, Event{
		Type:   "summary",
		Amount: summary.TotalCredit.String(),
		Detail: fmt.Sprintf("%d transactions", summary.Count),
	}, message.DailySummary(summary))

	s.announce(ctx, "greeting", message.Goodnight())
}

func (s *Service) weatherDue(now time.Time) bool {
	if s.weather == nil || s.cfg.Coordinates == "" {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastWeather.IsZero() || now.Sub(s.lastWeather) >= s.cfg.WeatherInterval
}

func (s *Service) weatherReport(ctx context.Context, now time.Time) {
	if s.weather == nil || s.cfg.Coordinates == "" {
		return
	}

	obs, err := s.weather.Current(ctx, s.cfg.Coordinates)
	if err != nil {
		s.setError(fmt.Errorf("weather check: %w", err))
		s.log.WithError(err).Warn("weather check failed")
		return
	}

	s.mu.Lock()
	s.lastWeather = now
	runtime := now.Sub(s.startedAt)
	s.mu.Unlock()

	s.announceEvent(ctx, Event{
		Type:   "weather",
		Detail: obs.Current.Condition.Text,
	}, message.Weather(obs, runtime))
}

// checkTransactions fetches today's head transaction and notifies when it
// differs from the persisted last-seen record. The record is only persisted
// after the notification went out, so a failed send retries next tick.
func (s *Service) checkTransactions(ctx context.Context, now time.Time) {
	latest, ok, err := s.bank.LatestTransaction(ctx, dayStart(now), now)
	if err != nil {
		s.setError(fmt.Errorf("transaction check: %w", err))
		s.log.WithError(err).Warn("transaction check failed")
		s.reportError(ctx, err, now)
		return
	}
	if !ok {
		s.log.Debug("no transactions for today yet")
		s.clearError()
		return
	}

	last, hasLast, err := s.tracker.Last()
	if err != nil {
		s.setError(fmt.Errorf("loading last-seen record: %w", err))
		s.log.WithError(err).Error("tracker load failed")
		return
	}

	if !model.IsNew(latest, last, hasLast) {
		s.log.WithField("refNo", latest.RefNo).Debug("no new transactions")
		s.clearError()
		return
	}

	s.log.WithFields(logrus.Fields{
		"refNo":  latest.RefNo,
		"amount": latest.CreditAmount.String(),
	}).Info("new transaction detected")

	if err := s.notifier.SendMessage(ctx, message.Transaction(latest, s.cfg.Account)); err != nil {
		s.setError(fmt.Errorf("transaction notification: %w", err))
		s.log.WithError(err).Error("notification send failed, will retry next tick")
		return
	}

	if err := s.tracker.SaveLast(latest); err != nil {
		s.setError(fmt.Errorf("persisting last-seen record: %w", err))
		s.log.WithError(err).Error("tracker save failed")
		return
	}

	s.mu.Lock()
	s.lastRefNo = latest.RefNo
	s.todayCount++
	s.todayTotal = s.todayTotal.Add(latest.CreditAmount)
	s.lastError = ""
	s.mu.Unlock()

	s.publish(Event{
		Type:   "transaction",
		RefNo:  latest.RefNo,
		Amount: latest.CreditAmount.String(),
		Detail: latest.Description,
	})
}

// reportError forwards persistent, non-transient failures to the group.
// Maintenance windows are expected and stay local to the log.
func (s *Service) reportError(ctx context.Context, err error, now time.Time) {
	if errors.Is(err, bank.ErrMaintenance) || errors.Is(err, context.DeadlineExceeded) {
		return
	}
	if sendErr := s.notifier.SendMessage(ctx, message.Error(err, now)); sendErr != nil {
		s.log.WithError(sendErr).Error("error notification send failed")
		return
	}
	s.publish(Event{Type: "error", Detail: err.Error()})
}

// announce sends a message and records it as an event of the given type.
func (s *Service) announce(ctx context.Context, eventType, text string) {
	s.announceEvent(ctx, Event{Type: eventType}, text)
}

func (s *Service) announceEvent(ctx context.Context, ev Event, text string) {
	if err := s.notifier.SendMessage(ctx, text); err != nil {
		s.setError(fmt.Errorf("sending %s message: %w", ev.Type, err))
		s.log.WithError(err).WithField("type", ev.Type).Error("message send failed")
		return
	}
	s.publish(ev)
}

func (s *Service) setError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()
}

func (s *Service) clearError() {
	s.mu.Lock()
	s.lastError = ""
	s.mu.Unlock()
}

func (s *Service) publish(ev Event) {
	now := s.now()

	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID
	if ev.Timestamp.IsZero() {
		ev.Timestamp = now
	}
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

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		Window:          s.cfg.Window.String(),
		InWindow:        s.inWindow,
		Account:         s.cfg.Account,
		LastRefNo:       s.lastRefNo,
		TodayCount:      s.todayCount,
		TodayTotal:      s.todayTotal.String(),
		LastWeatherAt:   s.lastWeather,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
