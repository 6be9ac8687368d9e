package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"CandlePulse/internal/collector"
	"CandlePulse/internal/config"
	"CandlePulse/internal/metrics"
	"CandlePulse/internal/model"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server exposes the pipeline and the presentation boundary over HTTP.
type Server struct {
	Cfg       *config.Config
	Collector *collector.Collector
	Hub       *Hub
	Metrics   *metrics.Metrics

	mu          sync.Mutex
	lastCommand *CommandEvent
}

// NewServer creates the dashboard server.
func NewServer(cfg *config.Config, col *collector.Collector, hub *Hub, m *metrics.Metrics) *Server {
	return &Server{Cfg: cfg, Collector: col, Hub: hub, Metrics: m}
}

// setCORS sets CORS headers for the REST endpoints.
func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// RegisterRoutes registers all HTTP routes on the provided mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/snapshot", s.handleSnapshot)
	mux.HandleFunc("/api/intervals", s.handleIntervals)
	mux.HandleFunc("/api/command", s.handleCommand)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("[WARN] ws upgrade: %v", err)
			return
		}
		s.Hub.Register(conn)
	})
	mux.Handle("/metrics", s.Metrics.Handler())
}

// Refresh runs one isolated pipeline pass and broadcasts the result. Used
// by both the snapshot handler and the cron scheduler.
func (s *Server) Refresh(ctx context.Context, market string, iv model.Interval, count int) (*model.Snapshot, error) {
	s.Metrics.RefreshesTotal.Inc()
	start := time.Now()

	snap, err := s.Collector.Collect(ctx, market, iv, s.Cfg.ClampCount(count))
	s.Metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.Metrics.RefreshFailuresTotal.WithLabelValues(failureKind(err)).Inc()
		return nil, err
	}

	s.Hub.Broadcast("snapshot", map[string]interface{}{
		"market":     snap.Market,
		"interval":   snap.Interval.String(),
		"status":     FormatStatus(snap),
		"fetched_at": snap.FetchedAt,
	})
	return snap, nil
}

func failureKind(err error) string {
	var ue *model.UpstreamError
	var me *model.MalformedDataError
	switch {
	case errors.As(err, &ue):
		return "upstream"
	case errors.As(err, &me):
		return "malformed"
	default:
		return "other"
	}
}

// handleSnapshot serves GET /api/snapshot?market=&interval=&count=.
// A hard pipeline error withholds the whole payload; no partial chart.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		return
	}

	market := r.URL.Query().Get("market")
	if market == "" {
		market = s.Cfg.Market.Symbol
	}

	ivName := r.URL.Query().Get("interval")
	if ivName == "" {
		ivName = s.Cfg.Market.Interval
	}
	iv, err := model.ParseInterval(ivName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	count := s.Cfg.Market.Count
	if v := r.URL.Query().Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "count must be an integer")
			return
		}
		count = n
	}

	snap, err := s.Refresh(r.Context(), market, iv, count)
	if err != nil {
		log.Printf("[ERROR] refresh %s/%s: %v", market, iv, err)
		var ue *model.UpstreamError
		if errors.As(err, &ue) {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, buildSnapshotResponse(snap, s.Cfg.Dashboard.TailRows))
}

// handleIntervals serves the interval enum for the UI selector.
func (s *Server) handleIntervals(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	writeJSON(w, http.StatusOK, model.Intervals())
}

// handleCommand receives forwarded chat utterances from the relay.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}

	var body struct {
		UserMsg string `json:"user_msg"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	evt := &CommandEvent{UserMsg: body.UserMsg, ReceivedAt: time.Now()}
	s.mu.Lock()
	s.lastCommand = evt
	s.mu.Unlock()

	s.Metrics.CommandsTotal.Inc()
	log.Printf("[INFO] command received: %q", body.UserMsg)
	s.Hub.Broadcast("command", evt)

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// LastCommand returns the most recently forwarded utterance, if any.
func (s *Server) LastCommand() *CommandEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCommand
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
