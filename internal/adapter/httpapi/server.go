// Package httpapi exposes the normalized emergency feeds to the presentation
// layer. Upstream failure is absorbed here: the emergency endpoints always
// answer 200 with the best batch available (live, cached, stale, or seed)
// and report the degradation in the body's source tag instead of the status
// code.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MDCYT/peru-scanner/internal/adapter/bomberos"
	"github.com/MDCYT/peru-scanner/internal/adapter/skyline"
	"github.com/MDCYT/peru-scanner/internal/cache"
	"github.com/MDCYT/peru-scanner/internal/domain"
)

// envelope is the JSON shape shared by both emergency endpoints. CacheAge is
// a string ("12 minutos") on the dispatch endpoint and an integer minute
// count on the disaster endpoint.
type envelope struct {
	Success   bool                     `json:"success"`
	Count     int                      `json:"count"`
	Data      []domain.EmergencyRecord `json:"data"`
	Source    string                   `json:"source,omitempty"`
	CacheAge  any                      `json:"cacheAge,omitempty"`
	Timestamp string                   `json:"timestamp,omitempty"`
	Error     string                   `json:"error,omitempty"`
}

// Server serves the emergency feeds, camera session negotiation, health, and
// metrics endpoints.
type Server struct {
	httpServer *http.Server
	dispatch   *cache.Store
	disaster   *cache.Store
	sessions   *skyline.SessionClient
	logger     *slog.Logger
}

// NewServer wires the routes. dispatch and disaster are the per-source
// caches; sessions handles the special-provider camera negotiation.
func NewServer(addr string, dispatch, disaster *cache.Store, sessions *skyline.SessionClient, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 2 * time.Minute, // a cold read waits for a full retry cycle
			IdleTimeout:  60 * time.Second,
		},
		dispatch: dispatch,
		disaster: disaster,
		sessions: sessions,
		logger:   logger,
	}

	mux.HandleFunc("GET /dispatch-emergencies", s.handleDispatch)
	mux.HandleFunc("GET /disaster-emergencies", s.handleDisaster)
	mux.HandleFunc("GET /camera-session", s.handleCameraSession)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleDispatch serves the fire-department feed. With no live data and no
// cache it falls back to the built-in seed batch and still reports success.
func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	res := s.dispatch.Get(r.Context())

	env := envelope{
		Success:   true,
		Count:     len(res.Records),
		Data:      res.Records,
		Timestamp: res.FetchedAt.UTC().Format(time.RFC3339),
	}

	switch res.Outcome {
	case cache.OutcomeLive:
		env.Source = "real"
	case cache.OutcomeFresh:
		env.Source = "cache"
		env.CacheAge = fmt.Sprintf("%d minutos", int(res.Age.Minutes()))
	case cache.OutcomeExpired:
		env.Source = "cache (expired, fallback)"
		env.CacheAge = fmt.Sprintf("%d minutos", int(res.Age.Minutes()))
		if res.Err != nil {
			env.Error = res.Err.Error()
		}
	case cache.OutcomeEmpty:
		seed := bomberos.SeedRecords()
		env.Data = seed
		env.Count = len(seed)
		if res.Err != nil {
			env.Source = "mock (fallback)"
			env.Error = res.Err.Error()
		} else {
			env.Source = "mock"
		}
	}

	if env.Data == nil {
		env.Data = []domain.EmergencyRecord{}
	}
	writeJSON(w, http.StatusOK, env)
}

// handleDisaster serves the INDECI feed. There is no seed dataset for this
// source: total failure with no cache yields success=false, still HTTP 200.
func (s *Server) handleDisaster(w http.ResponseWriter, r *http.Request) {
	res := s.disaster.Get(r.Context())

	env := envelope{
		Success:   true,
		Count:     len(res.Records),
		Data:      res.Records,
		Timestamp: res.FetchedAt.UTC().Format(time.RFC3339),
	}

	switch res.Outcome {
	case cache.OutcomeLive:
		env.Source = "real"
	case cache.OutcomeFresh:
		env.Source = "cache"
		env.CacheAge = int(res.Age.Minutes())
	case cache.OutcomeExpired:
		if res.Err != nil {
			env.Source = "expired-cache-fallback"
		} else {
			env.Source = "expired-cache"
		}
	case cache.OutcomeEmpty:
		env.Success = false
		env.Data = []domain.EmergencyRecord{}
		env.Timestamp = ""
		if res.Err != nil {
			env.Error = res.Err.Error()
		} else {
			env.Error = "no data available"
		}
	}

	if env.Data == nil {
		env.Data = []domain.EmergencyRecord{}
	}
	writeJSON(w, http.StatusOK, env)
}

// handleCameraSession negotiates a special-provider viewer session for the
// camera page given in the url parameter.
func (s *Server) handleCameraSession(w http.ResponseWriter, r *http.Request) {
	pageURL := r.URL.Query().Get("url")
	if pageURL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "url parameter is required"})
		return
	}

	sessionID, err := s.sessions.FetchSessionID(r.Context(), pageURL, r.Header.Get("User-Agent"))
	if err != nil {
		if errors.Is(err, skyline.ErrNoSessionCookie) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		s.logger.Warn("camera session negotiation failed", "url", pageURL, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch session"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "sessionId": sessionID})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
