// Package serve exposes the interaction core over HTTP.
//
// The service is stateless: layout and replay requests carry their own
// events and geometry, so any instance can answer any request. Recognizer
// thresholds come from the server's profile, which makes the service a
// convenient harness for tuning: replay the same trace against instances
// started with different profiles and diff the intent logs.
//
// # Endpoints
//
//	GET  /healthz    liveness and version
//	POST /v1/layout  events + geometry -> positioned boxes
//	POST /v1/replay  recorded trace -> committed intents
package serve

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/timegrid/pkg/buildinfo"
	apperrors "github.com/matzehuels/timegrid/pkg/errors"
	"github.com/matzehuels/timegrid/pkg/event"
	"github.com/matzehuels/timegrid/pkg/gesture"
	"github.com/matzehuels/timegrid/pkg/layout"
	"github.com/matzehuels/timegrid/pkg/trace"
	"github.com/matzehuels/timegrid/pkg/viewmode"
)

// Server answers layout and replay requests with the profile's recognizer
// thresholds.
type Server struct {
	logger  *log.Logger
	gesture gesture.Options
	view    viewmode.Options
}

// New creates a server using the given recognizer and view options.
func New(logger *log.Logger, gopts gesture.Options, vopts viewmode.Options) *Server {
	return &Server{logger: logger, gesture: gopts, view: vopts}
}

// Router builds the HTTP routing table.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/replay", s.handleReplay)
	})

	return r
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// LayoutRequest asks for the box layout of one day.
type LayoutRequest struct {
	Day      time.Time      `json:"day"`
	Geometry trace.Geometry `json:"geometry"`
	Events   []event.Event  `json:"events"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode layout request"))
		return
	}
	if req.Day.IsZero() {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "layout request missing day"))
		return
	}
	for _, ev := range req.Events {
		if err := ev.Validate(); err != nil {
			writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidEvent, err, "invalid event %s", ev.ID))
			return
		}
	}

	engine := layout.NewEngine(req.Geometry.Mapper(), req.Geometry.Width)
	writeJSON(w, http.StatusOK, engine.LayoutDay(req.Events, req.Day))
}

func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	var rec trace.Recording
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode recording"))
		return
	}

	result, err := trace.Replay(rec, s.gesture, s.view)
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidTrace, err, "replay recording"))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// =============================================================================
// Response Helpers
// =============================================================================

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	writeJSON(w, statusFor(code), errorBody{
		Code:    string(code),
		Message: apperrors.UserMessage(err),
	})
}

// statusFor maps error codes onto HTTP statuses.
func statusFor(code apperrors.Code) int {
	switch code {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidEvent,
		apperrors.ErrCodeInvalidTrace, apperrors.ErrCodeInvalidMode,
		apperrors.ErrCodeInvalidColor, apperrors.ErrCodeInvalidPath,
		apperrors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeEventNotFound,
		apperrors.ErrCodeTraceNotFound, apperrors.ErrCodeCalendarNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeStoreUnavailable, apperrors.ErrCodeTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// =============================================================================
// Middleware
// =============================================================================

// requestLogger logs one line per request with status and timing.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).Round(time.Microsecond))
		})
	}
}
