package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/stateworks"
	"github.com/aretw0/stateworks/internal/logging"
	"github.com/aretw0/stateworks/pkg/adapters/yamltable"
	"github.com/aretw0/stateworks/pkg/domain"
	"github.com/aretw0/stateworks/pkg/session"
	"github.com/aretw0/stateworks/pkg/wordcount"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxTableSize bounds the body of POST /machines.
const maxTableSize = 1 << 20

// Server exposes a session.Manager over HTTP.
type Server struct {
	Sessions *session.Manager
	Streams  *StreamManager

	gatherer prometheus.Gatherer
	logger   *slog.Logger
	output   io.Writer
}

// Option configures the Server.
type Option func(*Server)

// WithGatherer serves metrics from g instead of prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		if g != nil {
			s.gatherer = g
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOutput sets where print bindings of uploaded tables write.
func WithOutput(w io.Writer) Option {
	return func(s *Server) {
		if w != nil {
			s.output = w
		}
	}
}

// CreateResponse is the body returned by POST /machines.
type CreateResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Snapshot domain.Snapshot `json:"snapshot"`
}

// EventsRequest is the body of POST /machines/{id}/events.
type EventsRequest struct {
	Events []domain.EventTag `json:"events"`
}

// ReadResponse is the body returned by GET /machines/{id}/read/{action}.
type ReadResponse struct {
	Action domain.Action `json:"action"`
	Value  any           `json:"value"`
}

// NewServer creates a Server over sessions.
func NewServer(sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		Sessions: sessions,
		gatherer: prometheus.DefaultGatherer,
		logger:   logging.NewNop(),
		output:   io.Discard,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	return s
}

// NewHandler creates the HTTP handler for sessions.
func NewHandler(sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(sessions, opts...).Routes()
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/machines", func(r chi.Router) {
		r.Get("/", s.ListMachines)
		r.Post("/", s.CreateMachine)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetMachine)
			r.Delete("/", s.DeleteMachine)
			r.Post("/events", s.PostEvents)
			r.Get("/read/{action}", s.Read)
			r.Get("/stream", s.Stream)
		})
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	var actErr *domain.ActionError
	switch {
	case errors.Is(err, domain.ErrMachineNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCascadeLimit),
		errors.Is(err, domain.ErrUnreachableState):
		return http.StatusConflict
	case errors.As(err, &actErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, yamltable.ErrInvalidDocument),
		errors.Is(err, domain.ErrUnknownSignal),
		errors.Is(err, domain.ErrMissingState),
		errors.Is(err, domain.ErrUnknownInitial),
		errors.Is(err, domain.ErrDuplicateState),
		errors.Is(err, domain.ErrShadowedTransition),
		errors.Is(err, domain.ErrUnboundAction):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), op+" failed", "error", err)
	} else {
		s.logger.WarnContext(r.Context(), op+" rejected", "error", err, "status", code)
	}
	http.Error(w, fmt.Sprintf("%s error: %v", op, err), code)
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.ErrorContext(r.Context(), "response encode failed", "error", err)
	}
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]any{
		"app":      "stateworks-http",
		"version":  strings.TrimSpace(stateworks.Version),
		"machines": s.Sessions.Len(),
	})
}

// CreateMachine handles POST /machines. The body is a YAML table document;
// an empty body creates a word counter.
func (s *Server) CreateMachine(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxTableSize))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.WarnContext(r.Context(), "CreateMachine: invalid request body", "error", err)
		return
	}

	var id string
	if len(bytes.TrimSpace(body)) == 0 {
		id, err = s.Sessions.Create(r.Context(),
			wordcount.NewTable(false),
			wordcount.Registry(wordcount.DefaultKey, nil),
			stateworks.WithName("wordcount"))
	} else {
		var doc *yamltable.Document
		if doc, err = yamltable.Parse(body); err == nil {
			var m *yamltable.Machine
			if m, err = yamltable.Compile(doc, s.output); err == nil {
				id, err = s.Sessions.Create(r.Context(), m.Table, m.Registry,
					stateworks.WithName(m.Name),
					stateworks.WithMaxSteps(m.MaxSteps))
			}
		}
	}
	if err != nil {
		s.fail(w, r, "CreateMachine", err)
		return
	}

	info, err := s.Sessions.Info(r.Context(), id)
	if err != nil {
		s.fail(w, r, "CreateMachine", err)
		return
	}
	snap, err := s.Sessions.Inspect(r.Context(), id)
	if err != nil {
		s.fail(w, r, "CreateMachine", err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, CreateResponse{ID: id, Name: info.Name, Snapshot: snap})
}

// ListMachines handles GET /machines.
func (s *Server) ListMachines(w http.ResponseWriter, r *http.Request) {
	infos := make([]session.Info, 0, s.Sessions.Len())
	for _, id := range s.Sessions.List() {
		info, err := s.Sessions.Info(r.Context(), id)
		if errors.Is(err, domain.ErrMachineNotFound) {
			continue // deleted meanwhile
		}
		if err != nil {
			s.fail(w, r, "ListMachines", err)
			return
		}
		infos = append(infos, info)
	}
	s.writeJSON(w, r, http.StatusOK, infos)
}

// GetMachine handles GET /machines/{id}.
func (s *Server) GetMachine(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Sessions.Inspect(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, "GetMachine", err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, snap)
}

// DeleteMachine handles DELETE /machines/{id}.
func (s *Server) DeleteMachine(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.fail(w, r, "DeleteMachine", err)
		return
	}
	s.Streams.Close(id)
	w.WriteHeader(http.StatusNoContent)
}

// PostEvents handles POST /machines/{id}/events.
func (s *Server) PostEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body EventsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.WarnContext(r.Context(), "PostEvents: invalid request body", "error", err)
		return
	}

	snap, err := s.Sessions.Post(r.Context(), id, body.Events...)
	// A failed cycle may still have moved the machine.
	if !errors.Is(err, domain.ErrMachineNotFound) {
		if payload, mErr := json.Marshal(snap); mErr == nil {
			s.Streams.Broadcast(id, string(payload))
		}
	}
	if err != nil {
		s.fail(w, r, "PostEvents", err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, snap)
}

// Read handles GET /machines/{id}/read/{action}.
func (s *Server) Read(w http.ResponseWriter, r *http.Request) {
	action := domain.Action(chi.URLParam(r, "action"))
	v, err := s.Sessions.Read(r.Context(), chi.URLParam(r, "id"), action)
	if err != nil {
		s.fail(w, r, "Read", err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, ReadResponse{Action: action, Value: v})
}

// Stream handles GET /machines/{id}/stream (SSE). Every settled cycle
// triggered through PostEvents is pushed as a snapshot.
func (s *Server) Stream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.Sessions.Inspect(r.Context(), id); err != nil {
		s.fail(w, r, "Stream", err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.ErrorContext(r.Context(), "Stream: streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.DebugContext(r.Context(), "SSE client disconnected", "machine", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
