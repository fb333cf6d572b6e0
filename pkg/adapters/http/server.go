// Package http serves the machine registry over REST.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/arvholm/espalier"
	"github.com/arvholm/espalier/internal/presentation/graph"
	"github.com/arvholm/espalier/pkg/definition"
	"github.com/arvholm/espalier/pkg/dfa"
	"github.com/arvholm/espalier/pkg/observability"
	"github.com/arvholm/espalier/pkg/ports"
)

// Server exposes a ports.Registry over HTTP.
type Server struct {
	Registry ports.Registry
	Streams  *StreamManager
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics instruments requests and mounts the /metrics endpoint.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewHandler creates the HTTP handler for the registry.
func NewHandler(reg ports.Registry, opts ...Option) http.Handler {
	server := &Server{
		Registry: reg,
		Streams:  NewStreamManager(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	if server.metrics != nil {
		r.Use(server.metrics.Middleware)
	}

	// Swagger UI
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/events", server.SubscribeEvents)

	r.Route("/machines", func(r chi.Router) {
		r.Get("/", server.ListMachines)
		r.Post("/", server.RegisterMachine)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", server.GetMachine)
			r.Delete("/", server.DeleteMachine)
			r.Post("/read", server.ReadString)
			r.Post("/test", server.TestString)
			r.Get("/graph", server.GetGraph)
		})
	})

	if server.metrics != nil {
		r.Handle("/metrics", server.metrics.Handler())
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Espalier API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// RegisterMachine handles the POST /machines request.
func (s *Server) RegisterMachine(w http.ResponseWriter, r *http.Request) {
	var def definition.Definition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Register: Invalid request body", "error", err)
		return
	}

	stored, warnings, err := s.Registry.Register(r.Context(), &def)
	if s.metrics != nil {
		s.metrics.ObserveRegistration(err)
	}
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, definition.ErrUnnamed) {
			status = http.StatusBadRequest
		}
		s.respondJSON(w, status, ErrorResponse{Error: err.Error(), Warnings: warnings})
		s.logger.Warn("Register: Definition rejected", "name", def.Name, "error", err)
		return
	}

	s.broadcastEvent("registered", def.Name)
	s.respondJSON(w, http.StatusCreated, RegisterResponse{
		Name:      stored.Definition.Name,
		Revision:  stored.Revision,
		UpdatedAt: stored.UpdatedAt,
		Warnings:  warnings,
	})
}

// ListMachines handles the GET /machines request.
func (s *Server) ListMachines(w http.ResponseWriter, r *http.Request) {
	names, err := s.Registry.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.logger.Error("List failed", "error", err)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.respondJSON(w, http.StatusOK, ListResponse{Machines: names})
}

// GetMachine handles the GET /machines/{name} request. The response carries
// the stored definition plus the sink states derived from the compiled
// machine.
func (s *Server) GetMachine(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	stored, err := s.Registry.Definition(r.Context(), name)
	if err != nil {
		s.writeQueryError(w, name, err)
		return
	}
	m, err := s.Registry.Machine(r.Context(), name)
	if err != nil {
		s.writeQueryError(w, name, err)
		return
	}

	sinks := make([]string, 0, len(m.Sinks()))
	for _, state := range m.Sinks() {
		sinks = append(sinks, string(state))
	}
	s.respondJSON(w, http.StatusOK, MachineResponse{Stored: *stored, Sinks: sinks})
}

// DeleteMachine handles the DELETE /machines/{name} request.
func (s *Server) DeleteMachine(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.Registry.Remove(r.Context(), name); err != nil {
		s.writeQueryError(w, name, err)
		return
	}
	s.broadcastEvent("removed", name)
	w.WriteHeader(http.StatusNoContent)
}

// ReadString handles the POST /machines/{name}/read request.
func (s *Server) ReadString(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var body QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Read: Invalid request body", "error", err)
		return
	}

	start := time.Now()
	state, err := s.Registry.Read(r.Context(), name, body.Input)
	if s.metrics != nil {
		s.metrics.ObserveQuery(name, "read", start, err)
	}
	if err != nil {
		s.writeQueryError(w, name, err)
		return
	}

	s.respondJSON(w, http.StatusOK, ReadResponse{Input: body.Input, State: string(state)})
}

// TestString handles the POST /machines/{name}/test request.
func (s *Server) TestString(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var body QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Test: Invalid request body", "error", err)
		return
	}

	start := time.Now()
	accepted, err := s.Registry.Test(r.Context(), name, body.Input)
	if s.metrics != nil {
		s.metrics.ObserveQuery(name, "test", start, err)
	}
	if err != nil {
		s.writeQueryError(w, name, err)
		return
	}
	if s.metrics != nil {
		s.metrics.ObserveVerdict(name, accepted)
	}

	s.respondJSON(w, http.StatusOK, TestResponse{Input: body.Input, Accepted: accepted})
}

// GetGraph handles the GET /machines/{name}/graph request. The format query
// parameter selects mermaid (default) or dot output.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "mermaid"
	}

	m, err := s.Registry.Machine(r.Context(), name)
	if err != nil {
		s.writeQueryError(w, name, err)
		return
	}

	var out string
	switch format {
	case "mermaid":
		out = graph.GenerateMermaid(m, nil)
	case "dot":
		out = graph.GenerateDOT(m)
	default:
		http.Error(w, fmt.Sprintf("Unknown format %q, want mermaid or dot", format), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(out))
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}

	s.respondJSON(w, http.StatusOK, map[string]string{
		"app":         "espalier-http",
		"version":     espalier.Version,
		"api_version": apiVersion,
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "error", err)
	}
}

// writeQueryError maps registry errors onto HTTP statuses.
func (s *Server) writeQueryError(w http.ResponseWriter, name string, err error) {
	var unknown *dfa.UnknownInputError
	switch {
	case errors.Is(err, definition.ErrNotFound):
		s.respondJSON(w, http.StatusNotFound, ErrorResponse{Error: fmt.Sprintf("machine %q not registered", name)})
	case errors.As(err, &unknown):
		pos := unknown.Position
		s.respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:    err.Error(),
			Symbol:   string(unknown.Symbol),
			Position: &pos,
		})
	default:
		s.respondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		s.logger.Error("Query failed", "machine", name, "error", err)
	}
}

func (s *Server) broadcastEvent(event, name string) {
	msg, err := json.Marshal(map[string]string{"event": event, "name": name})
	if err != nil {
		return
	}
	s.Streams.Broadcast(string(msg))
}

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan<- string]struct{}
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan<- string]struct{}),
	}
}

func (sm *StreamManager) Subscribe() (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
		}
	}
}

// SubscribeEvents handles the GET /events request (SSE). Registry mutations
// made through this server are broadcast as {"event": ..., "name": ...}.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
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
