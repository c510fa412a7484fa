// Package server is the network surface for the ring: a small JSON API and
// an MCP tool server, both feeding the render loop's command queue.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/iburimskiy/led-ring/internal/animation"
	"github.com/iburimskiy/led-ring/internal/loop"
	"github.com/iburimskiy/led-ring/internal/ring"
)

// Controller is the part of the render loop the server talks to.
type Controller interface {
	Submit(kind animation.Kind, colors []ring.Color) animation.Command
	Snapshot() *loop.Snapshot
}

// Server routes HTTP requests. It implements http.Handler.
type Server struct {
	ctl    Controller
	log    logrus.FieldLogger
	router chi.Router
	mcp    *mcp.Server
}

// New wires the JSON API under /api and the MCP endpoint at mcpPath.
func New(ctl Controller, mcpPath, version string, log logrus.FieldLogger) *Server {
	s := &Server{
		ctl: ctl,
		log: log.WithField("component", "server"),
	}
	s.mcp = s.newMCPServer(version)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/commands", s.handleSubmit)
		r.Get("/state", s.handleState)
	})

	mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcp
	}, nil)
	r.Handle(mcpPath, mcpHandler)

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// MCP exposes the tool server, e.g. for stdio or in-memory transports.
func (s *Server) MCP() *mcp.Server {
	return s.mcp
}

// CommandRequest is the body of POST /api/commands.
type CommandRequest struct {
	Pattern string       `json:"pattern"`
	Colors  []ring.Color `json:"colors"`
}

// CommandResponse acknowledges a queued command.
type CommandResponse struct {
	ID      string         `json:"id"`
	Pattern animation.Kind `json:"pattern"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// validate holds the argument checks the render loop leaves to its callers.
func validate(kind animation.Kind, colors []ring.Color) error {
	if !kind.Valid() {
		return errors.Errorf("unknown pattern %d", kind)
	}
	if kind.NeedsColors() && len(colors) == 0 {
		return errors.Errorf("%s needs at least one color", kind)
	}
	return nil
}

// submit validates and queues a command on behalf of any front end.
func (s *Server) submit(kind animation.Kind, colors []ring.Color) (animation.Command, error) {
	if err := validate(kind, colors); err != nil {
		return animation.Command{}, err
	}
	if !kind.NeedsColors() {
		colors = nil
	}
	cmd := s.ctl.Submit(kind, colors)
	s.log.WithFields(logrus.Fields{
		"command_id": cmd.ID,
		"pattern":    kind,
		"colors":     len(colors),
	}).Info("command queued")
	return cmd, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req CommandRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	kind, err := animation.ParseKind(req.Pattern)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	cmd, err := s.submit(kind, req.Colors)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusAccepted, CommandResponse{ID: cmd.ID.String(), Pattern: cmd.Kind})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	snap := s.ctl.Snapshot()
	if snap == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "no frame rendered yet"})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func requestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.WithFields(logrus.Fields{
				"request_id": middleware.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start),
			}).Debug("http request")
		})
	}
}
