// Package hook receives GitHub webhook deliveries for the mirror and
// serves the live update feed.
package hook

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/google/go-github/v57/github"
)

// Dispatcher is the part of the sync orchestrator the receiver hands
// work to
type Dispatcher interface {
	// HandleWebhook queues one verified delivery. It never fails;
	// unroutable payloads are dropped downstream.
	HandleWebhook(eventType string, payload []byte)

	// Refresh queues a targeted re-fetch of one slice of the mirror
	Refresh(kind, key string) error
}

// Config holds receiver configuration
type Config struct {
	// Addr is the listen address in host:port form
	Addr string

	// Secret verifies webhook signatures. An empty secret skips
	// verification; use that for local development only.
	Secret string

	// Logger defaults to the standard logger
	Logger *log.Logger
}

// Server is the webhook receiver. It exposes POST /hook for GitHub
// deliveries, POST /refresh for manual re-syncs, GET /healthz and the
// /ws feed endpoint.
type Server struct {
	dispatcher Dispatcher
	feed       *Feed
	addr       string
	secret     string
	logger     *log.Logger
	mux        *http.ServeMux

	listener net.Listener
	server   *http.Server
}

// NewServer wires a receiver to its dispatcher and feed
func NewServer(dispatcher Dispatcher, feed *Feed, cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	s := &Server{
		dispatcher: dispatcher,
		feed:       feed,
		addr:       cfg.Addr,
		secret:     cfg.Secret,
		logger:     cfg.Logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/hook", s.handleHook)
	mux.HandleFunc("/refresh", s.handleRefresh)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/ws", feed.ServeWS)
	s.mux = mux

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Start listens on the configured address and serves in the background
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = ln

	s.server = &http.Server{
		Handler:      s,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		s.logger.Printf("listening on %s", ln.Addr())
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Printf("server error: %v", err)
		}
	}()

	return nil
}

// Addr returns the bound address, useful when Config.Addr picked port 0
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Shutdown disconnects feed subscribers and stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.feed.Close()
	if s.server == nil {
		return nil
	}
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}
	return nil
}

func (s *Server) handleHook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "POST only")
		return
	}

	payload, err := github.ValidatePayload(r, []byte(s.secret))
	if err != nil {
		s.logger.Printf("rejected delivery %s: %v", github.DeliveryID(r), err)
		writeError(w, http.StatusBadRequest, "bad_payload", "payload validation failed")
		return
	}
	eventType := github.WebHookType(r)
	if eventType == "" {
		writeError(w, http.StatusBadRequest, "bad_payload", "missing X-GitHub-Event header")
		return
	}

	s.dispatcher.HandleWebhook(eventType, payload)
	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":   "accepted",
		"delivery": github.DeliveryID(r),
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "POST only")
		return
	}

	var req struct {
		Kind string `json:"kind"`
		Key  string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json body")
		return
	}
	if err := s.dispatcher.Refresh(req.Kind, req.Key); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"clients": s.feed.ClientCount(),
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"code":    code,
		"message": message,
	})
}
