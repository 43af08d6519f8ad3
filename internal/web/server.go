// Package web is the deployment origin for nag clients: it publishes the version
// descriptor and help document and pushes updateFound to connected agents.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"nag-cli/internal/agent"
	"nag-cli/internal/docs"
	"nag-cli/internal/model"

	"github.com/rs/cors"
)

type ServerConfig struct {
	Addr string

	// Version is served when VersionFile is empty.
	Version float64
	// VersionFile is a JSON descriptor ({"version": N, ...}) re-read on every request,
	// so a deploy only has to rewrite this file.
	VersionFile string

	// PollInterval is how often the version source is checked for changes.
	PollInterval time.Duration

	CORSOrigins []string
	Logger      *slog.Logger
}

type Server struct {
	cfg ServerConfig
	log *slog.Logger
	hub *feedHub

	mu   sync.Mutex
	last *model.Version
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("web: missing addr")
	}
	if cfg.VersionFile == "" && cfg.Version < 0 {
		return nil, errors.New("web: version must not be negative")
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	log := cfg.Logger.With("component", "web")
	return &Server{cfg: cfg, log: log, hub: newFeedHub(log)}, nil
}

func (s *Server) Addr() string {
	return strings.TrimSpace(s.cfg.Addr)
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /version.json", s.handleVersion)
	mux.HandleFunc("GET /help.md", s.handleHelp)
	mux.HandleFunc("GET /help", s.handleHelpHTML)
	mux.HandleFunc("GET "+agent.FeedPath, s.handleFeed)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Origin", "Accept", "Cache-Control"},
	})
	return c.Handler(mux)
}

// CurrentVersion reads the version source.
func (s *Server) CurrentVersion() (model.Version, error) {
	if s.cfg.VersionFile == "" {
		return model.Version{Version: s.cfg.Version}, nil
	}
	b, err := os.ReadFile(s.cfg.VersionFile)
	if err != nil {
		return model.Version{}, err
	}
	return model.ParseVersion(b)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	v, err := s.CurrentVersion()
	if err != nil {
		s.log.Error("read version", "err", err)
		http.Error(w, "version unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	lang := strings.TrimSpace(r.URL.Query().Get("lang"))
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(docs.Help(lang)))
}

// Run watches the version source and tells every agent when it changes.
// It returns when ctx ends.
func (s *Server) Run(ctx context.Context) {
	if v, err := s.CurrentVersion(); err == nil {
		s.setLast(v)
	}
	t := time.NewTicker(s.cfg.PollInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			s.hub.closeAll()
			return
		case <-t.C:
		}
		s.poll()
	}
}

func (s *Server) poll() {
	v, err := s.CurrentVersion()
	if err != nil {
		s.log.Debug("poll version", "err", err)
		return
	}
	if !s.setLast(v) {
		return
	}
	s.log.Info("deployed version changed", "version", v.Version)
	payload, err := json.Marshal(agent.UpdateFoundPayload{Version: v.Version})
	if err != nil {
		return
	}
	s.hub.broadcast(agent.Event{Event: agent.EventUpdateFound, Payload: payload})
}

// setLast records v and reports whether it differs from the previous observation.
// The first observation is not a change.
func (s *Server) setLast(v model.Version) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		s.last = &v
		return false
	}
	if s.last.Version == v.Version {
		return false
	}
	s.last = &v
	return true
}

// ListenAndServe serves until ctx ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go s.Run(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	s.log.Info("server starting", "addr", s.Addr())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}
