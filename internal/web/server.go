package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/mediaspawn/spawner-go/internal/config"
	"github.com/mediaspawn/spawner-go/internal/dispatch"
	"github.com/mediaspawn/spawner-go/internal/eventfeed"
	"github.com/mediaspawn/spawner-go/internal/profiles"
)

type Server struct {
	host string
	port int

	repo       *profiles.Repository
	dispatcher *dispatch.Dispatcher
	feed       *eventfeed.Client

	onProfileSaved func(profileID string, warnings []string)

	server    *http.Server
	startTime time.Time

	mu sync.RWMutex
}

func NewServer(settings config.DashboardSettings, repo *profiles.Repository, dispatcher *dispatch.Dispatcher) *Server {
	return &Server{
		host:       settings.Host,
		port:       settings.Port,
		repo:       repo,
		dispatcher: dispatcher,
		startTime:  time.Now(),
	}
}

func (s *Server) SetEventFeed(feed *eventfeed.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feed = feed
}

// SetProfileSavedCallback registers a hook invoked after a profile is
// written, carrying any validation warnings from its triggers.
func (s *Server) SetProfileSavedCallback(callback func(profileID string, warnings []string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onProfileSaved = callback
}

func getAuthCredentials() (username, password string) {
	return os.Getenv("DASHBOARD_USERNAME"), os.Getenv("DASHBOARD_PASSWORD")
}

func authEnabled() bool {
	username, password := getAuthCredentials()
	return username != "" && password != ""
}

func basicAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expectedUser, expectedPass := getAuthCredentials()
		if expectedUser == "" || expectedPass == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, pass, ok := r.BasicAuth()
		if !ok || user != expectedUser || pass != expectedPass {
			w.Header().Set("WWW-Authenticate", `Basic realm="Media Spawner Dashboard"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Trigger engine routes
	mux.HandleFunc("/api/triggers/validate", s.handleValidateTrigger)
	mux.HandleFunc("/api/triggers/next", s.handleNextActivation)

	// Profile routes
	mux.HandleFunc("/api/profiles", s.handleProfiles)
	mux.HandleFunc("/api/profiles/", s.handleProfileByID)

	// Spawn routes
	mux.HandleFunc("/api/spawns/", s.handleSpawnAction)

	// Status routes
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/commands", s.handleCommands)

	return mux
}

func (s *Server) Start() {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	var handler http.Handler = s.routes()
	if authEnabled() {
		handler = basicAuthMiddleware(handler)
		slog.Info("Web server authentication enabled")
	}

	s.server = &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	slog.Info("Web server starting", "url", "http://"+addr+"/")

	go func() {
		if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("Web server error", "error", err)
		}
	}()
}

func (s *Server) Stop() {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			slog.Warn("Web server shutdown error", "error", err)
		}
	}
}
