package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/mock-interview/internal/ai"
	"github.com/jonathan/mock-interview/internal/config"
	"github.com/jonathan/mock-interview/internal/server/middleware"
	"github.com/jonathan/mock-interview/internal/session"
	"github.com/jonathan/mock-interview/internal/store"
)

// Server represents the HTTP server.
type Server struct {
	httpServer    *http.Server
	store         store.Store
	advisor       *ai.Advisor
	jwtService    *JWTService
	sessions      *session.Manager
	allowedOrigin string

	authHandler      *AuthHandler
	resumeHandler    *ResumeHandler
	interviewHandler *InterviewHandler
	userHandler      *UserHandler
}

// New creates a new server instance.
func New(cfg *config.ServerConfig) (*Server, error) {
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}

	var st store.Store
	if cfg.DatabaseURL != "" {
		st, err = store.ConnectPostgres(context.Background(), cfg.DatabaseURL, passwordConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Println("[store] using Postgres")
	} else {
		st = store.NewMemoryStore(passwordConfig)
		log.Println("[store] using in-memory store (set DATABASE_URL to persist data)")
	}

	advisor, err := ai.NewAdvisor(context.Background(), cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI advisor: %w", err)
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	jwtService := NewJWTService(jwtConfig)

	s := &Server{
		store:         st,
		advisor:       advisor,
		jwtService:    jwtService,
		sessions:      session.NewManager(st, advisor),
		allowedOrigin: cfg.AllowedOrigin,
	}
	s.authHandler = NewAuthHandler(st, jwtService)
	s.resumeHandler = NewResumeHandler(st, advisor, nil)
	s.interviewHandler = NewInterviewHandler(s.sessions)
	s.userHandler = NewUserHandler(st)

	// Setup router
	auth := middleware.Auth(jwtService.AsTokenValidator())
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", s.authHandler.Login)

	mux.Handle("GET /api/auth/me", auth(http.HandlerFunc(s.authHandler.Me)))
	mux.Handle("GET /api/user/profile", auth(http.HandlerFunc(s.userHandler.Profile)))

	mux.Handle("POST /api/resume/upload", auth(http.HandlerFunc(s.resumeHandler.Upload)))
	mux.Handle("GET /api/resume/analyses", auth(http.HandlerFunc(s.resumeHandler.List)))
	mux.Handle("GET /api/resume/analyses/{id}", auth(http.HandlerFunc(s.resumeHandler.Get)))

	mux.Handle("POST /api/interview/questions", auth(http.HandlerFunc(s.interviewHandler.Questions)))
	mux.Handle("POST /api/interview/evaluate", auth(http.HandlerFunc(s.interviewHandler.Evaluate)))
	mux.Handle("POST /api/interview/feedback", auth(http.HandlerFunc(s.interviewHandler.Feedback)))
	mux.Handle("GET /api/interview/history", auth(http.HandlerFunc(s.interviewHandler.History)))
	mux.Handle("GET /api/interview/history/{id}", auth(http.HandlerFunc(s.interviewHandler.Get)))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // AI calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the server's HTTP handler (for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if err := s.advisor.Close(); err != nil {
		log.Printf("Error closing AI advisor: %v", err)
	}
	s.store.Close()
	log.Println("Server stopped")
	return nil
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// withCORS adds CORS headers for the configured frontend origin.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// writeError writes an error JSON response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
