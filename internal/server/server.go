package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/ai-workspace/internal/config"
	"github.com/jonathan/ai-workspace/internal/db"
	"github.com/jonathan/ai-workspace/internal/gateway"
	"github.com/jonathan/ai-workspace/internal/modules"
	"github.com/jonathan/ai-workspace/internal/provider"
	"github.com/jonathan/ai-workspace/internal/server/middleware"
	"github.com/jonathan/ai-workspace/internal/server/ratelimit"
)

// backgroundValidateTimeout bounds the post-save credential check. The
// check runs detached from the request; the save response never waits on
// it, and an expired check simply logs.
const backgroundValidateTimeout = 15 * time.Second

// credentialStore is the persistence surface the settings handlers need.
type credentialStore interface {
	Credentials(ctx context.Context, userID uuid.UUID) (provider.CredentialSet, error)
	UpsertCredential(ctx context.Context, userID uuid.UUID, id provider.ID, cred provider.Credential) error
	DeleteCredential(ctx context.Context, userID uuid.UUID, id provider.ID) error
}

// chatInvoker is the slice of the gateway service the chat handlers use.
type chatInvoker interface {
	Invoke(ctx context.Context, userID uuid.UUID, messages []provider.ChatMessage, hint gateway.Hint, opts provider.Options) provider.Result
	ListAvailableModels(ctx context.Context, userID uuid.UUID) (map[provider.ID][]string, error)
}

// moduleRunner is the slice of the module suite the module handlers use.
type moduleRunner interface {
	GenerateContent(ctx context.Context, userID uuid.UUID, prompt string) provider.Result
	AnalyzeData(ctx context.Context, userID uuid.UUID, query string) provider.Result
	SearchMaterial(ctx context.Context, userID uuid.UUID, query string) provider.Result
}

// credentialProber confirms a credential against the live vendor.
type credentialProber interface {
	Validate(ctx context.Context, id provider.ID, key, secret string) bool
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	store       credentialStore
	gate        chatInvoker
	modules     moduleRunner
	prober      credentialProber
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService

	// validateTimeout is backgroundValidateTimeout unless a test shortens it.
	validateTimeout time.Duration
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
}

// New creates a new server instance wired against the real database and
// vendor registry.
func New(cfg Config) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	registry := provider.NewRegistry()
	service := gateway.New(registry, database, gateway.NewPolicy(), gateway.NewClassifier())
	suite := modules.New(service)
	service.SetModules(suite)

	s := &Server{
		db:              database,
		store:           database,
		gate:            service,
		modules:         suite,
		prober:          gateway.NewValidator(),
		rateLimiter:     ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		jwtService:      NewJWTService(jwtConfig),
		validateTimeout: backgroundValidateTimeout,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the full handler chain. Everything under /api/ requires a
// valid workspace token; health does not.
func (s *Server) routes() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("POST /api/chat", s.handleChat)
	api.HandleFunc("GET /api/models", s.handleListModels)

	api.HandleFunc("GET /api/settings/credentials", s.handleListCredentials)
	api.HandleFunc("PUT /api/settings/credentials/{provider}", s.handleSaveCredential)
	api.HandleFunc("DELETE /api/settings/credentials/{provider}", s.handleDeleteCredential)
	api.HandleFunc("POST /api/settings/credentials/{provider}/test", s.handleTestCredential)

	api.HandleFunc("POST /api/content/generate", s.handleGenerateContent)
	api.HandleFunc("POST /api/analysis/query", s.handleAnalyzeData)
	api.HandleFunc("POST /api/materials/search", s.handleSearchMaterial)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("/api/", middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(api))

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start begins listening for requests
func (s *Server) Start() error {
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

	if s.db != nil {
		s.db.Close()
	}
	log.Println("Server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware, keyed by client IP.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method) {
			s.errorResponse(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// extractClientID prefers the first X-Forwarded-For hop, falling back to
// the connection's remote address.
func (s *Server) extractClientID(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// jsonResponse writes a JSON response with the given status
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// pathProvider resolves the {provider} path segment, writing the error
// response itself on failure.
func (s *Server) pathProvider(w http.ResponseWriter, r *http.Request) (provider.ID, bool) {
	name := r.PathValue("provider")
	id, err := provider.Parse(name)
	if err != nil {
		perr := &ErrUnknownProvider{Name: name}
		s.errorResponse(w, HTTPStatus(perr), perr.Error())
		return "", false
	}
	return id, true
}

// requestUser pulls the authenticated user out of the request context.
func (s *Server) requestUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, false
	}
	return userID, true
}
