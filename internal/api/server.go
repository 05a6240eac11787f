// Package api provides the HTTP API server implementation.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/treasury-reporter/internal/bot"
	"github.com/treasury-reporter/internal/logging"
	"github.com/treasury-reporter/internal/models"
	"github.com/treasury-reporter/internal/service"
)

// Service interfaces for dependency injection and testing

// ReportServiceInterface defines the interface for report operations
type ReportServiceInterface interface {
	Portfolio(ctx context.Context) (*service.PortfolioReport, error)
	DueToday(ctx context.Context) (*service.DueReport, error)
	DueTomorrow(ctx context.Context) (*service.DueReport, error)
	DueWeek(ctx context.Context) (*service.DueWeekReport, error)
	Balances(ctx context.Context) (*service.BalancesReport, error)
	Alerts(ctx context.Context) (*service.AlertsReport, error)
	CUITLookup(ctx context.Context, term string) (*service.CUITReport, error)
	ExecutiveSummary(ctx context.Context) (*service.SummaryReport, error)
}

// AccessServiceInterface defines the interface for access gate operations
type AccessServiceInterface interface {
	Register(ctx context.Context, chatID, email string) (*models.AuthorizedUser, error)
	Authorize(ctx context.Context, chatID string) (*models.AuthorizedUser, error)
	Subscribe(ctx context.Context, chatID string) error
	Unsubscribe(ctx context.Context, chatID string) error
}

// Server represents the HTTP API server.
type Server struct {
	router     *mux.Router
	httpServer *http.Server
	reports    ReportServiceInterface
	access     AccessServiceInterface
	renderer   *bot.Renderer
	config     *ServerConfig
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host              string
	Port              string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	RequestsPerMinute int
	Burst             int
}

// NewServer creates a new API server instance.
func NewServer(
	config *ServerConfig,
	reports ReportServiceInterface,
	access AccessServiceInterface,
	renderer *bot.Renderer,
) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		reports:  reports,
		access:   access,
		renderer: renderer,
		config:   config,
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	rateLimiter := NewRateLimiter(s.config.RequestsPerMinute, s.config.Burst)

	// Set up middleware (order matters!)
	s.router.Use(RequestIDMiddleware)
	s.router.Use(LoggingMiddleware)
	s.router.Use(RecoveryMiddleware)
	s.router.Use(RateLimitMiddleware(rateLimiter))

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api/v1").Subrouter()

	// Conversational webhook endpoint
	api.HandleFunc("/webhook", s.handleWebhook).Methods("POST")

	// Report endpoints (authorized chats only)
	api.HandleFunc("/reports/portfolio", s.authorized(s.handlePortfolio)).Methods("GET")
	api.HandleFunc("/reports/due-today", s.authorized(s.handleDueToday)).Methods("GET")
	api.HandleFunc("/reports/due-tomorrow", s.authorized(s.handleDueTomorrow)).Methods("GET")
	api.HandleFunc("/reports/week", s.authorized(s.handleDueWeek)).Methods("GET")
	api.HandleFunc("/reports/balances", s.authorized(s.handleBalances)).Methods("GET")
	api.HandleFunc("/reports/alerts", s.authorized(s.handleAlerts)).Methods("GET")
	api.HandleFunc("/reports/summary", s.authorized(s.handleSummary)).Methods("GET")
	api.HandleFunc("/reports/cuit/{term}", s.authorized(s.handleCUITLookup)).Methods("GET")
}

// authorized wraps a report handler with the chat access gate. The caller
// identifies itself with the X-Chat-ID header.
func (s *Server) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID := r.Header.Get("X-Chat-ID")
		if chatID == "" {
			respondError(w, http.StatusUnauthorized, "MISSING_CHAT_ID", "X-Chat-ID header is required", nil)
			return
		}

		if _, err := s.access.Authorize(r.Context(), chatID); err != nil {
			logging.GetGlobalLogger().WithError(err).WithField("chat_id", chatID).Warn("Rejected unauthorized chat")
			respondCategorized(w, err)
			return
		}

		next(w, r)
	}
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "treasury-reporter",
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	logging.GetGlobalLogger().WithField("addr", s.httpServer.Addr).Info("Starting API server")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.GetGlobalLogger().Info("Shutting down API server...")
	return s.httpServer.Shutdown(ctx)
}
