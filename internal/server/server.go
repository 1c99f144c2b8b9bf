package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mintbay/marketgate/internal/domain"
	"github.com/mintbay/marketgate/internal/server/handler"
	"github.com/mintbay/marketgate/internal/server/middleware"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port            int
	CORSOrigins     []string
	APIKey          string // if empty, admin authentication is disabled
	RateLimit       int    // requests per client IP per window; 0 disables
	RateLimitWindow time.Duration
}

// Handlers aggregates all HTTP handlers that the server needs to register.
type Handlers struct {
	Items *handler.ItemHandler
	Admin *handler.AdminHandler
}

// Server is the HTTP API mediating between the browser UI and the
// marketplace contract.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	logger     *slog.Logger
}

// NewServer creates a new Server with all routes registered on the
// ServeMux and the middleware chain (request IDs, logging, CORS, rate
// limiting, admin auth) wired up.
func NewServer(cfg Config, handlers Handlers, limiter domain.RateLimiter, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// Health check (no auth required).
	mux.HandleFunc("GET /api/health", handler.Health())

	// Item read endpoints.
	mux.HandleFunc("GET /api/items", handlers.Items.ListItems)
	mux.HandleFunc("GET /api/items/{id}", handlers.Items.GetItem)
	mux.HandleFunc("GET /api/items/{id}/metadata", handlers.Items.GetMetadata)
	mux.HandleFunc("GET /api/items/{id}/payment-methods", handlers.Items.GetPaymentMethods)
	mux.HandleFunc("GET /api/owned/{address}", handlers.Items.ListOwned)

	// Admin endpoints. The status read stays open so the UI banner can
	// render for every visitor; writes go through the authed subtree.
	mux.HandleFunc("GET /api/admin/emergency", handlers.Admin.GetEmergency)

	adminMux := http.NewServeMux()
	adminMux.HandleFunc("POST /api/admin/emergency/initiate", handlers.Admin.InitiateEmergency)
	adminMux.HandleFunc("POST /api/admin/emergency/cancel", handlers.Admin.CancelEmergency)
	adminMux.HandleFunc("POST /api/admin/emergency/withdraw", handlers.Admin.ExecuteEmergency)
	adminMux.HandleFunc("POST /api/admin/pause", handlers.Admin.SetPaused)
	adminMux.HandleFunc("POST /api/admin/blacklist/user", handlers.Admin.SetUserBlacklist)
	adminMux.HandleFunc("POST /api/admin/blacklist/token", handlers.Admin.SetTokenBlacklist)
	adminMux.HandleFunc("POST /api/admin/fees", handlers.Admin.UpdateFees)
	mux.Handle("POST /api/admin/", middleware.Auth(cfg.APIKey)(adminMux))

	// Build the middleware chain. The listing and ownership reads fan
	// out into contract calls per token, so they sit behind the
	// per-IP limiter along with everything else.
	var h http.Handler = mux
	h = middleware.RateLimit(limiter, cfg.RateLimit, cfg.RateLimitWindow)(h)
	h = middleware.Logging(logger)(h)
	h = middleware.WithRequestID()(h)
	h = corsMiddleware(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 3 * time.Minute, // admin writes block on tx confirmation
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		mux:        mux,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight
// requests to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// corsMiddleware returns middleware that sets CORS headers for the
// allowed origins. If no origins are specified, it defaults to allowing
// all origins.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin != "" {
				allowed := len(allowedOrigins) == 0
				for _, o := range allowedOrigins {
					if strings.EqualFold(o, "*") || strings.EqualFold(o, origin) {
						allowed = true
						break
					}
				}

				if allowed {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
					w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")
					w.Header().Set("Access-Control-Max-Age", "86400")
				}
			}

			// Handle preflight requests.
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
