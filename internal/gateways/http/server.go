package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	cfg "subs_dashboard/internal/config"
	"subs_dashboard/internal/gateways/http/mw"
	"subs_dashboard/internal/notify"
	"subs_dashboard/internal/usecase"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"

	defaultShutdownTimeout = 5 * time.Second
	readHeaderTimeout      = 10 * time.Second
)

// Server serves the dashboard API until its context is cancelled
type Server struct {
	host            string
	port            uint16
	shutdownTimeout time.Duration
	router          *gin.Engine
	log             *slog.Logger
	srv             *http.Server
}

// UseCases - what the handlers call into
type UseCases struct {
	Dashboard *usecase.Dashboard
	// Feed - recent notifications, optional
	Feed *notify.Feed
	// Metrics - handler served on /metrics, optional
	Metrics http.Handler
	// Location - zone date-only renewal dates are read in, UTC when nil
	Location *time.Location
}

func New(useCases UseCases, cfg cfg.Config, log *slog.Logger, options ...func(server *Server)) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		host:            "localhost",
		port:            8080,
		router:          SetupGin(cfg, useCases, log),
		log:             log,
		shutdownTimeout: defaultShutdownTimeout,
	}
	for _, o := range options {
		o(s)
	}
	return s
}

// WithHost returns an option that sets the listen host.
func WithHost(host string) func(*Server) {
	return func(s *Server) {
		if host != "" {
			s.host = host
		}
	}
}

// WithPort returns an option that sets the listen port.
func WithPort(port uint16) func(*Server) {
	return func(s *Server) {
		if port != 0 {
			s.port = port
		}
	}
}

func WithLogger(log *slog.Logger) func(*Server) {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithTimeout returns an option that bounds graceful shutdown.
func WithTimeout(timeout time.Duration) func(server *Server) {
	return func(s *Server) {
		if timeout > 0 {
			s.shutdownTimeout = timeout
		}
	}
}

// SetupGin builds the engine: request id, access log, recovery, CORS, routes.
func SetupGin(c cfg.Config, useCases UseCases, log *slog.Logger) *gin.Engine {
	switch c.Env {
	case envLocal, envDev:
		gin.SetMode(gin.DebugMode)
	case envProd:
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(mw.RequestID())
	r.Use(mw.GinSlog(log))
	r.Use(mw.RecoveryWithSlog(log))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(c),
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Accept", mw.RequestIDHeader},
		ExposeHeaders:    []string{mw.RequestIDHeader, "Location"},
		AllowCredentials: true,
	}))

	setupRouter(r, useCases)
	return r
}

// allowedOrigins - configured origins, or the server's own address when none are set
func allowedOrigins(c cfg.Config) []string {
	if len(c.Server.CORSOrigins) > 0 {
		return c.Server.CORSOrigins
	}
	host := c.Server.Host
	if host == "" {
		host = "127.0.0.1"
	}
	addr := net.JoinHostPort(host, strconv.Itoa(c.Server.Port))
	return []string{"http://" + addr, "https://" + addr}
}

// Run listens until ctx is done, then shuts down within the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	addr := net.JoinHostPort(s.host, strconv.Itoa(int(s.port)))
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		s.log.Info("http server started", slog.String("addr", addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if err := s.Close(); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	<-errCh
	s.log.Info("server shutdown complete")
	return nil
}

// Close shuts the server down if Run started it
func (s *Server) Close() error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
