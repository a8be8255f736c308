package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/KioskShell/internal/api/http"
	"github.com/GriffinCanCode/KioskShell/internal/api/middleware"
	"github.com/GriffinCanCode/KioskShell/internal/api/ws"
	"github.com/GriffinCanCode/KioskShell/internal/domain/shell"
	"github.com/GriffinCanCode/KioskShell/internal/infrastructure/config"
	"github.com/GriffinCanCode/KioskShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/KioskShell/internal/infrastructure/monitoring"
)

// Deps are the collaborators the control server drives
type Deps struct {
	Loop    *shell.Loop
	Manager *shell.Manager
	Store   apihttp.SessionReader
	Metrics *monitoring.Metrics
	Logger  *logging.Logger
}

// Server wraps the control API HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	hub    *ws.Hub
	logger *logging.Logger
	addr   string
}

// New builds the control API. It subscribes the event stream to the
// manager, so call it before the control loop starts.
func New(cfg config.ControlConfig, development bool, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.Named(logging.ComponentServer)

	if !development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(monitoring.Middleware(deps.Metrics))

	cors := middleware.DefaultCORSConfig()
	if len(cfg.AllowOrigins) > 0 {
		cors.AllowOrigins = cfg.AllowOrigins
	}
	router.Use(middleware.CORS(cors))

	if cfg.RateLimitRPS > 0 {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimitRPS),
			zap.Int("burst", cfg.Burst),
		)
		limits := middleware.DefaultRateLimitConfig()
		limits.RequestsPerSecond = cfg.RateLimitRPS
		limits.Burst = cfg.Burst
		router.Use(middleware.RateLimit(limits))
	}

	handlers := apihttp.NewHandlers(deps.Loop, deps.Manager, deps.Store, logger)
	handlers.Register(router)

	hub := ws.NewHub(cors.AllowOrigins, logger).WithMetrics(deps.Metrics)
	deps.Manager.Subscribe(hub.Publish)
	router.GET("/events", hub.HandleConnection)

	router.GET("/metrics", gin.WrapH(monitoring.Handler(deps.Metrics)))

	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	return &Server{
		router: router,
		http: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		hub:    hub,
		logger: logger,
		addr:   addr,
	}
}

// Handler returns the router for in-process use
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.addr
}

// Run serves until Shutdown
func (s *Server) Run() error {
	s.logger.Info("Starting control API", zap.String("addr", s.addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown disconnects event clients and stops the listener
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down control API")
	s.hub.Close()
	return s.http.Shutdown(ctx)
}
