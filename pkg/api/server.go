package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JayJamieson/sports-api/pkg/cache"
	"github.com/JayJamieson/sports-api/pkg/config"
	"github.com/JayJamieson/sports-api/pkg/db"
	"github.com/JayJamieson/sports-api/pkg/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type Server struct {
	config     *config.Config
	router     *echo.Echo
	source     db.Source
	memCache   *cache.Memory
	programs   *service.ProgramQueryService
	facilities *service.FacilityListingService
	log        *logrus.Logger
}

func New(cfg *config.Config, logger *logrus.Logger) (*Server, error) {
	source, memCache, err := OpenSource(cfg, logger)
	if err != nil {
		return nil, err
	}

	server, err := NewWithSource(cfg, source, logger)
	if err != nil {
		source.Close()
		return nil, err
	}
	server.memCache = memCache

	return server, nil
}

// NewWithSource wires the HTTP layer on top of an already opened source.
func NewWithSource(cfg *config.Config, source db.Source, logger *logrus.Logger) (*Server, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	swagger, err := GetSwagger()
	if err != nil {
		return nil, err
	}

	validator, err := RequestValidator(swagger)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true

	server := &Server{
		config: cfg,
		router: e,
		source: source,
		programs: service.NewProgramQueryService(source, logger, service.ProgramOptions{
			TimeColumns: cfg.Data.ProgramTimeColumns,
			DayColumns:  cfg.Data.ProgramDayColumns,
		}),
		facilities: service.NewFacilityListingService(source, logger),
		log:        logger,
	}

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(validator)

	e.Logger.SetLevel(log.INFO)

	RegisterHandlers(e, server)
	server.setupDefaultRoutes()
	return server, nil
}

func (s *Server) setupDefaultRoutes() {
	s.router.GET("/doc.yml", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "application/yaml", specYAML)
	})
	s.router.GET("/swagger/*", echoSwagger.EchoWrapHandlerV3(func(c *echoSwagger.Config) {
		c.URLs = []string{"/doc.yml"}
	}))
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if s.memCache != nil {
		paths := []string{s.config.Data.ProgramsPath(), s.config.Data.FacilitiesPath()}
		if err := s.memCache.Watch(ctx, paths...); err != nil {
			s.log.WithError(err).Warn("table cache watcher disabled")
		}
	}

	go func() {
		addr := fmt.Sprintf(":%d", s.config.App.Port)
		s.log.WithFields(logrus.Fields{
			"addr":   addr,
			"source": s.config.Data.Source,
			"cache":  s.config.Cache.Backend,
			"strict": s.config.App.StrictErrors,
		}).Info("Server starting")
		if err := s.router.Start(addr); err != nil && err != http.ErrServerClosed {
			s.log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.log.Info("Shutting down")

	if err := s.router.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	if err := s.source.Close(); err != nil {
		return fmt.Errorf("failed to close data source: %w", err)
	}

	return nil
}
