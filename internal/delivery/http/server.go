package http

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/developmentseed/ml-tm-utils-pub/internal/config"
	"github.com/developmentseed/ml-tm-utils-pub/internal/delivery/http/handler"
	"github.com/developmentseed/ml-tm-utils-pub/internal/delivery/http/middleware"
	apperrors "github.com/developmentseed/ml-tm-utils-pub/internal/pkg/errors"
	"github.com/developmentseed/ml-tm-utils-pub/internal/pkg/metrics"
	"github.com/developmentseed/ml-tm-utils-pub/internal/pkg/utils"
)

// HealthCheck - проверка зависимости для /health
type HealthCheck func(ctx context.Context) error

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger
	checks map[string]HealthCheck

	tileHandler    *handler.TileHandler
	areaHandler    *handler.AreaHandler
	projectHandler *handler.ProjectHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	tileHandler *handler.TileHandler,
	areaHandler *handler.AreaHandler,
	projectHandler *handler.ProjectHandler,
	checks map[string]HealthCheck,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "ML TM Utils",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    32 * 1024 * 1024, // документы проектов TM бывают большими
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:            app,
		config:         cfg,
		logger:         logger,
		checks:         checks,
		tileHandler:    tileHandler,
		areaHandler:    areaHandler,
		projectHandler: projectHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	if s.config.Metrics.Enabled {
		s.app.Use(metrics.Middleware())
	}
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	if s.config.Metrics.Enabled {
		s.app.Get("/metrics", metrics.Handler())
	}

	api := s.app.Group("/api/v1")

	api.Get("/health", s.health)

	// Tiles
	tiles := api.Group("/tiles/:z/:x/:y")
	tiles.Get("/children", s.tileHandler.GetChildren)
	tiles.Get("/bounds", s.tileHandler.GetBounds)
	tiles.Get("/pyramid", s.tileHandler.GetPyramid)
	tiles.Get("/area", s.tileHandler.GetArea)
	api.Get("/pixel-area", s.tileHandler.GetPixelArea)

	// Areas
	api.Post("/areas/total", s.areaHandler.TotalArea)

	// Projects
	api.Post("/projects", s.projectHandler.Create)
	api.Post("/projects/augment", s.areaHandler.Augment)
	api.Get("/projects/:tm_index", s.projectHandler.Get)
	api.Put("/projects/:tm_index/geometry", s.projectHandler.SyncGeometry)
	api.Post("/projects/:tm_index/tile-areas", s.projectHandler.IngestTileAreas)
	api.Get("/projects/:tm_index/tile-areas", s.projectHandler.ListTileAreas)
}

// health godoc
// @Summary Проверка состояния
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/v1/health [get]
func (s *Server) health(c *fiber.Ctx) error {
	status := "healthy"
	code := fiber.StatusOK
	deps := make(fiber.Map, len(s.checks))

	for name, check := range s.checks {
		if err := check(c.Context()); err != nil {
			s.logger.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			deps[name] = err.Error()
			status = "unhealthy"
			code = fiber.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	return c.Status(code).JSON(fiber.Map{
		"status":       status,
		"dependencies": deps,
		"time":         time.Now(),
	})
}

// App - доступ к fiber.App, нужен тестам
func (s *Server) App() *fiber.App {
	return s.app
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки, не обработанные хендлерами (404 маршрута, паники)
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if stderrors.As(err, &fe) {
			return c.Status(fe.Code).JSON(utils.ErrorResponse{
				Error: apperrors.New(apperrors.CodeInvalidRequest, fe.Message, fe.Code),
			})
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Error(err),
		)

		return utils.SendError(c, err)
	}
}
