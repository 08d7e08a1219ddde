package config

import (
	"context"
	"fmt"
	"time"

	"SafeDrive/database/postgres"
	analyticsHandler "SafeDrive/internal/api/analytics/handler"
	analyticsRepository "SafeDrive/internal/api/analytics/repository"
	analyticsService "SafeDrive/internal/api/analytics/service"
	monitoringHandler "SafeDrive/internal/api/monitoring/handler"
	monitoringRepository "SafeDrive/internal/api/monitoring/repository"
	monitoringService "SafeDrive/internal/api/monitoring/service"
	safetyHandler "SafeDrive/internal/api/safety/handler"
	safetyService "SafeDrive/internal/api/safety/service"
	"SafeDrive/internal/middleware"
	"SafeDrive/pkg/detector"
	"SafeDrive/pkg/emotion"
	"SafeDrive/pkg/gemini"
	"SafeDrive/pkg/geocoder"
	"SafeDrive/pkg/llm"
	"SafeDrive/pkg/redis"
	"SafeDrive/pkg/s3"
	"SafeDrive/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine            *fiber.App
	cfg               Config
	db                *sqlx.DB
	log               *logrus.Logger
	middleware        middleware.Middleware
	validator         *validator.Validate
	utils             utils.IUtils
	handlers          []handler
	legacyHandlers    []legacyHandler
	redisServer       redis.IRedis
	s3Client          s3.ItfS3
	faceDetector      detector.IDetector
	geminiClient      gemini.IGemini
	emotionClient     emotion.IClassifier
	chatClient        llm.IChat
	geocoderClient    geocoder.IGeocoder
	monitoringService monitoringService.IMonitoringService
}

type handler interface {
	Start(srv fiber.Router)
}

type legacyHandler interface {
	StartLegacy(app fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.middleware == nil {
		server.middleware = middleware.New(server.log, server.cfg.App.JWTSecret)
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}
	if server.utils == nil {
		server.utils = utils.New()
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithConfig(cfg Config) ServerOption {
	return func(s *Server) error {
		s.cfg = cfg
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New(s.cfg.Database)
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

// The options below wire optional integrations. A missing setting or a
// failed client leaves the integration nil and the service falls back.

func WithRedisServer() ServerOption {
	return func(s *Server) error {
		if s.cfg.Redis.Address == "" {
			return nil
		}
		s.redisServer = redis.New(s.cfg.Redis, s.log)
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		if s.cfg.S3.BucketName == "" {
			return nil
		}
		client, err := s3.New(s.cfg.S3)
		if err != nil {
			s.log.Warnf("Failed to initialize S3 client: %v", err)
			return nil
		}
		s.s3Client = client
		return nil
	}
}

func WithFaceDetector() ServerOption {
	return func(s *Server) error {
		client, err := detector.New(detector.Config{URL: s.cfg.API.FaceDetectorURL}, s.log)
		if err != nil {
			s.log.Warnf("Face detector disabled: %v", err)
			return nil
		}
		s.faceDetector = client
		return nil
	}
}

func WithGeminiClient() ServerOption {
	return func(s *Server) error {
		client, err := gemini.NewGeminiClient(gemini.Config{
			APIKey: s.cfg.API.GeminiAPIKey,
			Models: s.cfg.AI.VisionModels,
		}, s.log)
		if err != nil {
			s.log.Warnf("Vision model disabled: %v", err)
			return nil
		}
		s.geminiClient = client
		return nil
	}
}

func WithEmotionClient() ServerOption {
	return func(s *Server) error {
		client, err := emotion.New(emotion.Config{
			APIKey:  s.cfg.API.HFAPIKey,
			BaseURL: s.cfg.API.HFBaseURL,
			Models:  s.cfg.AI.EmotionModels,
		}, s.log)
		if err != nil {
			s.log.Warnf("Emotion classifier disabled: %v", err)
			return nil
		}
		s.emotionClient = client
		return nil
	}
}

func WithChatClient() ServerOption {
	return func(s *Server) error {
		client, err := llm.NewChat(llm.Config{
			APIKey:  s.cfg.API.GroqAPIKey,
			BaseURL: s.cfg.API.GroqBaseURL,
			Models:  s.cfg.AI.TextModels,
		}, s.log)
		if err != nil {
			s.log.Warnf("Text model disabled: %v", err)
			return nil
		}
		s.chatClient = client
		return nil
	}
}

func WithGeocoder() ServerOption {
	return func(s *Server) error {
		client, err := geocoder.New(geocoder.Config{APIKey: s.cfg.API.ORSAPIKey})
		if err != nil {
			s.log.Warnf("Geocoder disabled: %v", err)
			return nil
		}
		s.geocoderClient = client
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log, s.cfg.App.JWTSecret)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Monitoring Domain
	deps := monitoringService.Dependencies{
		Detector: s.faceDetector,
		Vision:   s.geminiClient,
		Emotion:  s.emotionClient,
		Chat:     s.chatClient,
		Cache:    s.redisServer,
		Utils:    s.utils,
	}
	if s.db != nil {
		deps.Repository = monitoringRepository.New(s.db, s.log)
	}
	s.monitoringService = monitoringService.NewMonitoringService(s.log, deps, monitoringService.Options{
		VisionWeight:        s.cfg.AI.VisionWeight,
		EmotionWeight:       s.cfg.AI.EmotionWeight,
		ConfidenceThreshold: s.cfg.AI.ConfidenceThreshold,
		ProcessingInterval:  s.cfg.AI.ProcessingInterval,
		HistoryLimit:        s.cfg.Monitoring.HistoryLimit,
		AlertThresholds:     s.cfg.Monitoring.AlertThresholds,
	})
	monitoringHandlers := monitoringHandler.New(s.log, s.validator, s.middleware, s.monitoringService)

	// Safety Domain
	safetyServices := safetyService.NewSafetyService(s.log, safetyService.Dependencies{
		Geocoder: s.geocoderClient,
		Cache:    s.redisServer,
		Storage:  s.s3Client,
		Utils:    s.utils,
	})
	safetyHandlers := safetyHandler.New(s.log, s.validator, s.middleware, safetyServices)

	s.handlers = append(s.handlers, monitoringHandlers, safetyHandlers)
	s.legacyHandlers = append(s.legacyHandlers, monitoringHandlers)

	// Analytics Domain
	if s.db == nil {
		s.log.Warn("Database not configured, data and analytics endpoints are disabled")
		return
	}
	analyticsRepo := analyticsRepository.New(s.db, s.log)
	analyticsServices := analyticsService.NewAnalyticsService(s.log, analyticsRepo)
	analyticsHandlers := analyticsHandler.New(s.log, s.validator, s.middleware, analyticsServices)

	s.handlers = append(s.handlers, analyticsHandlers)
}

// Mount installs the middleware chain and every route. Routes are served
// both under /api and the versioned /api/v1.
func (s *Server) Mount() {
	s.engine.Use(recover.New())
	s.engine.Use(s.corsMiddleware())
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())
	s.engine.Use(s.middleware.NewRateLimiter)

	s.setupHealthCheck()

	for _, h := range s.legacyHandlers {
		h.StartLegacy(s.engine)
	}

	api := s.engine.Group("/api")
	v1 := s.engine.Group("/api/v1")
	for _, h := range s.handlers {
		if _, isLegacy := h.(legacyHandler); isLegacy {
			h.Start(v1)
			continue
		}
		h.Start(api)
		h.Start(v1)
	}
}

func (s *Server) Run() error {
	s.Mount()

	port := s.cfg.App.Port
	if port == "" {
		port = "8000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	err := s.engine.ShutdownWithContext(ctx)

	if s.faceDetector != nil {
		s.faceDetector.Close()
	}
	if s.geminiClient != nil {
		if closeErr := s.geminiClient.Close(); closeErr != nil {
			s.log.Warnf("Failed to close Gemini client: %v", closeErr)
		}
	}
	if s.db != nil {
		if closeErr := s.db.Close(); closeErr != nil {
			s.log.Warnf("Failed to close database: %v", closeErr)
		}
	}

	return err
}

func (s *Server) corsMiddleware() fiber.Handler {
	origins := s.cfg.App.AllowedOrigins
	if origins == "" {
		origins = "*"
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Request-ID",
		AllowCredentials: origins != "*",
	})
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message":   "Driver Wellness Monitor API",
			"status":    "active",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	s.engine.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"status":             "healthy",
			"timestamp":          time.Now().Format(time.RFC3339),
			"models_loaded":      s.monitoringService.ModelStatus(),
			"active_connections": s.monitoringService.ActiveSessions(),
		})
	})
}
