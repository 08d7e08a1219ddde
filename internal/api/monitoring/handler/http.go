package monitoringHandler

import (
	monitoringService "SafeDrive/internal/api/monitoring/service"
	"SafeDrive/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type MonitoringHandler struct {
	log               *logrus.Logger
	validator         *validator.Validate
	middleware        middleware.Middleware
	monitoringService monitoringService.IMonitoringService
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	ms monitoringService.IMonitoringService,
) *MonitoringHandler {
	return &MonitoringHandler{
		monitoringService: ms,
		log:               log,
		validator:         validator,
		middleware:        middleware,
	}
}

func wsMiddleware(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

func (h *MonitoringHandler) Start(srv fiber.Router) {
	monitor := srv.Group("/monitor")
	monitor.Use("/ws", wsMiddleware)
	monitor.Get("/ws", websocket.New(h.handleMonitorWebSocket))

	srv.Post("/steering-analysis", h.AnalyzeSteering)
}

// StartLegacy mounts the unversioned routes existing dashboard clients use.
func (h *MonitoringHandler) StartLegacy(app fiber.Router) {
	app.Use("/ws/monitor", wsMiddleware)
	app.Get("/ws/monitor", websocket.New(h.handleMonitorWebSocket))

	app.Post("/api/steering-analysis", h.AnalyzeSteering)
}
