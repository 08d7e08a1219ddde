package analyticsHandler

import (
	analyticsService "SafeDrive/internal/api/analytics/service"
	"SafeDrive/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AnalyticsHandler struct {
	log              *logrus.Logger
	validator        *validator.Validate
	middleware       middleware.Middleware
	analyticsService analyticsService.IAnalyticsService
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	as analyticsService.IAnalyticsService,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: as,
		log:              log,
		validator:        validator,
		middleware:       middleware,
	}
}

func (h *AnalyticsHandler) Start(srv fiber.Router) {
	data := srv.Group("/data")
	data.Post("/delete", h.middleware.NewTokenMiddleware, h.DeleteData)
	data.Get("/collections", h.ListCollections)

	srv.Get("/analytics", h.GetAnalytics)
}
