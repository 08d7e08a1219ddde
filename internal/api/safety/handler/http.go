package safetyHandler

import (
	safetyService "SafeDrive/internal/api/safety/service"
	"SafeDrive/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type SafetyHandler struct {
	log           *logrus.Logger
	validator     *validator.Validate
	middleware    middleware.Middleware
	safetyService safetyService.ISafetyService
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	ss safetyService.ISafetyService,
) *SafetyHandler {
	return &SafetyHandler{
		safetyService: ss,
		log:           log,
		validator:     validator,
		middleware:    middleware,
	}
}

func (h *SafetyHandler) Start(srv fiber.Router) {
	srv.Get("/safe-stops", h.FindSafeStops)
	srv.Post("/generate-emergency-qr", h.GenerateEmergencyQR)
}
