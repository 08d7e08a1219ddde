package safetyHandler

import (
	"context"
	"time"

	"SafeDrive/internal/api/safety"
	contextPkg "SafeDrive/pkg/context"
	"SafeDrive/pkg/handlerUtil"
	"SafeDrive/pkg/log"

	"github.com/gofiber/fiber/v2"
)

func (h *SafetyHandler) FindSafeStops(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 15*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	if ctx.Query("lat") == "" || ctx.Query("lon") == "" {
		return errHandler.Handle(ctx, requestID, safety.ErrMissingLocation, ctx.Path(), "parse_query")
	}

	req := safety.SafeStopsRequest{Radius: safety.DefaultSearchRadius}
	if err := ctx.QueryParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, safety.ErrInvalidLocation, ctx.Path(), "parse_query")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	res, err := h.safetyService.FindSafeStops(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "find_safe_stops")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"stops":      len(res.SafeStops),
		}).Info("Safe stops found")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *SafetyHandler) GenerateEmergencyQR(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req safety.EmergencyQRRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, safety.ErrInvalidLocation, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	res, err := h.safetyService.GenerateEmergencyQR(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "generate_emergency_qr")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}
