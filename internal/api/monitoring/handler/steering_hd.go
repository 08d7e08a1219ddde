package monitoringHandler

import (
	"context"
	"time"

	"SafeDrive/internal/api/monitoring"
	contextPkg "SafeDrive/pkg/context"
	"SafeDrive/pkg/handlerUtil"
	"SafeDrive/pkg/log"

	"github.com/gofiber/fiber/v2"
)

func (h *MonitoringHandler) AnalyzeSteering(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req monitoring.SteeringRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, monitoring.ErrInvalidSteeringData, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	res, err := h.monitoringService.AnalyzeSteering(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "analyze_steering")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"samples":    len(req.Movements),
			"pattern":    res.Pattern,
		}).Info("Steering analysis completed")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}
