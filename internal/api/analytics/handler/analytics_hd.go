package analyticsHandler

import (
	"context"
	"time"

	"SafeDrive/internal/api/analytics"
	contextPkg "SafeDrive/pkg/context"
	"SafeDrive/pkg/handlerUtil"
	"SafeDrive/pkg/log"

	"github.com/gofiber/fiber/v2"
)

func (h *AnalyticsHandler) DeleteData(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req analytics.DeleteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	res, err := h.analyticsService.DeleteData(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "delete_data")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id":    requestID,
			"path":          ctx.Path(),
			"collection":    res.Collection,
			"deleted_count": res.DeletedCount,
		}).Info("Data deleted")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *AnalyticsHandler) ListCollections(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	res, err := h.analyticsService.ListCollections(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_collections")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *AnalyticsHandler) GetAnalytics(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	res, err := h.analyticsService.GetAnalytics(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_analytics")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"days":       len(res.Analytics),
		}).Debug("Analytics retrieved")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}
