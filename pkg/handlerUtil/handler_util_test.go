package handlerUtil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"SafeDrive/pkg/log"
	"SafeDrive/pkg/qr"
	"SafeDrive/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNotFound = response.NewError(fiber.StatusNotFound, "collection not found")

func TestHandleMapsErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"response error", errNotFound, fiber.StatusNotFound, `{"error":"collection not found"}`},
		{"wrapped response error", fmt.Errorf("%w: users", errNotFound), fiber.StatusNotFound, `{"error":"collection not found: users"}`},
		{"deadline", fmt.Errorf("geocode: %w", context.DeadlineExceeded), fiber.StatusGatewayTimeout, `"code":"UPSTREAM_TIMEOUT"`},
		{"qr", qr.ErrEmptyContent, fiber.StatusBadRequest, `"code":"EMPTY_QR_CONTENT"`},
		{"unexpected", errors.New("boom"), fiber.StatusInternalServerError, `{"error":"An unexpected error occurred"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return New(log.NewTestLogger()).Handle(c, "req-1", tt.err, c.Path(), "test")
			})

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Contains(t, string(body), tt.wantBody)
		})
	}
}

func TestHandleSuccessWithoutBody(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return New(log.NewTestLogger()).HandleSuccess(c, fiber.StatusNoContent, nil)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
