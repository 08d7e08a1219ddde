package middleware

import (
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	jwtPkg "SafeDrive/pkg/jwt"
	"SafeDrive/pkg/log"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newProtectedApp(secret string) *fiber.App {
	m := New(log.NewTestLogger(), secret)
	app := fiber.New()
	app.Use(m.NewRequestIDMiddleware())
	app.Post("/admin", m.NewTokenMiddleware, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func bearer(t *testing.T, claims map[string]interface{}, secret string) string {
	t.Helper()
	token, _, err := jwtPkg.Sign(claims, time.Hour, secret)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestTokenMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		header string
		want   int
	}{
		{"disabled without secret", "", "", fiber.StatusForbidden},
		{"missing header", testSecret, "", fiber.StatusUnauthorized},
		{"wrong scheme", testSecret, "Basic abc", fiber.StatusUnauthorized},
		{"wrong secret", testSecret, bearer(t, map[string]interface{}{"role": "admin"}, "other"), fiber.StatusUnauthorized},
		{"not admin", testSecret, bearer(t, map[string]interface{}{"role": "viewer"}, testSecret), fiber.StatusForbidden},
		{"admin", testSecret, bearer(t, map[string]interface{}{"role": "admin"}, testSecret), fiber.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newProtectedApp(tt.secret)
			req := httptest.NewRequest(fiber.MethodPost, "/admin", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	m := New(log.NewTestLogger(), "")
	app := fiber.New()
	app.Use(m.NewRequestIDMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(m.GetRequestID(c))
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(RequestIDKey), 26)

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(RequestIDKey, "client-id")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "client-id", resp.Header.Get(RequestIDKey))
}

func TestRateLimiterPerIP(t *testing.T) {
	r := newRateLimiter(1, 2)

	a := r.GetLimiterFrom("10.0.0.1")
	assert.Same(t, a, r.GetLimiterFrom("10.0.0.1"))
	assert.NotSame(t, a, r.GetLimiterFrom("10.0.0.2"))

	assert.True(t, a.Allow())
	assert.True(t, a.Allow())
	assert.False(t, a.Allow())
}

func TestRateLimiterForgetsIdleClients(t *testing.T) {
	r := newRateLimiter(1, 1)
	now := time.Now()
	r.now = func() time.Time { return now }

	for i := 0; i < limiterSweepSize; i++ {
		r.GetLimiterFrom(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}
	require.Len(t, r.bucket, limiterSweepSize)

	now = now.Add(limiterIdleTTL + time.Second)
	r.GetLimiterFrom("fresh")
	assert.Len(t, r.bucket, 1)
}

func TestSanitizeRequestBody(t *testing.T) {
	out := sanitizeRequestBody(`{"collection":"monitoring_sessions","api_key":"abc","frame":"data:image/jpeg;base64,AAAA"}`)
	assert.Contains(t, out, `"collection":"monitoring_sessions"`)
	assert.Contains(t, out, `"api_key":"[SECRET]"`)
	assert.Contains(t, out, `"frame":"[SECRET]"`)

	assert.Equal(t, "[non-JSON body]", sanitizeRequestBody("lat=1"))
}
