package analyticsHandler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"SafeDrive/internal/api/analytics"
	"SafeDrive/internal/entity"
	"SafeDrive/internal/middleware"
	jwtPkg "SafeDrive/pkg/jwt"
	"SafeDrive/pkg/log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "admin-secret"

type fakeService struct {
	lastDelete analytics.DeleteRequest
}

func (f *fakeService) DeleteData(_ context.Context, req analytics.DeleteRequest) (analytics.DeleteResponse, error) {
	f.lastDelete = req
	if req.Collection == "" {
		return analytics.DeleteResponse{}, analytics.ErrCollectionRequired
	}
	return analytics.DeleteResponse{Success: true, Collection: req.Collection, DeletedCount: 2, Filter: req.Filter}, nil
}

func (f *fakeService) ListCollections(context.Context) (analytics.CollectionsResponse, error) {
	return analytics.CollectionsResponse{
		Collections:      []entity.CollectionInfo{{Name: "monitoring_sessions", DocumentCount: 5}},
		TotalCollections: 1,
	}, nil
}

func (f *fakeService) GetAnalytics(context.Context) (analytics.AnalyticsResponse, error) {
	return analytics.AnalyticsResponse{Analytics: []entity.DailyAnalytics{
		{Date: "2024-03-02", AvgDrowsiness: 0.25, AvgStress: 0.5, SessionCount: 3},
	}}, nil
}

func newTestApp(svc *fakeService, secret string) *fiber.App {
	logger := log.NewTestLogger()
	mw := middleware.New(logger, secret)

	app := fiber.New()
	app.Use(mw.NewRequestIDMiddleware())
	New(logger, validator.New(), mw, svc).Start(app.Group("/api"))
	return app
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, _, err := jwtPkg.Sign(map[string]interface{}{"role": "admin"}, time.Hour, testSecret)
	require.NoError(t, err)
	return "Bearer " + token
}

func doRequest(t *testing.T, app *fiber.App, method, path, body, auth string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if auth != "" {
		req.Header.Set(fiber.HeaderAuthorization, auth)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestDeleteDataRequiresAdmin(t *testing.T) {
	svc := &fakeService{}

	code, _ := doRequest(t, newTestApp(svc, ""), fiber.MethodPost, "/api/data/delete", `{"collection":"monitoring_sessions"}`, "")
	assert.Equal(t, fiber.StatusForbidden, code)

	app := newTestApp(svc, testSecret)
	code, _ = doRequest(t, app, fiber.MethodPost, "/api/data/delete", `{"collection":"monitoring_sessions"}`, "")
	assert.Equal(t, fiber.StatusUnauthorized, code)
	assert.Empty(t, svc.lastDelete.Collection)
}

func TestDeleteData(t *testing.T) {
	svc := &fakeService{}
	app := newTestApp(svc, testSecret)

	code, body := doRequest(t, app, fiber.MethodPost, "/api/data/delete",
		`{"collection":"monitoring_sessions","filter":{"session_id":"abc"}}`, adminToken(t))
	assert.Equal(t, fiber.StatusOK, code)
	assert.JSONEq(t, `{"success":true,"collection":"monitoring_sessions","deletedCount":2,"filter":{"session_id":"abc"}}`, body)

	code, body = doRequest(t, app, fiber.MethodPost, "/api/data/delete", `{"filter":{}}`, adminToken(t))
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.JSONEq(t, `{"error":"Collection name is required"}`, body)
}

func TestListCollections(t *testing.T) {
	code, body := doRequest(t, newTestApp(&fakeService{}, ""), fiber.MethodGet, "/api/data/collections", "", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.JSONEq(t, `{"collections":[{"name":"monitoring_sessions","documentCount":5}],"totalCollections":1}`, body)
}

func TestGetAnalytics(t *testing.T) {
	code, body := doRequest(t, newTestApp(&fakeService{}, ""), fiber.MethodGet, "/api/analytics", "", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.JSONEq(t, `{"analytics":[{"_id":"2024-03-02","avg_drowsiness":0.25,"avg_stress":0.5,"session_count":3}]}`, body)
}
