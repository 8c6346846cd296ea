package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/IFRN-SPP/presente/internal/dto"
	"github.com/IFRN-SPP/presente/internal/handler"
	"github.com/IFRN-SPP/presente/internal/service"
)

type stubActivityService struct {
	activities []dto.ActivityResponse
	activity   dto.ActivityResponse
	public     dto.PublicActivityResponse
	err        error
}

func (s stubActivityService) List(context.Context, uint, bool) ([]dto.ActivityResponse, error) {
	return s.activities, s.err
}

func (s stubActivityService) Get(context.Context, uint, uint, bool) (dto.ActivityResponse, error) {
	return s.activity, s.err
}

func (s stubActivityService) Create(context.Context, dto.ActivityCreateRequest, uint) (dto.ActivityResponse, error) {
	return s.activity, s.err
}

func (s stubActivityService) Update(context.Context, uint, dto.ActivityUpdateRequest, uint, bool) (dto.ActivityResponse, error) {
	return s.activity, s.err
}

func (s stubActivityService) Delete(context.Context, uint, uint, bool) error {
	return s.err
}

func (s stubActivityService) GetPublic(context.Context, string) (dto.PublicActivityResponse, error) {
	return s.public, s.err
}

func activityApp(svc service.ActivityService) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(1))
		return c.Next()
	})
	handler.NewActivityHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/activities"))
	return app
}

func TestActivityHandlerList(t *testing.T) {
	svc := stubActivityService{activities: []dto.ActivityResponse{{ID: 1, Title: "Seminar"}}}
	app := activityApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/activities", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Data []dto.ActivityResponse `json:"data"`
	}
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Len(t, payload.Data, 1)
	require.Equal(t, "Seminar", payload.Data[0].Title)
}

func TestActivityHandlerCreate(t *testing.T) {
	svc := stubActivityService{activity: dto.ActivityResponse{ID: 1, Title: "Seminar"}}
	app := activityApp(svc)

	body := `{"title":"Seminar","start_time":"2026-03-10T13:00:00Z","end_time":"2026-03-10T15:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/activities", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestActivityHandlerCreateRejectsMalformedBody(t *testing.T) {
	app := activityApp(stubActivityService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/activities", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestActivityHandlerNotFound(t *testing.T) {
	app := activityApp(stubActivityService{err: service.ErrActivityNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/activities/42", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestActivityHandlerInvalidIdentifier(t *testing.T) {
	app := activityApp(stubActivityService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/activities/abc", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestActivityHandlerRequiresUser(t *testing.T) {
	app := fiber.New()
	handler.NewActivityHandler(stubActivityService{}, zerolog.Nop()).Register(app.Group("/api/v1/activities"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/activities", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
