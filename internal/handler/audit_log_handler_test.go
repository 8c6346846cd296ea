package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/IFRN-SPP/presente/internal/dto"
	"github.com/IFRN-SPP/presente/internal/handler"
	"github.com/IFRN-SPP/presente/internal/middleware"
	"github.com/IFRN-SPP/presente/internal/service"
)

type stubAuditLogService struct {
	response dto.AuditLogListResponse
	request  dto.AuditLogListRequest
	err      error
}

func (s *stubAuditLogService) List(_ context.Context, req dto.AuditLogListRequest) (dto.AuditLogListResponse, error) {
	s.request = req
	return s.response, s.err
}

func auditLogApp(svc service.AuditLogService, role string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(1))
		c.Locals("user_role", role)
		return c.Next()
	})
	group := app.Group("/api/v1/audit-logs", middleware.RequireRole("admin"))
	handler.NewAuditLogHandler(svc, zerolog.Nop()).Register(group)
	return app
}

func TestAuditLogHandlerList(t *testing.T) {
	svc := &stubAuditLogService{response: dto.AuditLogListResponse{
		Items:      []dto.AuditLogResponse{{ID: 1, Action: "network.delete", EntityType: "network"}},
		Pagination: dto.PaginationMeta{Page: 1, PageSize: 25, TotalItems: 1, TotalPages: 1},
	}}
	app := auditLogApp(svc, "admin")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit-logs?actor_id=3&action=network.delete&entity_type=network", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.EqualValues(t, 3, svc.request.ActorID)
	require.Equal(t, "network.delete", svc.request.Action)
	require.Equal(t, "network", svc.request.EntityType)
	require.Equal(t, 1, svc.request.Page)
	require.Equal(t, 25, svc.request.PageSize)

	var payload struct {
		Success bool                     `json:"success"`
		Data    dto.AuditLogListResponse `json:"data"`
	}
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.True(t, payload.Success)
	require.Len(t, payload.Data.Items, 1)
	require.Equal(t, "network.delete", payload.Data.Items[0].Action)
}

func TestAuditLogHandlerClampsPageSize(t *testing.T) {
	svc := &stubAuditLogService{}
	app := auditLogApp(svc, "admin")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit-logs?page=0&page_size=999", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Equal(t, 1, svc.request.Page)
	require.Equal(t, 200, svc.request.PageSize)
}

func TestAuditLogHandlerRejectsBadQuery(t *testing.T) {
	svc := &stubAuditLogService{}
	app := auditLogApp(svc, "admin")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit-logs?actor_id=abc", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuditLogHandlerRequiresAdminRole(t *testing.T) {
	svc := &stubAuditLogService{}
	app := auditLogApp(svc, "user")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit-logs", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}
