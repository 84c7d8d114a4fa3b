package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/antelcha/itsm-playground/internal/api/dto"
	"github.com/antelcha/itsm-playground/internal/auth"
	"github.com/antelcha/itsm-playground/internal/service"
	apperrors "github.com/antelcha/itsm-playground/pkg/util"
)

// DashboardHandler serves the reporting rollups.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: dashboardService}
}

// Overview GET /dashboard/overview.
func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	overview, err := h.service.Overview(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewOverviewResponse(overview))
}

// Metrics GET /dashboard/metrics.
func (h *DashboardHandler) Metrics(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	metrics, err := h.service.Metrics(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewMetricsResponse(metrics))
}
