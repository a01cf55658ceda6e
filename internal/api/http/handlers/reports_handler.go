package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/wmachadoc/Abertura-de-tickets/internal/auth"
	"github.com/wmachadoc/Abertura-de-tickets/internal/service"
	apperrors "github.com/wmachadoc/Abertura-de-tickets/pkg/util/errorutil"
)

// ReportsHandler serves workload aggregates.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// Summary GET /reports/summary?client_id=.
func (h *ReportsHandler) Summary(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	clientID, err := strconv.ParseInt(c.Query("client_id"), 10, 64)
	if err != nil {
		return apperrors.NewValidationError("invalid client_id", nil)
	}
	if !principal.User.CanAccessClient(clientID) {
		return apperrors.NewForbidden("client not linked to user")
	}

	summary, err := h.reports.Summary(c.UserContext(), clientID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}
