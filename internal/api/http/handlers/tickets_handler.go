package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/wmachadoc/Abertura-de-tickets/internal/api/dto"
	"github.com/wmachadoc/Abertura-de-tickets/internal/auth"
	"github.com/wmachadoc/Abertura-de-tickets/internal/domain"
	"github.com/wmachadoc/Abertura-de-tickets/internal/service"
	apperrors "github.com/wmachadoc/Abertura-de-tickets/pkg/util/errorutil"
)

// TicketsHandler manages ticket lifecycle endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" || req.Description == "" || req.TicketTypeID == 0 {
		return apperrors.NewValidationError("titulo, descricao, idTipoTicket required", nil)
	}
	if !principal.User.CanAccessClient(req.ClientID) {
		return apperrors.NewForbidden("client not linked to user")
	}
	requester := req.RequesterEmail
	if requester == "" {
		requester = principal.User.Email
	}

	ticket, err := h.service.Create(c.UserContext(), service.TicketDraft{
		Title:          req.Title,
		Description:    req.Description,
		ClientID:       req.ClientID,
		TicketTypeID:   req.TicketTypeID,
		Priority:       req.Priority,
		RequesterEmail: requester,
		AttachmentURLs: req.AttachmentURLs,
	}, *principal.User)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": h.ticketResponse(ticket)})
}

// GetTicket GET /tickets/:id, ticket plus history, newest first.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	ticket, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if !principal.User.CanAccessClient(ticket.ClientID) {
		return apperrors.NewForbidden("client not linked to user")
	}
	history, err := h.service.History(c.UserContext(), ticket.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketDetailResponse{
		TicketResponse: h.ticketResponse(ticket),
		History:        history,
	}})
}

// UpdateTicket PATCH /tickets/:id, status and/or assignee.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	// access is checked against the stored ticket before anything mutates
	current, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if !principal.User.CanAccessClient(current.ClientID) {
		return apperrors.NewForbidden("client not linked to user")
	}

	update := service.TicketUpdate{Status: req.Status}
	if len(req.AssigneeEmail) > 0 {
		var assignee *string
		if err := json.Unmarshal(req.AssigneeEmail, &assignee); err != nil {
			return apperrors.NewValidationError("invalid responsavelEmail", nil)
		}
		if assignee != nil && *assignee == "" {
			assignee = nil
		}
		update.AssigneeEmail = &assignee
	}

	ticket, err := h.service.Update(c.UserContext(), c.Params("id"), update, *principal.User)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.ticketResponse(ticket)})
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if !principal.User.CanAccessClient(ticket.ClientID) {
		return apperrors.NewForbidden("client not linked to user")
	}

	entry, err := h.service.AddComment(c.UserContext(), c.Params("id"), req.Text, *principal.User)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": entry})
}

// QuerySLA GET /sla, the read-only resolution query.
func (h *TicketsHandler) QuerySLA(c *fiber.Ctx) error {
	clientID, err := strconv.ParseInt(c.Query("client_id"), 10, 64)
	if err != nil {
		return apperrors.NewValidationError("invalid client_id", nil)
	}
	ticketTypeID, err := strconv.ParseInt(c.Query("ticket_type_id"), 10, 64)
	if err != nil {
		return apperrors.NewValidationError("invalid ticket_type_id", nil)
	}
	priority := domain.TicketPriority(c.Query("priority"))
	if !priority.Valid() {
		return apperrors.NewValidationError("invalid priority", nil)
	}

	hours, err := h.service.ResolveSLA(c.UserContext(), clientID, ticketTypeID, priority)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SLAQueryResponse{
		TurnaroundHours: hours,
		QueriedAt:       time.Now().UTC(),
	}})
}

func (h *TicketsHandler) ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		Ticket:  *ticket,
		Overdue: h.service.IsOverdue(ticket),
	}
}
