package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/wmachadoc/Abertura-de-tickets/internal/auth"
	"github.com/wmachadoc/Abertura-de-tickets/internal/service"
	apperrors "github.com/wmachadoc/Abertura-de-tickets/pkg/util/errorutil"
)

// ClientsHandler serves client selection and per-client lookups.
type ClientsHandler struct {
	directory *service.DirectoryService
	tickets   *service.TicketService
}

// NewClientsHandler constructs handler.
func NewClientsHandler(directory *service.DirectoryService, tickets *service.TicketService) *ClientsHandler {
	return &ClientsHandler{directory: directory, tickets: tickets}
}

// ListClients GET /clients, active clients visible to the caller.
func (h *ClientsHandler) ListClients(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	clients, err := h.directory.ClientsForUser(c.UserContext(), *principal.User)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": clients})
}

// ListTickets GET /clients/:id/tickets.
func (h *ClientsHandler) ListTickets(c *fiber.Ctx) error {
	clientID, err := requireClientAccess(c)
	if err != nil {
		return err
	}
	tickets, err := h.tickets.ListByClient(c.UserContext(), clientID)
	if err != nil {
		return err
	}
	items := make([]fiber.Map, 0, len(tickets))
	for i := range tickets {
		items = append(items, fiber.Map{
			"ticket":   tickets[i],
			"atrasado": h.tickets.IsOverdue(&tickets[i]),
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListTicketTypes GET /clients/:id/ticket-types, active types including
// GLOBAL ones.
func (h *ClientsHandler) ListTicketTypes(c *fiber.Ctx) error {
	clientID, err := requireClientAccess(c)
	if err != nil {
		return err
	}
	types, err := h.directory.TicketTypesForClient(c.UserContext(), clientID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": types})
}

// ListUsers GET /clients/:id/users, users linked to the client.
func (h *ClientsHandler) ListUsers(c *fiber.Ctx) error {
	clientID, err := requireClientAccess(c)
	if err != nil {
		return err
	}
	users, err := h.directory.UsersForClient(c.UserContext(), clientID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": users})
}

func requireClientAccess(c *fiber.Ctx) (int64, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return 0, apperrors.NewUnauthorized("user required")
	}
	clientID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid client id", nil)
	}
	if !principal.User.CanAccessClient(clientID) {
		return 0, apperrors.NewForbidden("client not linked to user")
	}
	return clientID, nil
}
