package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/wmachadoc/Abertura-de-tickets/internal/domain"
	"github.com/wmachadoc/Abertura-de-tickets/internal/service"
	apperrors "github.com/wmachadoc/Abertura-de-tickets/pkg/util/errorutil"
)

// AdminHandler manages the lookup-table CRUD: users, clients, ticket
// types and SLA rules.
type AdminHandler struct {
	directory *service.DirectoryService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(directory *service.DirectoryService) *AdminHandler {
	return &AdminHandler{directory: directory}
}

// ListUsers GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.directory.UsersForClient(c.UserContext(), 0)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": users})
}

// AddUser POST /admin/users.
func (h *AdminHandler) AddUser(c *fiber.Ctx) error {
	var user domain.User
	if err := c.BodyParser(&user); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.directory.AddUser(c.UserContext(), &user); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": user})
}

// UpdateUser PUT /admin/users/:id.
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var user domain.User
	if err := c.BodyParser(&user); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user.ID = id
	if err := h.directory.UpdateUser(c.UserContext(), &user); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": user})
}

// ListClients GET /admin/clients.
func (h *AdminHandler) ListClients(c *fiber.Ctx) error {
	clients, err := h.directory.ListClients(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": clients})
}

// AddClient POST /admin/clients.
func (h *AdminHandler) AddClient(c *fiber.Ctx) error {
	var client domain.Client
	if err := c.BodyParser(&client); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.directory.AddClient(c.UserContext(), &client); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": client})
}

// UpdateClient PUT /admin/clients/:id.
func (h *AdminHandler) UpdateClient(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var client domain.Client
	if err := c.BodyParser(&client); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	client.ID = id
	if err := h.directory.UpdateClient(c.UserContext(), &client); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": client})
}

// ListTicketTypes GET /admin/ticket-types.
func (h *AdminHandler) ListTicketTypes(c *fiber.Ctx) error {
	types, err := h.directory.ListTicketTypes(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": types})
}

// AddTicketType POST /admin/ticket-types.
func (h *AdminHandler) AddTicketType(c *fiber.Ctx) error {
	var ticketType domain.TicketType
	if err := c.BodyParser(&ticketType); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.directory.AddTicketType(c.UserContext(), &ticketType); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketType})
}

// UpdateTicketType PUT /admin/ticket-types/:id.
func (h *AdminHandler) UpdateTicketType(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var ticketType domain.TicketType
	if err := c.BodyParser(&ticketType); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticketType.ID = id
	if err := h.directory.UpdateTicketType(c.UserContext(), &ticketType); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketType})
}

// ListSLARules GET /admin/slas.
func (h *AdminHandler) ListSLARules(c *fiber.Ctx) error {
	rules, err := h.directory.ListSLARules(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rules})
}

// AddSLARule POST /admin/slas.
func (h *AdminHandler) AddSLARule(c *fiber.Ctx) error {
	var rule domain.SLARule
	if err := c.BodyParser(&rule); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.directory.AddSLARule(c.UserContext(), &rule); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": rule})
}

// UpdateSLARule PUT /admin/slas/:id.
func (h *AdminHandler) UpdateSLARule(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var rule domain.SLARule
	if err := c.BodyParser(&rule); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	rule.ID = id
	if err := h.directory.UpdateSLARule(c.UserContext(), &rule); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rule})
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid id", nil)
	}
	return id, nil
}
