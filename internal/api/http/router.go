package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wmachadoc/Abertura-de-tickets/internal/api/http/handlers"
	"github.com/wmachadoc/Abertura-de-tickets/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Clients        *handlers.ClientsHandler
	Tickets        *handlers.TicketsHandler
	Reports        *handlers.ReportsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	protected.Get("/clients", cfg.Clients.ListClients)
	protected.Get("/clients/:id/tickets", cfg.Clients.ListTickets)
	protected.Get("/clients/:id/ticket-types", cfg.Clients.ListTicketTypes)
	protected.Get("/clients/:id/users", cfg.Clients.ListUsers)

	protected.Post("/tickets", cfg.Tickets.CreateTicket)
	protected.Get("/tickets/:id", cfg.Tickets.GetTicket)
	protected.Patch("/tickets/:id", cfg.Tickets.UpdateTicket)
	protected.Post("/tickets/:id/comments", cfg.Tickets.AddComment)
	protected.Get("/sla", cfg.Tickets.QuerySLA)

	protected.Get("/reports/summary", cfg.Reports.Summary)

	admin := protected.Group("/admin", auth.RequireAdmin())
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Post("/users", cfg.Admin.AddUser)
	admin.Put("/users/:id", cfg.Admin.UpdateUser)
	admin.Get("/clients", cfg.Admin.ListClients)
	admin.Post("/clients", cfg.Admin.AddClient)
	admin.Put("/clients/:id", cfg.Admin.UpdateClient)
	admin.Get("/ticket-types", cfg.Admin.ListTicketTypes)
	admin.Post("/ticket-types", cfg.Admin.AddTicketType)
	admin.Put("/ticket-types/:id", cfg.Admin.UpdateTicketType)
	admin.Get("/slas", cfg.Admin.ListSLARules)
	admin.Post("/slas", cfg.Admin.AddSLARule)
	admin.Put("/slas/:id", cfg.Admin.UpdateSLARule)
}
