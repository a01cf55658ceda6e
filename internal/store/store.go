// Package store defines the table-service abstraction backing the ticket
// system. Implementations exist for an in-memory dataset, a spreadsheet
// reached through a single HTTP endpoint, and Postgres; a Redis decorator
// caches table reads. The lifecycle engine is the sole writer of the
// ticket and history tables; the lookup tables are written only by the
// directory CRUD.
package store

import (
	"context"

	"github.com/wmachadoc/Abertura-de-tickets/internal/domain"
)

// Table names as they appear in the backing spreadsheet.
const (
	TableUsers       = "users"
	TableClients     = "clientes"
	TableTicketTypes = "tipos_ticket"
	TableSLAs        = "slas"
	TableTickets     = "tickets"
	TableHistory     = "historico"
)

// Store is the rule-store contract. Reads return full-table snapshots;
// callers filter. Writes that touch a ticket and its history entries must
// be atomic from a reader's perspective.
type Store interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	ListClients(ctx context.Context) ([]domain.Client, error)
	ListTicketTypes(ctx context.Context) ([]domain.TicketType, error)
	ListSLARules(ctx context.Context) ([]domain.SLARule, error)
	ListTickets(ctx context.Context) ([]domain.Ticket, error)
	ListHistory(ctx context.Context) ([]domain.HistoryEntry, error)

	// GetTicket returns the ticket or a NOT_FOUND domain error.
	GetTicket(ctx context.Context, id string) (*domain.Ticket, error)

	// CreateTicket persists a new ticket together with its creation
	// history entry.
	CreateTicket(ctx context.Context, ticket *domain.Ticket, entry *domain.HistoryEntry) error

	// UpdateTicket applies staged field changes and appends the
	// accompanying history entries, returning the merged ticket.
	UpdateTicket(ctx context.Context, id string, changes domain.TicketChanges, entries []domain.HistoryEntry) (*domain.Ticket, error)

	// AppendHistory appends one entry without touching ticket fields.
	AppendHistory(ctx context.Context, entry *domain.HistoryEntry) error

	AddUser(ctx context.Context, user *domain.User) error
	UpdateUser(ctx context.Context, user *domain.User) error
	AddClient(ctx context.Context, client *domain.Client) error
	UpdateClient(ctx context.Context, client *domain.Client) error
	AddTicketType(ctx context.Context, ticketType *domain.TicketType) error
	UpdateTicketType(ctx context.Context, ticketType *domain.TicketType) error
	AddSLARule(ctx context.Context, rule *domain.SLARule) error
	UpdateSLARule(ctx context.Context, rule *domain.SLARule) error
}
