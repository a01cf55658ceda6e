// Package memory implements store.Store over in-process tables. It is the
// default backend for development and the fixture store for tests.
package memory

import (
	"context"
	"sync"

	"github.com/wmachadoc/Abertura-de-tickets/internal/domain"
	apperrors "github.com/wmachadoc/Abertura-de-tickets/pkg/util/errorutil"
)

// Store keeps every table behind one mutex, which makes each operation
// atomic: a reader can never see a ticket without its creation entry or an
// update without its history.
type Store struct {
	mu          sync.RWMutex
	users       []domain.User
	clients     []domain.Client
	ticketTypes []domain.TicketType
	slaRules    []domain.SLARule
	tickets     []domain.Ticket
	history     []domain.HistoryEntry
}

// Dataset seeds a Store.
type Dataset struct {
	Users       []domain.User
	Clients     []domain.Client
	TicketTypes []domain.TicketType
	SLARules    []domain.SLARule
	Tickets     []domain.Ticket
	History     []domain.HistoryEntry
}

// New builds an empty store.
func New() *Store {
	return &Store{}
}

// NewWithDataset builds a store pre-populated with the given tables.
func NewWithDataset(data Dataset) *Store {
	return &Store{
		users:       append([]domain.User(nil), data.Users...),
		clients:     append([]domain.Client(nil), data.Clients...),
		ticketTypes: append([]domain.TicketType(nil), data.TicketTypes...),
		slaRules:    append([]domain.SLARule(nil), data.SLARules...),
		tickets:     append([]domain.Ticket(nil), data.Tickets...),
		history:     append([]domain.HistoryEntry(nil), data.History...),
	}
}

func (s *Store) ListUsers(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.User(nil), s.users...), nil
}

func (s *Store) ListClients(_ context.Context) ([]domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Client(nil), s.clients...), nil
}

func (s *Store) ListTicketTypes(_ context.Context) ([]domain.TicketType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.TicketType(nil), s.ticketTypes...), nil
}

func (s *Store) ListSLARules(_ context.Context) ([]domain.SLARule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.SLARule(nil), s.slaRules...), nil
}

func (s *Store) ListTickets(_ context.Context) ([]domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Ticket(nil), s.tickets...), nil
}

func (s *Store) ListHistory(_ context.Context) ([]domain.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.HistoryEntry(nil), s.history...), nil
}

func (s *Store) GetTicket(_ context.Context, id string) (*domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.tickets {
		if s.tickets[i].ID == id {
			ticket := s.tickets[i]
			return &ticket, nil
		}
	}
	return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
}

func (s *Store) CreateTicket(_ context.Context, ticket *domain.Ticket, entry *domain.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tickets {
		if s.tickets[i].ID == ticket.ID {
			return apperrors.NewConflict("ticket id already exists", map[string]any{"id": ticket.ID})
		}
	}
	s.tickets = append(s.tickets, *ticket)
	s.history = append(s.history, *entry)
	return nil
}

func (s *Store) UpdateTicket(_ context.Context, id string, changes domain.TicketChanges, entries []domain.HistoryEntry) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tickets {
		if s.tickets[i].ID != id {
			continue
		}
		if changes.Status != nil {
			s.tickets[i].Status = *changes.Status
		}
		if changes.AssigneeEmail != nil {
			s.tickets[i].AssigneeEmail = *changes.AssigneeEmail
		}
		if changes.ClosedAt != nil {
			s.tickets[i].ClosedAt = *changes.ClosedAt
		}
		s.history = append(s.history, entries...)
		ticket := s.tickets[i]
		return &ticket, nil
	}
	return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
}

func (s *Store) AppendHistory(_ context.Context, entry *domain.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, *entry)
	return nil
}

func (s *Store) AddUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var maxID int64
	for _, u := range s.users {
		if u.ID > maxID {
			maxID = u.ID
		}
	}
	user.ID = maxID + 1
	s.users = append(s.users, *user)
	return nil
}

func (s *Store) UpdateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == user.ID {
			s.users[i] = *user
			return nil
		}
	}
	return apperrors.NewNotFound("user", map[string]any{"id": user.ID})
}

func (s *Store) AddClient(_ context.Context, client *domain.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var maxID int64
	for _, c := range s.clients {
		if c.ID > maxID {
			maxID = c.ID
		}
	}
	client.ID = maxID + 1
	s.clients = append(s.clients, *client)
	return nil
}

func (s *Store) UpdateClient(_ context.Context, client *domain.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.clients {
		if s.clients[i].ID == client.ID {
			s.clients[i] = *client
			return nil
		}
	}
	return apperrors.NewNotFound("client", map[string]any{"id": client.ID})
}

func (s *Store) AddTicketType(_ context.Context, ticketType *domain.TicketType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var maxID int64
	for _, tt := range s.ticketTypes {
		if tt.ID > maxID {
			maxID = tt.ID
		}
	}
	ticketType.ID = maxID + 1
	s.ticketTypes = append(s.ticketTypes, *ticketType)
	return nil
}

func (s *Store) UpdateTicketType(_ context.Context, ticketType *domain.TicketType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.ticketTypes {
		if s.ticketTypes[i].ID == ticketType.ID {
			s.ticketTypes[i] = *ticketType
			return nil
		}
	}
	return apperrors.NewNotFound("ticket type", map[string]any{"id": ticketType.ID})
}

func (s *Store) AddSLARule(_ context.Context, rule *domain.SLARule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var maxID int64
	for _, r := range s.slaRules {
		if r.ID > maxID {
			maxID = r.ID
		}
	}
	rule.ID = maxID + 1
	s.slaRules = append(s.slaRules, *rule)
	return nil
}

func (s *Store) UpdateSLARule(_ context.Context, rule *domain.SLARule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.slaRules {
		if s.slaRules[i].ID == rule.ID {
			s.slaRules[i] = *rule
			return nil
		}
	}
	return apperrors.NewNotFound("sla rule", map[string]any{"id": rule.ID})
}
