package service

import (
	"context"
	"strings"

	"github.com/wmachadoc/Abertura-de-tickets/internal/domain"
	"github.com/wmachadoc/Abertura-de-tickets/internal/store"
	apperrors "github.com/wmachadoc/Abertura-de-tickets/pkg/util/errorutil"
)

// DirectoryService serves the lookup tables: users, clients, ticket types
// and SLA rules. The lifecycle engine only reads these; mutation happens
// here, through the admin CRUD.
type DirectoryService struct {
	store store.Store
}

// NewDirectoryService builds the service.
func NewDirectoryService(st store.Store) *DirectoryService {
	return &DirectoryService{store: st}
}

// ClientsForUser returns the active clients visible to the user: all of
// them for global admins, linked ones for everyone else.
func (s *DirectoryService) ClientsForUser(ctx context.Context, user domain.User) ([]domain.Client, error) {
	clients, err := s.store.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]domain.Client, 0, len(clients))
	for _, client := range clients {
		if client.Active() && user.CanAccessClient(client.ID) {
			visible = append(visible, client)
		}
	}
	return visible, nil
}

// ListClients returns every client, active or not.
func (s *DirectoryService) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.store.ListClients(ctx)
}

// TicketTypesForClient returns the active types selectable for a client,
// including GLOBAL ones.
func (s *DirectoryService) TicketTypesForClient(ctx context.Context, clientID int64) ([]domain.TicketType, error) {
	types, err := s.store.ListTicketTypes(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]domain.TicketType, 0, len(types))
	for _, tt := range types {
		if tt.Active && tt.ClientScope.Matches(clientID) {
			visible = append(visible, tt)
		}
	}
	return visible, nil
}

// ListTicketTypes returns every type.
func (s *DirectoryService) ListTicketTypes(ctx context.Context) ([]domain.TicketType, error) {
	return s.store.ListTicketTypes(ctx)
}

// UsersForClient returns users linked to the client; clientID zero means
// everyone.
func (s *DirectoryService) UsersForClient(ctx context.Context, clientID int64) ([]domain.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if clientID == 0 {
		return users, nil
	}
	visible := make([]domain.User, 0, len(users))
	for _, user := range users {
		for _, linked := range user.LinkedClients {
			if linked == clientID {
				visible = append(visible, user)
				break
			}
		}
	}
	return visible, nil
}

// ListSLARules returns the full rule set.
func (s *DirectoryService) ListSLARules(ctx context.Context) ([]domain.SLARule, error) {
	return s.store.ListSLARules(ctx)
}

// AddUser validates and creates a directory user.
func (s *DirectoryService) AddUser(ctx context.Context, user *domain.User) error {
	if strings.TrimSpace(user.Name) == "" || strings.TrimSpace(user.Email) == "" {
		return apperrors.NewValidationError("name and email required", nil)
	}
	return s.store.AddUser(ctx, user)
}

// UpdateUser replaces a directory user.
func (s *DirectoryService) UpdateUser(ctx context.Context, user *domain.User) error {
	if strings.TrimSpace(user.Name) == "" || strings.TrimSpace(user.Email) == "" {
		return apperrors.NewValidationError("name and email required", nil)
	}
	return s.store.UpdateUser(ctx, user)
}

// AddClient creates a client.
func (s *DirectoryService) AddClient(ctx context.Context, client *domain.Client) error {
	if strings.TrimSpace(client.Name) == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	if client.Status == "" {
		client.Status = domain.ClientStatusActive
	}
	return s.store.AddClient(ctx, client)
}

// UpdateClient replaces a client.
func (s *DirectoryService) UpdateClient(ctx context.Context, client *domain.Client) error {
	if strings.TrimSpace(client.Name) == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	return s.store.UpdateClient(ctx, client)
}

// AddTicketType creates a ticket type.
func (s *DirectoryService) AddTicketType(ctx context.Context, ticketType *domain.TicketType) error {
	if strings.TrimSpace(ticketType.Name) == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	return s.store.AddTicketType(ctx, ticketType)
}

// UpdateTicketType replaces a ticket type.
func (s *DirectoryService) UpdateTicketType(ctx context.Context, ticketType *domain.TicketType) error {
	if strings.TrimSpace(ticketType.Name) == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	return s.store.UpdateTicketType(ctx, ticketType)
}

// AddSLARule creates a turnaround rule.
func (s *DirectoryService) AddSLARule(ctx context.Context, rule *domain.SLARule) error {
	if !rule.Priority.Valid() {
		return apperrors.NewValidationError("invalid priority", map[string]any{"priority": rule.Priority})
	}
	if rule.TurnaroundHours <= 0 {
		return apperrors.NewValidationError("turnaround hours must be positive", nil)
	}
	return s.store.AddSLARule(ctx, rule)
}

// UpdateSLARule replaces a turnaround rule.
func (s *DirectoryService) UpdateSLARule(ctx context.Context, rule *domain.SLARule) error {
	if !rule.Priority.Valid() {
		return apperrors.NewValidationError("invalid priority", map[string]any{"priority": rule.Priority})
	}
	if rule.TurnaroundHours <= 0 {
		return apperrors.NewValidationError("turnaround hours must be positive", nil)
	}
	return s.store.UpdateSLARule(ctx, rule)
}
