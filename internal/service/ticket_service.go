package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/wmachadoc/Abertura-de-tickets/internal/domain"
	"github.com/wmachadoc/Abertura-de-tickets/internal/events"
	"github.com/wmachadoc/Abertura-de-tickets/internal/sla"
	"github.com/wmachadoc/Abertura-de-tickets/internal/store"
	apperrors "github.com/wmachadoc/Abertura-de-tickets/pkg/util/errorutil"
)

// TicketService is the ticket lifecycle engine: it owns every write to the
// ticket and history tables. Writers are serialized per ticket id within
// the process; concurrent writers in other processes can still race on the
// sheets backend, which is an accepted limitation of the remote store.
type TicketService struct {
	store      store.Store
	dispatcher events.Dispatcher
	now        func() time.Time

	// autoCloseTimestamp stamps the closure date on terminal statuses.
	autoCloseTimestamp bool

	locks sync.Map // ticket id -> *sync.Mutex
}

// TicketDependencies bundles collaborators for the lifecycle engine.
type TicketDependencies struct {
	Store      store.Store
	Dispatcher events.Dispatcher

	// Now overrides the clock; nil means time.Now.
	Now func() time.Time

	AutoCloseTimestamp bool
}

// TicketDraft describes ticket creation payload. Status is absent on
// purpose: every ticket starts as Novo.
type TicketDraft struct {
	Title          string
	Description    string
	ClientID       int64
	TicketTypeID   int64
	Priority       domain.TicketPriority
	RequesterEmail string
	AttachmentURLs []string
}

// TicketUpdate is the partial update accepted by Update. Only status and
// assignee are mutable after creation.
type TicketUpdate struct {
	Status *domain.TicketStatus
	// AssigneeEmail: outer nil = not part of the update, inner nil =
	// unassign.
	AssigneeEmail **string
}

// NewTicketService constructs the engine.
func NewTicketService(deps TicketDependencies) *TicketService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &TicketService{
		store:              deps.Store,
		dispatcher:         deps.Dispatcher,
		now:                now,
		autoCloseTimestamp: deps.AutoCloseTimestamp,
	}
}

// historyIDCounter disambiguates entries minted within the same
// millisecond.
var historyIDCounter atomic.Int64

func nextHistoryID(now time.Time) int64 {
	return now.UnixMilli()*1000 + historyIDCounter.Add(1)%1000
}

func generateTicketID() string {
	return "T" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// Create materializes a ticket from a draft: assigns the id, stamps the
// opening time, resolves the SLA due date from the current rule set, and
// records the creation history entry. Ticket and entry are persisted as
// one write.
func (s *TicketService) Create(ctx context.Context, draft TicketDraft, actor domain.User) (*domain.Ticket, error) {
	if strings.TrimSpace(draft.Title) == "" || strings.TrimSpace(draft.Description) == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}
	if strings.TrimSpace(draft.RequesterEmail) == "" {
		return nil, apperrors.NewValidationError("requester email required", nil)
	}
	if !draft.Priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": draft.Priority})
	}

	if err := s.checkClientExists(ctx, draft.ClientID); err != nil {
		return nil, err
	}
	if err := s.checkTicketTypeExists(ctx, draft.TicketTypeID, draft.ClientID); err != nil {
		return nil, err
	}

	rules, err := s.store.ListSLARules(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	hours := sla.Resolve(draft.ClientID, draft.TicketTypeID, draft.Priority, rules)

	attachments := draft.AttachmentURLs
	if attachments == nil {
		attachments = []string{}
	}
	ticket := &domain.Ticket{
		ID:             generateTicketID(),
		Title:          strings.TrimSpace(draft.Title),
		Description:    strings.TrimSpace(draft.Description),
		ClientID:       draft.ClientID,
		TicketTypeID:   draft.TicketTypeID,
		Priority:       draft.Priority,
		Status:         domain.TicketStatusNew,
		RequesterEmail: strings.TrimSpace(draft.RequesterEmail),
		CreatedAt:      now,
		DueAt:          now.Add(time.Duration(hours) * time.Hour),
		AttachmentURLs: attachments,
	}

	entry := &domain.HistoryEntry{
		ID:          nextHistoryID(now),
		TicketID:    ticket.ID,
		OccurredAt:  now,
		AuthorEmail: actor.Email,
		Action:      domain.ActionCreation,
		Detail:      fmt.Sprintf("Ticket criado com status %q.", domain.TicketStatusNew),
	}

	if err := s.store.CreateTicket(ctx, ticket, entry); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventTicketCreated,
		TicketID:   ticket.ID,
		ActorEmail: actor.Email,
		Payload: events.TicketCreatedPayload{
			ClientID:     ticket.ClientID,
			TicketTypeID: ticket.TicketTypeID,
			Priority:     ticket.Priority,
			Title:        ticket.Title,
			DueAt:        ticket.DueAt,
		},
	})
	return ticket, nil
}

// Update applies status and/or assignee changes. Each field that actually
// differs from stored state yields one history entry; an update that
// changes nothing writes nothing. Field changes and entries land in one
// store write.
func (s *TicketService) Update(ctx context.Context, ticketID string, update TicketUpdate, actor domain.User) (*domain.Ticket, error) {
	unlock := s.lockTicket(ticketID)
	defer unlock()

	current, err := s.store.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	var (
		changes domain.TicketChanges
		entries []domain.HistoryEntry
	)

	if update.Status != nil && *update.Status != current.Status {
		newStatus := *update.Status
		changes.Status = &newStatus
		entries = append(entries, domain.HistoryEntry{
			ID:          nextHistoryID(now),
			TicketID:    ticketID,
			OccurredAt:  now,
			AuthorEmail: actor.Email,
			Action:      domain.ActionStatusChange,
			Detail:      fmt.Sprintf("Status alterado de %q para %q.", current.Status, newStatus),
		})

		if s.autoCloseTimestamp {
			if newStatus.IsTerminal() {
				closedAt := &now
				changes.ClosedAt = &closedAt
			} else if current.ClosedAt != nil {
				var cleared *time.Time
				changes.ClosedAt = &cleared
			}
		}
	}

	if update.AssigneeEmail != nil && !equalAssignee(*update.AssigneeEmail, current.AssigneeEmail) {
		newAssignee := *update.AssigneeEmail
		changes.AssigneeEmail = &newAssignee
		entries = append(entries, domain.HistoryEntry{
			ID:          nextHistoryID(now),
			TicketID:    ticketID,
			OccurredAt:  now,
			AuthorEmail: actor.Email,
			Action:      domain.ActionAssigneeChange,
			Detail:      fmt.Sprintf("Responsável alterado de %q para %q.", assigneeLabel(current.AssigneeEmail), assigneeLabel(newAssignee)),
		})
	}

	if changes.Empty() {
		return current, nil
	}

	updated, err := s.store.UpdateTicket(ctx, ticketID, changes, entries)
	if err != nil {
		return nil, err
	}

	if changes.Status != nil {
		s.publishEvent(ctx, events.Event{
			Type:       events.EventTicketStatusChanged,
			TicketID:   ticketID,
			ActorEmail: actor.Email,
			Payload: events.TicketStatusChangedPayload{
				OldStatus: current.Status,
				NewStatus: *changes.Status,
			},
		})
	}
	if changes.AssigneeEmail != nil {
		s.publishEvent(ctx, events.Event{
			Type:       events.EventTicketAssigneeChanged,
			TicketID:   ticketID,
			ActorEmail: actor.Email,
			Payload: events.TicketAssigneeChangedPayload{
				OldAssignee: current.AssigneeEmail,
				NewAssignee: *changes.AssigneeEmail,
			},
		})
	}
	return updated, nil
}

// AddComment appends a comment entry to the ticket's history. Ticket
// fields are untouched.
func (s *TicketService) AddComment(ctx context.Context, ticketID, text string, actor domain.User) (*domain.HistoryEntry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("comment text required", nil)
	}

	if _, err := s.store.GetTicket(ctx, ticketID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	entry := &domain.HistoryEntry{
		ID:          nextHistoryID(now),
		TicketID:    ticketID,
		OccurredAt:  now,
		AuthorEmail: actor.Email,
		Action:      domain.ActionComment,
		Detail:      text,
	}
	if err := s.store.AppendHistory(ctx, entry); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventTicketCommentAdded,
		TicketID:   ticketID,
		ActorEmail: actor.Email,
		Payload: events.TicketCommentAddedPayload{
			EntryID:     entry.ID,
			BodyPreview: stringPreview(text, 120),
		},
	})
	return entry, nil
}

// Get returns one ticket.
func (s *TicketService) Get(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return s.store.GetTicket(ctx, ticketID)
}

// ListByClient returns the client's tickets.
func (s *TicketService) ListByClient(ctx context.Context, clientID int64) ([]domain.Ticket, error) {
	tickets, err := s.store.ListTickets(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]domain.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		if ticket.ClientID == clientID {
			filtered = append(filtered, ticket)
		}
	}
	return filtered, nil
}

// History returns the ticket's audit trail, newest first. Storage order is
// insertion order; the sort happens here, at read time.
func (s *TicketService) History(ctx context.Context, ticketID string) ([]domain.HistoryEntry, error) {
	if _, err := s.store.GetTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	all, err := s.store.ListHistory(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.HistoryEntry, 0, 8)
	for _, entry := range all {
		if entry.TicketID == ticketID {
			entries = append(entries, entry)
		}
	}
	sortHistoryDesc(entries)
	return entries, nil
}

// ResolveSLA exposes SLA resolution as a read-only query.
func (s *TicketService) ResolveSLA(ctx context.Context, clientID, ticketTypeID int64, priority domain.TicketPriority) (int, error) {
	rules, err := s.store.ListSLARules(ctx)
	if err != nil {
		return 0, err
	}
	return sla.Resolve(clientID, ticketTypeID, priority, rules), nil
}

// IsOverdue reports whether the ticket is past due and still open. The
// predicate is computed on every read and never stored.
func (s *TicketService) IsOverdue(ticket *domain.Ticket) bool {
	if ticket.Status.IsTerminal() {
		return false
	}
	return s.now().After(ticket.DueAt)
}

func (s *TicketService) checkClientExists(ctx context.Context, clientID int64) error {
	clients, err := s.store.ListClients(ctx)
	if err != nil {
		return err
	}
	for _, client := range clients {
		if client.ID == clientID {
			return nil
		}
	}
	return apperrors.NewNotFound("client", map[string]any{"id": clientID})
}

func (s *TicketService) checkTicketTypeExists(ctx context.Context, ticketTypeID, clientID int64) error {
	types, err := s.store.ListTicketTypes(ctx)
	if err != nil {
		return err
	}
	for _, tt := range types {
		if tt.ID == ticketTypeID && tt.ClientScope.Matches(clientID) {
			return nil
		}
	}
	return apperrors.NewNotFound("ticket type", map[string]any{"id": ticketTypeID})
}

func (s *TicketService) lockTicket(ticketID string) func() {
	actual, _ := s.locks.LoadOrStore(ticketID, &sync.Mutex{})
	mu := actual.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now().UTC()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func equalAssignee(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func assigneeLabel(email *string) string {
	if email == nil || *email == "" {
		return "Nenhum"
	}
	return *email
}

func sortHistoryDesc(entries []domain.HistoryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].OccurredAt.After(entries[j].OccurredAt)
	})
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
