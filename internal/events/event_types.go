package events

import (
	"time"

	"github.com/wmachadoc/Abertura-de-tickets/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketStatusChanged   EventType = "ticket_status_changed"
	EventTicketAssigneeChanged EventType = "ticket_assignee_changed"
	EventTicketCommentAdded    EventType = "ticket_comment_added"
)

// Event represents a domain event emitted by the lifecycle engine.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	TicketID   string      `json:"ticket_id"`
	ActorEmail string      `json:"actor_email"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	ClientID     int64                 `json:"client_id"`
	TicketTypeID int64                 `json:"ticket_type_id"`
	Priority     domain.TicketPriority `json:"priority"`
	Title        string                `json:"title"`
	DueAt        time.Time             `json:"due_at"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketAssigneeChangedPayload payload.
type TicketAssigneeChangedPayload struct {
	OldAssignee *string `json:"old_assignee,omitempty"`
	NewAssignee *string `json:"new_assignee,omitempty"`
}

// TicketCommentAddedPayload payload.
type TicketCommentAddedPayload struct {
	EntryID     int64  `json:"entry_id"`
	BodyPreview string `json:"body_preview"`
}
