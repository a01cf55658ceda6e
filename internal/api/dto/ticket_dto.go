package dto

import (
	"encoding/json"
	"time"

	"github.com/wmachadoc/Abertura-de-tickets/internal/domain"
)

// CreateTicketRequest is the ticket creation payload.
type CreateTicketRequest struct {
	Title          string                `json:"titulo"`
	Description    string                `json:"descricao"`
	ClientID       int64                 `json:"idCliente"`
	TicketTypeID   int64                 `json:"idTipoTicket"`
	Priority       domain.TicketPriority `json:"prioridade"`
	RequesterEmail string                `json:"solicitanteEmail"`
	AttachmentURLs []string              `json:"linksAnexos"`
}

// UpdateTicketRequest carries the two mutable fields. Assignee semantics:
// absent = untouched, null = unassign, value = assign.
type UpdateTicketRequest struct {
	Status        *domain.TicketStatus `json:"status"`
	AssigneeEmail json.RawMessage      `json:"responsavelEmail"`
}

// AddCommentRequest is the comment payload.
type AddCommentRequest struct {
	Text string `json:"texto"`
}

// TicketResponse is the API shape of a ticket, with the derived overdue
// flag attached.
type TicketResponse struct {
	domain.Ticket
	Overdue bool `json:"atrasado"`
}

// TicketDetailResponse adds the history trail, newest first.
type TicketDetailResponse struct {
	TicketResponse
	History []domain.HistoryEntry `json:"historico"`
}

// SLAQueryResponse answers the read-only SLA resolution query.
type SLAQueryResponse struct {
	TurnaroundHours int       `json:"prazoHoras"`
	QueriedAt       time.Time `json:"consultadoEm"`
}
