package domain

import "time"

// TicketStatus enumerates lifecycle states. The wire values match the
// spreadsheet columns, which are in Portuguese.
type TicketStatus string

const (
	TicketStatusNew           TicketStatus = "Novo"
	TicketStatusInProgress    TicketStatus = "Em atendimento"
	TicketStatusWaitingClient TicketStatus = "Aguardando cliente"
	TicketStatusResolved      TicketStatus = "Resolvido"
	TicketStatusClosed        TicketStatus = "Fechado"
)

// IsTerminal reports whether the status ends the ticket lifecycle.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "Baixa"
	TicketPriorityMedium TicketPriority = "Média"
	TicketPriorityHigh   TicketPriority = "Alta"
)

// Rank orders priorities Baixa < Média < Alta. Unknown values rank lowest.
func (p TicketPriority) Rank() int {
	switch p {
	case TicketPriorityLow:
		return 1
	case TicketPriorityMedium:
		return 2
	case TicketPriorityHigh:
		return 3
	}
	return 0
}

// Valid reports whether the priority is one of the defined levels.
func (p TicketPriority) Valid() bool {
	return p.Rank() > 0
}

// Ticket is the aggregate for support requests. Identity, client, type,
// priority, requester and due date are fixed at creation; only status and
// assignee change afterwards, always through the lifecycle engine.
type Ticket struct {
	ID             string         `json:"id"`
	Title          string         `json:"titulo"`
	Description    string         `json:"descricao"`
	ClientID       int64          `json:"idCliente"`
	TicketTypeID   int64          `json:"idTipoTicket"`
	Priority       TicketPriority `json:"prioridade"`
	Status         TicketStatus   `json:"status"`
	AssigneeEmail  *string        `json:"responsavelEmail"`
	RequesterEmail string         `json:"solicitanteEmail"`
	CreatedAt      time.Time      `json:"dataAbertura"`
	DueAt          time.Time      `json:"dataLimite"`
	ClosedAt       *time.Time     `json:"dataFechamento"`
	AttachmentURLs []string       `json:"linksAnexos"`
}

// TicketChanges is the partial update accepted by the lifecycle engine.
// Nil fields are left untouched. Assignee and closure use a double pointer
// so that "set to empty" is distinguishable from "not part of this update".
type TicketChanges struct {
	Status        *TicketStatus
	AssigneeEmail **string
	ClosedAt      **time.Time
}

// Empty reports whether the change set stages no field at all.
func (c TicketChanges) Empty() bool {
	return c.Status == nil && c.AssigneeEmail == nil && c.ClosedAt == nil
}
