package domain

import "time"

// HistoryAction categorizes an audit entry. Free text on the wire; these
// are the values the engine emits.
type HistoryAction string

const (
	ActionCreation       HistoryAction = "Criação"
	ActionStatusChange   HistoryAction = "Mudança de status"
	ActionAssigneeChange HistoryAction = "Mudança de responsável"
	ActionComment        HistoryAction = "Novo comentário"
)

// HistoryEntry is one immutable fact recorded against a ticket. Entries are
// append-only: never mutated, never deleted. Storage order is insertion
// order; presentation sorts newest first.
type HistoryEntry struct {
	ID          int64         `json:"id"`
	TicketID    string        `json:"idTicket"`
	OccurredAt  time.Time     `json:"data"`
	AuthorEmail string        `json:"autorEmail"`
	Action      HistoryAction `json:"acao"`
	Detail      string        `json:"detalhes"`
}
