package domain

// SLARule maps a (client, ticket type, priority) scope to an allowed
// turnaround in hours. Rules are administered through the directory CRUD
// and read-only to the lifecycle engine.
type SLARule struct {
	ID              int64          `json:"id"`
	ClientScope     ScopeID        `json:"idCliente"`
	TicketTypeScope ScopeID        `json:"idTipoTicket"`
	Priority        TicketPriority `json:"prioridade"`
	TurnaroundHours int            `json:"prazoHoras"`
}
