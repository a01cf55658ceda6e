package domain

// TicketType is a configurable ticket category, either scoped to one
// client or GLOBAL.
type TicketType struct {
	ID          int64   `json:"id"`
	ClientScope ScopeID `json:"idCliente"`
	Name        string  `json:"nome"`
	Active      bool    `json:"ativo"`
}
