package domain

// ClientStatus marks a client organization active or inactive.
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "ATIVO"
	ClientStatusInactive ClientStatus = "INATIVO"
)

// Client is a tenant organization tickets belong to.
type Client struct {
	ID     int64        `json:"id"`
	Name   string       `json:"nome"`
	Status ClientStatus `json:"status"`
}

// Active reports whether the client may receive new tickets.
func (c Client) Active() bool {
	return c.Status == ClientStatusActive
}
