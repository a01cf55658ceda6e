package service

import (
	"context"

	"github.com/wmachadoc/Abertura-de-tickets/internal/domain"
)

// ClientSummary aggregates one client's ticket workload.
type ClientSummary struct {
	ClientID   int64                         `json:"client_id"`
	Total      int                           `json:"total"`
	ByStatus   map[domain.TicketStatus]int   `json:"by_status"`
	ByPriority map[domain.TicketPriority]int `json:"by_priority"`
	Overdue    int                           `json:"overdue"`
}

// ReportService derives read-only aggregates from the ticket table.
type ReportService struct {
	tickets *TicketService
}

// NewReportService builds the service.
func NewReportService(tickets *TicketService) *ReportService {
	return &ReportService{tickets: tickets}
}

// Summary computes the per-client workload snapshot. Overdue is evaluated
// at call time, consistent with the read-time predicate.
func (s *ReportService) Summary(ctx context.Context, clientID int64) (*ClientSummary, error) {
	tickets, err := s.tickets.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	summary := &ClientSummary{
		ClientID:   clientID,
		Total:      len(tickets),
		ByStatus:   make(map[domain.TicketStatus]int),
		ByPriority: make(map[domain.TicketPriority]int),
	}
	for i := range tickets {
		summary.ByStatus[tickets[i].Status]++
		summary.ByPriority[tickets[i].Priority]++
		if s.tickets.IsOverdue(&tickets[i]) {
			summary.Overdue++
		}
	}
	return summary, nil
}
