// Package sla resolves the turnaround applicable to a new ticket from the
// current rule set snapshot.
package sla

import (
	"github.com/wmachadoc/Abertura-de-tickets/internal/domain"
)

// DefaultTurnaroundHours applies when no rule matches. Missing rules are
// policy, not failure, so Resolve never errors.
const DefaultTurnaroundHours = 24

// Resolve picks the turnaround hours for a ticket. First match wins, in
// this order:
//
//  1. a rule scoped to the exact client with the same priority; the
//     ticket-type scope is not consulted at this step;
//  2. a rule with GLOBAL client scope and the same priority;
//  3. DefaultTurnaroundHours.
//
// The ticket-type id is part of the signature so callers pass full context,
// even though the current precedence only keys on client and priority.
func Resolve(clientID, ticketTypeID int64, priority domain.TicketPriority, rules []domain.SLARule) int {
	_ = ticketTypeID

	for _, rule := range rules {
		if !rule.ClientScope.Global && rule.ClientScope.ID == clientID && rule.Priority == priority {
			return rule.TurnaroundHours
		}
	}
	for _, rule := range rules {
		if rule.ClientScope.Global && rule.Priority == priority {
			return rule.TurnaroundHours
		}
	}
	return DefaultTurnaroundHours
}
