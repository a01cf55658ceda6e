package memory

import (
	"time"

	"github.com/wmachadoc/Abertura-de-tickets/internal/domain"
)

// SeedDataset returns the development fixture: two active clients, one
// inactive, a handful of users across profiles, client-scoped and GLOBAL
// ticket types and SLA rules, and a few tickets with history.
func SeedDataset() Dataset {
	agentA := "agente.a@cliente.com"
	agentB := "agente.b@cliente.com"
	now := time.Now().UTC()

	return Dataset{
		Users: []domain.User{
			{ID: 1, Name: "Admin Geral", Email: "admin@ative.com", Profile: domain.ProfileGlobalAdmin, LinkedClients: []int64{101, 102}, Active: true},
			{ID: 2, Name: "Admin Cliente A", Email: "admin.a@cliente.com", Profile: domain.ProfileClientAdmin, LinkedClients: []int64{101}, Active: true},
			{ID: 3, Name: "Agente Cliente A", Email: agentA, Profile: domain.ProfileAgent, LinkedClients: []int64{101}, Active: true},
			{ID: 4, Name: "Solicitante A", Email: "solicitante.a@cliente.com", Profile: domain.ProfileRequester, LinkedClients: []int64{101}, Active: true},
			{ID: 5, Name: "Agente Cliente B", Email: agentB, Profile: domain.ProfileAgent, LinkedClients: []int64{102}, Active: true},
			{ID: 6, Name: "Usuário Inativo", Email: "inativo@ative.com", Profile: domain.ProfileAgent, LinkedClients: []int64{101}, Active: false},
		},
		Clients: []domain.Client{
			{ID: 101, Name: "Empresa A", Status: domain.ClientStatusActive},
			{ID: 102, Name: "Empresa B", Status: domain.ClientStatusActive},
			{ID: 103, Name: "Empresa C", Status: domain.ClientStatusInactive},
		},
		TicketTypes: []domain.TicketType{
			{ID: 201, ClientScope: domain.ScopeFor(101), Name: "Dúvida Financeira", Active: true},
			{ID: 202, ClientScope: domain.ScopeFor(101), Name: "Problema Técnico", Active: true},
			{ID: 203, ClientScope: domain.ScopeFor(102), Name: "Suporte de TI", Active: true},
			{ID: 204, ClientScope: domain.GlobalScopeID(), Name: "Sugestão de Melhoria", Active: true},
		},
		SLARules: []domain.SLARule{
			{ID: 301, ClientScope: domain.ScopeFor(101), TicketTypeScope: domain.ScopeFor(202), Priority: domain.TicketPriorityHigh, TurnaroundHours: 4},
			{ID: 302, ClientScope: domain.ScopeFor(101), TicketTypeScope: domain.ScopeFor(202), Priority: domain.TicketPriorityMedium, TurnaroundHours: 8},
			{ID: 303, ClientScope: domain.GlobalScopeID(), TicketTypeScope: domain.GlobalScopeID(), Priority: domain.TicketPriorityLow, TurnaroundHours: 24},
		},
		Tickets: []domain.Ticket{
			{
				ID:             "T0001",
				Title:          "Não consigo acessar o sistema",
				Description:    "Ao tentar logar, recebo um erro de senha inválida, mas a senha está correta.",
				ClientID:       101,
				TicketTypeID:   202,
				Priority:       domain.TicketPriorityHigh,
				Status:         domain.TicketStatusNew,
				RequesterEmail: "solicitante.a@cliente.com",
				CreatedAt:      now.Add(-26 * time.Hour),
				DueAt:          now.Add(-22 * time.Hour),
				AttachmentURLs: []string{},
			},
			{
				ID:             "T0002",
				Title:          "Dúvida sobre fatura",
				Description:    "Gostaria de entender o item X da minha fatura de setembro.",
				ClientID:       101,
				TicketTypeID:   201,
				Priority:       domain.TicketPriorityMedium,
				Status:         domain.TicketStatusInProgress,
				AssigneeEmail:  &agentA,
				RequesterEmail: "solicitante.a@cliente.com",
				CreatedAt:      now.Add(-44 * time.Hour),
				DueAt:          now.Add(-20 * time.Hour),
				AttachmentURLs: []string{},
			},
			{
				ID:             "T0003",
				Title:          "Instalação de impressora",
				Description:    "Preciso de ajuda para instalar a nova impressora no setor de marketing.",
				ClientID:       102,
				TicketTypeID:   203,
				Priority:       domain.TicketPriorityLow,
				Status:         domain.TicketStatusResolved,
				AssigneeEmail:  &agentB,
				RequesterEmail: "outro@cliente.com",
				CreatedAt:      now.Add(-72 * time.Hour),
				DueAt:          now.Add(-48 * time.Hour),
				AttachmentURLs: []string{"http://drive.google.com/link1"},
			},
		},
		History: []domain.HistoryEntry{
			{ID: 1, TicketID: "T0001", OccurredAt: now.Add(-26 * time.Hour), AuthorEmail: "solicitante.a@cliente.com", Action: domain.ActionCreation, Detail: `Ticket criado com status "Novo".`},
			{ID: 2, TicketID: "T0002", OccurredAt: now.Add(-44 * time.Hour), AuthorEmail: "solicitante.a@cliente.com", Action: domain.ActionCreation, Detail: `Ticket criado com status "Novo".`},
			{ID: 3, TicketID: "T0002", OccurredAt: now.Add(-43 * time.Hour), AuthorEmail: agentA, Action: domain.ActionStatusChange, Detail: `Status alterado de "Novo" para "Em atendimento".`},
		},
	}
}
