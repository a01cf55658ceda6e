package memory

import (
	"context"
	"testing"
	"time"

	"github.com/wmachadoc/Abertura-de-tickets/internal/domain"
	apperrors "github.com/wmachadoc/Abertura-de-tickets/pkg/util/errorutil"
)

func sampleTicket(id string) *domain.Ticket {
	return &domain.Ticket{
		ID:        id,
		Title:     "VPN fora do ar",
		ClientID:  101,
		Priority:  domain.TicketPriorityHigh,
		Status:    domain.TicketStatusNew,
		CreatedAt: time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC),
		DueAt:     time.Date(2024, 5, 10, 16, 0, 0, 0, time.UTC),
	}
}

func sampleEntry(id int64, ticketID string) *domain.HistoryEntry {
	return &domain.HistoryEntry{
		ID:       id,
		TicketID: ticketID,
		Action:   domain.ActionCreation,
		Detail:   `Ticket criado com status "Novo".`,
	}
}

func TestCreateTicketWritesTicketAndEntryTogether(t *testing.T) {
	st := New()
	ctx := context.Background()

	if err := st.CreateTicket(ctx, sampleTicket("T0001"), sampleEntry(1, "T0001")); err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	ticket, err := st.GetTicket(ctx, "T0001")
	if err != nil {
		t.Fatalf("GetTicket: %v", err)
	}
	if ticket.Title != "VPN fora do ar" {
		t.Errorf("Title = %q", ticket.Title)
	}

	history, err := st.ListHistory(ctx)
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	if len(history) != 1 || history[0].TicketID != "T0001" {
		t.Fatalf("history = %+v, want one entry for T0001", history)
	}
}

func TestCreateTicketRejectsDuplicateID(t *testing.T) {
	st := New()
	ctx := context.Background()

	if err := st.CreateTicket(ctx, sampleTicket("T0001"), sampleEntry(1, "T0001")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := st.CreateTicket(ctx, sampleTicket("T0001"), sampleEntry(2, "T0001"))
	if err == nil {
		t.Fatal("duplicate id accepted")
	}
	if history, _ := st.ListHistory(ctx); len(history) != 1 {
		t.Fatalf("history = %d entries, want 1 after rejected create", len(history))
	}
}

func TestUpdateTicketAppliesChangesAndEntries(t *testing.T) {
	st := New()
	ctx := context.Background()
	if err := st.CreateTicket(ctx, sampleTicket("T0001"), sampleEntry(1, "T0001")); err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	status := domain.TicketStatusInProgress
	assignee := "maria@acme.com"
	assigneePtr := &assignee
	updated, err := st.UpdateTicket(ctx, "T0001", domain.TicketChanges{
		Status:        &status,
		AssigneeEmail: &assigneePtr,
	}, []domain.HistoryEntry{
		{ID: 2, TicketID: "T0001", Action: domain.ActionStatusChange},
		{ID: 3, TicketID: "T0001", Action: domain.ActionAssigneeChange},
	})
	if err != nil {
		t.Fatalf("UpdateTicket: %v", err)
	}
	if updated.Status != domain.TicketStatusInProgress {
		t.Errorf("Status = %q", updated.Status)
	}
	if updated.AssigneeEmail == nil || *updated.AssigneeEmail != assignee {
		t.Errorf("AssigneeEmail = %v, want %q", updated.AssigneeEmail, assignee)
	}
	if history, _ := st.ListHistory(ctx); len(history) != 3 {
		t.Fatalf("history = %d entries, want 3", len(history))
	}
}

func TestUpdateTicketNotFound(t *testing.T) {
	st := New()
	status := domain.TicketStatusClosed
	_, err := st.UpdateTicket(context.Background(), "T404", domain.TicketChanges{Status: &status}, nil)
	if !apperrors.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestGetTicketReturnsCopy(t *testing.T) {
	st := New()
	ctx := context.Background()
	if err := st.CreateTicket(ctx, sampleTicket("T0001"), sampleEntry(1, "T0001")); err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	first, _ := st.GetTicket(ctx, "T0001")
	first.Title = "mutated"

	second, _ := st.GetTicket(ctx, "T0001")
	if second.Title != "VPN fora do ar" {
		t.Fatalf("stored ticket mutated through returned pointer")
	}
}

func TestAddAssignsSequentialIDs(t *testing.T) {
	st := NewWithDataset(Dataset{
		Clients: []domain.Client{{ID: 7, Name: "Acme", Status: domain.ClientStatusActive}},
	})
	ctx := context.Background()

	client := &domain.Client{Name: "Globex", Status: domain.ClientStatusActive}
	if err := st.AddClient(ctx, client); err != nil {
		t.Fatalf("AddClient: %v", err)
	}
	if client.ID != 8 {
		t.Fatalf("ID = %d, want 8", client.ID)
	}

	user := &domain.User{Name: "Ana", Email: "ana@acme.com", Profile: domain.ProfileAgent, Active: true}
	if err := st.AddUser(ctx, user); err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	if user.ID != 1 {
		t.Fatalf("user ID = %d, want 1", user.ID)
	}
}

func TestUpdateLookupNotFound(t *testing.T) {
	st := New()
	ctx := context.Background()

	if err := st.UpdateClient(ctx, &domain.Client{ID: 9}); !apperrors.IsNotFound(err) {
		t.Errorf("UpdateClient err = %v, want not found", err)
	}
	if err := st.UpdateUser(ctx, &domain.User{ID: 9}); !apperrors.IsNotFound(err) {
		t.Errorf("UpdateUser err = %v, want not found", err)
	}
	if err := st.UpdateSLARule(ctx, &domain.SLARule{ID: 9}); !apperrors.IsNotFound(err) {
		t.Errorf("UpdateSLARule err = %v, want not found", err)
	}
}

func TestSeedDatasetConsistency(t *testing.T) {
	st := NewWithDataset(SeedDataset())
	ctx := context.Background()

	tickets, err := st.ListTickets(ctx)
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	if len(tickets) == 0 {
		t.Fatal("seed dataset has no tickets")
	}

	clients, _ := st.ListClients(ctx)
	byID := map[int64]bool{}
	for _, c := range clients {
		byID[c.ID] = true
	}
	for _, ticket := range tickets {
		if !byID[ticket.ClientID] {
			t.Errorf("ticket %s references unknown client %d", ticket.ID, ticket.ClientID)
		}
	}

	history, _ := st.ListHistory(ctx)
	ticketIDs := map[string]bool{}
	for _, tk := range tickets {
		ticketIDs[tk.ID] = true
	}
	for _, entry := range history {
		if !ticketIDs[entry.TicketID] {
			t.Errorf("history entry %d references unknown ticket %s", entry.ID, entry.TicketID)
		}
	}
}
