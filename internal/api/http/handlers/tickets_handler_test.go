package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/wmachadoc/Abertura-de-tickets/internal/auth"
	"github.com/wmachadoc/Abertura-de-tickets/internal/config"
	"github.com/wmachadoc/Abertura-de-tickets/internal/service"
	"github.com/wmachadoc/Abertura-de-tickets/internal/store/memory"
	apperrors "github.com/wmachadoc/Abertura-de-tickets/pkg/util/errorutil"
)

// newTestApp wires the ticket routes over the seed dataset, with the same
// error handling contract the server uses. The store is returned so tests
// can assert on persisted state.
func newTestApp(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()

	st := memory.NewWithDataset(memory.SeedDataset())
	cfg := config.Config{Auth: config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60}}

	ticketService := service.NewTicketService(service.TicketDependencies{Store: st})
	authService := service.NewAuthService(cfg, st)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), authService)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{
				"code":    domainErr.Code,
				"message": domainErr.Message,
			}})
		},
	})

	authHandler := NewAuthHandler(authService)
	ticketsHandler := NewTicketsHandler(ticketService)

	app.Post("/auth/login", authHandler.Login)
	protected := app.Group("", authMiddleware.Handle)
	protected.Post("/tickets", ticketsHandler.CreateTicket)
	protected.Get("/tickets/:id", ticketsHandler.GetTicket)
	protected.Patch("/tickets/:id", ticketsHandler.UpdateTicket)
	protected.Post("/tickets/:id/comments", ticketsHandler.AddComment)
	protected.Get("/sla", ticketsHandler.QuerySLA)

	return app, st
}

func loginToken(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/auth/login", "", map[string]string{"email": email})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	decodeBody(t, resp, &body)
	if body.Data.Token == "" {
		t.Fatal("empty login token")
	}
	return body.Data.Token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload any) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestCreateTicketEndpoint(t *testing.T) {
	app, _ := newTestApp(t)
	token := loginToken(t, app, "agente.a@cliente.com")

	resp := doJSON(t, app, http.MethodPost, "/tickets", token, map[string]any{
		"titulo":       "Rede lenta",
		"descricao":    "A rede do escritório está muito lenta desde ontem.",
		"idCliente":    101,
		"idTipoTicket": 202,
		"prioridade":   "Alta",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var body struct {
		Data struct {
			ID             string `json:"id"`
			Status         string `json:"status"`
			RequesterEmail string `json:"solicitanteEmail"`
			CreatedAt      string `json:"dataAbertura"`
			DueAt          string `json:"dataLimite"`
		} `json:"data"`
	}
	decodeBody(t, resp, &body)
	if body.Data.Status != "Novo" {
		t.Errorf("status = %q, want Novo", body.Data.Status)
	}
	// requester defaults to the authenticated user
	if body.Data.RequesterEmail != "agente.a@cliente.com" {
		t.Errorf("requester = %q", body.Data.RequesterEmail)
	}

	created, _ := time.Parse(time.RFC3339, body.Data.CreatedAt)
	due, _ := time.Parse(time.RFC3339, body.Data.DueAt)
	if got := due.Sub(created); got != 4*time.Hour {
		t.Errorf("due offset = %v, want 4h from the client 101 Alta rule", got)
	}
}

func TestCreateTicketForbiddenForUnlinkedClient(t *testing.T) {
	app, _ := newTestApp(t)
	token := loginToken(t, app, "agente.a@cliente.com")

	resp := doJSON(t, app, http.MethodPost, "/tickets", token, map[string]any{
		"titulo":       "x",
		"descricao":    "y",
		"idCliente":    102,
		"idTipoTicket": 203,
		"prioridade":   "Baixa",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
}

func TestGetTicketReturnsHistoryNewestFirst(t *testing.T) {
	app, _ := newTestApp(t)
	token := loginToken(t, app, "agente.a@cliente.com")

	resp := doJSON(t, app, http.MethodGet, "/tickets/T0002", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body struct {
		Data struct {
			ID      string `json:"id"`
			History []struct {
				Action string `json:"acao"`
			} `json:"historico"`
			Overdue bool `json:"atrasado"`
		} `json:"data"`
	}
	decodeBody(t, resp, &body)
	if len(body.Data.History) != 2 {
		t.Fatalf("history = %d entries, want 2", len(body.Data.History))
	}
	if body.Data.History[0].Action != "Mudança de status" {
		t.Errorf("first entry = %q, want the later status change", body.Data.History[0].Action)
	}
	// T0002 is open and past due in the seed
	if !body.Data.Overdue {
		t.Error("atrasado = false, want true")
	}
}

func TestUpdateTicketAssigneeSemantics(t *testing.T) {
	app, _ := newTestApp(t)
	token := loginToken(t, app, "agente.a@cliente.com")

	// explicit null unassigns
	req := httptest.NewRequest(http.MethodPatch, "/tickets/T0002",
		bytes.NewReader([]byte(`{"responsavelEmail":null}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body struct {
		Data struct {
			AssigneeEmail *string `json:"responsavelEmail"`
			Status        string  `json:"status"`
		} `json:"data"`
	}
	decodeBody(t, resp, &body)
	if body.Data.AssigneeEmail != nil {
		t.Errorf("responsavelEmail = %v, want null", *body.Data.AssigneeEmail)
	}
	// status untouched when absent from the body
	if body.Data.Status != "Em atendimento" {
		t.Errorf("status = %q, want unchanged", body.Data.Status)
	}
}

func TestAddCommentEndpoint(t *testing.T) {
	app, _ := newTestApp(t)
	token := loginToken(t, app, "agente.a@cliente.com")

	resp := doJSON(t, app, http.MethodPost, "/tickets/T0001/comments", token, map[string]string{
		"texto": "Estamos verificando.",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var body struct {
		Data struct {
			Action string `json:"acao"`
			Detail string `json:"detalhes"`
			Author string `json:"autorEmail"`
		} `json:"data"`
	}
	decodeBody(t, resp, &body)
	if body.Data.Action != "Novo comentário" || body.Data.Detail != "Estamos verificando." {
		t.Errorf("entry = %+v", body.Data)
	}
	if body.Data.Author != "agente.a@cliente.com" {
		t.Errorf("author = %q", body.Data.Author)
	}
}

func TestQuerySLAEndpoint(t *testing.T) {
	app, _ := newTestApp(t)
	token := loginToken(t, app, "agente.a@cliente.com")

	resp := doJSON(t, app, http.MethodGet, "/sla?client_id=101&ticket_type_id=202&priority=Alta", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body struct {
		Data struct {
			TurnaroundHours int `json:"prazoHoras"`
		} `json:"data"`
	}
	decodeBody(t, resp, &body)
	if body.Data.TurnaroundHours != 4 {
		t.Errorf("prazoHoras = %d, want 4", body.Data.TurnaroundHours)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app, _ := newTestApp(t)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/tickets"},
		{http.MethodGet, "/tickets/T0001"},
		{http.MethodGet, "/sla"},
	} {
		resp := doJSON(t, app, tc.method, tc.path, "", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s %s status = %d, want 401", tc.method, tc.path, resp.StatusCode)
		}
	}
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "inativo@ative.com",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestUpdateTicketForbiddenBeforeMutation(t *testing.T) {
	app, st := newTestApp(t)
	// agente.b is linked to client 102 only; T0001 belongs to client 101
	token := loginToken(t, app, "agente.b@cliente.com")

	resp := doJSON(t, app, http.MethodPatch, "/tickets/T0001", token, map[string]any{
		"status": "Fechado",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}

	ticket, err := st.GetTicket(context.Background(), "T0001")
	if err != nil {
		t.Fatalf("GetTicket: %v", err)
	}
	if ticket.Status != "Novo" {
		t.Fatalf("stored status = %q, forbidden update must not persist", ticket.Status)
	}
	if got := countHistory(t, st, "T0001"); got != 1 {
		t.Fatalf("history entries = %d, want the seed's 1", got)
	}
}

func TestAddCommentForbiddenForUnlinkedClient(t *testing.T) {
	app, st := newTestApp(t)
	token := loginToken(t, app, "agente.b@cliente.com")

	resp := doJSON(t, app, http.MethodPost, "/tickets/T0001/comments", token, map[string]string{
		"texto": "não deveria entrar",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
	if got := countHistory(t, st, "T0001"); got != 1 {
		t.Fatalf("history entries = %d, outsider comment must not persist", got)
	}
}

func countHistory(t *testing.T, st *memory.Store, ticketID string) int {
	t.Helper()
	all, err := st.ListHistory(context.Background())
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	count := 0
	for _, entry := range all {
		if entry.TicketID == ticketID {
			count++
		}
	}
	return count
}

func TestGetTicketNotFoundStatus(t *testing.T) {
	app, _ := newTestApp(t)
	token := loginToken(t, app, "admin@ative.com")

	resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/tickets/%s", "T9999"), token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}
