// Package sheets implements store.Store against a spreadsheet exposed
// through a single Apps-Script HTTP endpoint. Every call is a POST whose
// body is one form field, payload=<url-encoded JSON {action, payload}>,
// with a form-urlencoded content type so browsers sharing the endpoint
// never trigger a preflight. Responses are a {success, data, error}
// envelope.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wmachadoc/Abertura-de-tickets/internal/domain"
	"github.com/wmachadoc/Abertura-de-tickets/internal/store"
	apperrors "github.com/wmachadoc/Abertura-de-tickets/pkg/util/errorutil"
)

const (
	actionReadSheet        = "readSheet"
	actionCreateTicket     = "createTicket"
	actionUpdateTicket     = "updateTicket"
	actionAddComment       = "addComment"
	actionAddUser          = "addUser"
	actionUpdateUser       = "updateUser"
	actionAddClient        = "addClient"
	actionUpdateClient     = "updateClient"
	actionAddTicketType    = "addTipoTicket"
	actionUpdateTicketType = "updateTipoTicket"
	actionAddSLA           = "addSLA"
	actionUpdateSLA        = "updateSLA"
)

// Client talks to the remote spreadsheet store.
type Client struct {
	scriptURL string
	http      *http.Client
	logger    *zap.Logger
}

// New builds a Client for the given Apps-Script URL.
func New(scriptURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		scriptURL: scriptURL,
		http:      &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

type envelope struct {
	Action  string `json:"action"`
	Payload any    `json:"payload"`
}

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// do executes one action against the endpoint and decodes the data field
// into out when out is non-nil. Any failure, local or remote, surfaces as
// a TRANSPORT_FAILURE; no partial commit is possible because the script
// applies each action atomically.
func (c *Client) do(ctx context.Context, action string, payload, out any) error {
	if c.scriptURL == "" {
		return apperrors.NewTransportFailure(action, fmt.Errorf("script URL not configured"))
	}

	body, err := json.Marshal(envelope{Action: action, Payload: payload})
	if err != nil {
		return apperrors.NewTransportFailure(action, err)
	}
	form := url.Values{"payload": {string(body)}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.scriptURL, strings.NewReader(form.Encode()))
	if err != nil {
		return apperrors.NewTransportFailure(action, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.NewTransportFailure(action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.NewTransportFailure(action, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewTransportFailure(action, err)
	}

	var env response
	if err := json.Unmarshal(raw, &env); err != nil {
		return apperrors.NewTransportFailure(action, fmt.Errorf("malformed envelope: %w", err))
	}
	if !env.Success {
		remoteErr := env.Error
		if remoteErr == "" {
			remoteErr = "unknown error"
		}
		c.logger.Warn("remote store rejected action",
			zap.String("action", action),
			zap.String("error", remoteErr))
		return apperrors.NewTransportFailure(action, fmt.Errorf("%s", remoteErr))
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return apperrors.NewTransportFailure(action, fmt.Errorf("malformed data: %w", err))
		}
	}
	return nil
}

func readSheet[T any](ctx context.Context, c *Client, sheetName string) ([]T, error) {
	var rows []T
	if err := c.do(ctx, actionReadSheet, map[string]string{"sheetName": sheetName}, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	return readSheet[domain.User](ctx, c, store.TableUsers)
}

func (c *Client) ListClients(ctx context.Context) ([]domain.Client, error) {
	return readSheet[domain.Client](ctx, c, store.TableClients)
}

func (c *Client) ListTicketTypes(ctx context.Context) ([]domain.TicketType, error) {
	return readSheet[domain.TicketType](ctx, c, store.TableTicketTypes)
}

func (c *Client) ListSLARules(ctx context.Context) ([]domain.SLARule, error) {
	return readSheet[domain.SLARule](ctx, c, store.TableSLAs)
}

func (c *Client) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	return readSheet[domain.Ticket](ctx, c, store.TableTickets)
}

func (c *Client) ListHistory(ctx context.Context) ([]domain.HistoryEntry, error) {
	return readSheet[domain.HistoryEntry](ctx, c, store.TableHistory)
}

func (c *Client) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	tickets, err := c.ListTickets(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tickets {
		if tickets[i].ID == id {
			return &tickets[i], nil
		}
	}
	return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
}

func (c *Client) CreateTicket(ctx context.Context, ticket *domain.Ticket, entry *domain.HistoryEntry) error {
	payload := map[string]any{
		"ticket":       ticket,
		"historyEntry": entry,
	}
	return c.do(ctx, actionCreateTicket, payload, nil)
}

func (c *Client) UpdateTicket(ctx context.Context, id string, changes domain.TicketChanges, entries []domain.HistoryEntry) (*domain.Ticket, error) {
	current, err := c.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if changes.Status != nil {
		updates["status"] = *changes.Status
		current.Status = *changes.Status
	}
	if changes.AssigneeEmail != nil {
		updates["responsavelEmail"] = *changes.AssigneeEmail
		current.AssigneeEmail = *changes.AssigneeEmail
	}
	if changes.ClosedAt != nil {
		updates["dataFechamento"] = *changes.ClosedAt
		current.ClosedAt = *changes.ClosedAt
	}

	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	payload := map[string]any{
		"ticketId":       id,
		"updates":        updates,
		"historyEntries": entries,
	}
	if err := c.do(ctx, actionUpdateTicket, payload, nil); err != nil {
		return nil, err
	}
	return current, nil
}

func (c *Client) AppendHistory(ctx context.Context, entry *domain.HistoryEntry) error {
	return c.do(ctx, actionAddComment, map[string]any{"historyEntry": entry}, nil)
}

func (c *Client) AddUser(ctx context.Context, user *domain.User) error {
	return c.do(ctx, actionAddUser, map[string]any{"userData": user}, user)
}

func (c *Client) UpdateUser(ctx context.Context, user *domain.User) error {
	return c.do(ctx, actionUpdateUser, map[string]any{"updatedUser": user}, user)
}

func (c *Client) AddClient(ctx context.Context, client *domain.Client) error {
	return c.do(ctx, actionAddClient, map[string]any{"clientData": client}, client)
}

func (c *Client) UpdateClient(ctx context.Context, client *domain.Client) error {
	return c.do(ctx, actionUpdateClient, map[string]any{"updatedClient": client}, client)
}

func (c *Client) AddTicketType(ctx context.Context, ticketType *domain.TicketType) error {
	return c.do(ctx, actionAddTicketType, map[string]any{"tipoTicketData": ticketType}, ticketType)
}

func (c *Client) UpdateTicketType(ctx context.Context, ticketType *domain.TicketType) error {
	return c.do(ctx, actionUpdateTicketType, map[string]any{"updatedTipoTicket": ticketType}, ticketType)
}

func (c *Client) AddSLARule(ctx context.Context, rule *domain.SLARule) error {
	return c.do(ctx, actionAddSLA, map[string]any{"slaData": rule}, rule)
}

func (c *Client) UpdateSLARule(ctx context.Context, rule *domain.SLARule) error {
	return c.do(ctx, actionUpdateSLA, map[string]any{"updatedSLA": rule}, rule)
}
