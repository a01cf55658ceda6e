// Package postgres implements store.Store on a pgx pool. Ticket writes and
// their history entries share one transaction, so readers never observe a
// ticket without its audit trail.
package postgres

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wmachadoc/Abertura-de-tickets/internal/domain"
	apperrors "github.com/wmachadoc/Abertura-de-tickets/pkg/util/errorutil"
)

// Store wraps the connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New builds a Store over an established pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func scopeToText(s domain.ScopeID) string {
	return s.String()
}

func scopeFromText(raw string) (domain.ScopeID, error) {
	if raw == domain.GlobalScope {
		return domain.GlobalScopeID(), nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return domain.ScopeID{}, err
	}
	return domain.ScopeFor(id), nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	const query = `
        SELECT id, nome, email, perfil, clientes_vinculados, ativo
        FROM users ORDER BY id`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.Profile, &user.LinkedClients, &user.Active); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}

func (s *Store) ListClients(ctx context.Context) ([]domain.Client, error) {
	const query = `SELECT id, nome, status FROM clientes ORDER BY id`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Client
	for rows.Next() {
		var client domain.Client
		if err := rows.Scan(&client.ID, &client.Name, &client.Status); err != nil {
			return nil, err
		}
		result = append(result, client)
	}
	return result, rows.Err()
}

func (s *Store) ListTicketTypes(ctx context.Context) ([]domain.TicketType, error) {
	const query = `SELECT id, id_cliente, nome, ativo FROM tipos_ticket ORDER BY id`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketType
	for rows.Next() {
		var (
			tt    domain.TicketType
			scope string
		)
		if err := rows.Scan(&tt.ID, &scope, &tt.Name, &tt.Active); err != nil {
			return nil, err
		}
		if tt.ClientScope, err = scopeFromText(scope); err != nil {
			return nil, err
		}
		result = append(result, tt)
	}
	return result, rows.Err()
}

func (s *Store) ListSLARules(ctx context.Context) ([]domain.SLARule, error) {
	const query = `SELECT id, id_cliente, id_tipo_ticket, prioridade, prazo_horas FROM slas ORDER BY id`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SLARule
	for rows.Next() {
		var (
			rule                   domain.SLARule
			clientScope, typeScope string
		)
		if err := rows.Scan(&rule.ID, &clientScope, &typeScope, &rule.Priority, &rule.TurnaroundHours); err != nil {
			return nil, err
		}
		if rule.ClientScope, err = scopeFromText(clientScope); err != nil {
			return nil, err
		}
		if rule.TicketTypeScope, err = scopeFromText(typeScope); err != nil {
			return nil, err
		}
		result = append(result, rule)
	}
	return result, rows.Err()
}

const ticketColumns = `id, titulo, descricao, id_cliente, id_tipo_ticket, prioridade, status,
        responsavel_email, solicitante_email, data_abertura, data_limite, data_fechamento, links_anexos`

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.ClientID,
		&ticket.TicketTypeID,
		&ticket.Priority,
		&ticket.Status,
		&ticket.AssigneeEmail,
		&ticket.RequesterEmail,
		&ticket.CreatedAt,
		&ticket.DueAt,
		&ticket.ClosedAt,
		&ticket.AttachmentURLs,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (s *Store) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+ticketColumns+` FROM tickets ORDER BY data_abertura DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func (s *Store) ListHistory(ctx context.Context) ([]domain.HistoryEntry, error) {
	const query = `
        SELECT id, id_ticket, data, autor_email, acao, detalhes
        FROM historico ORDER BY id`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		if err := rows.Scan(&entry.ID, &entry.TicketID, &entry.OccurredAt, &entry.AuthorEmail, &entry.Action, &entry.Detail); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (s *Store) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id)
	ticket, err := scanTicket(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func insertHistory(ctx context.Context, tx pgx.Tx, entry *domain.HistoryEntry) error {
	const query = `
        INSERT INTO historico (id, id_ticket, data, autor_email, acao, detalhes)
        VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := tx.Exec(ctx, query,
		entry.ID, entry.TicketID, entry.OccurredAt, entry.AuthorEmail, entry.Action, entry.Detail)
	return err
}

func (s *Store) CreateTicket(ctx context.Context, ticket *domain.Ticket, entry *domain.HistoryEntry) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        INSERT INTO tickets (id, titulo, descricao, id_cliente, id_tipo_ticket, prioridade, status,
            responsavel_email, solicitante_email, data_abertura, data_limite, data_fechamento, links_anexos)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`
	if _, err := tx.Exec(ctx, query,
		ticket.ID,
		ticket.Title,
		ticket.Description,
		ticket.ClientID,
		ticket.TicketTypeID,
		ticket.Priority,
		ticket.Status,
		ticket.AssigneeEmail,
		ticket.RequesterEmail,
		ticket.CreatedAt,
		ticket.DueAt,
		ticket.ClosedAt,
		ticket.AttachmentURLs,
	); err != nil {
		return err
	}
	if err := insertHistory(ctx, tx, entry); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) UpdateTicket(ctx context.Context, id string, changes domain.TicketChanges, entries []domain.HistoryEntry) (*domain.Ticket, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	row := tx.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1 FOR UPDATE`, id)
	ticket, err := scanTicket(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	if err != nil {
		return nil, err
	}

	if changes.Status != nil {
		ticket.Status = *changes.Status
	}
	if changes.AssigneeEmail != nil {
		ticket.AssigneeEmail = *changes.AssigneeEmail
	}
	if changes.ClosedAt != nil {
		ticket.ClosedAt = *changes.ClosedAt
	}

	const query = `
        UPDATE tickets SET status=$1, responsavel_email=$2, data_fechamento=$3 WHERE id=$4`
	if _, err := tx.Exec(ctx, query, ticket.Status, ticket.AssigneeEmail, ticket.ClosedAt, id); err != nil {
		return nil, err
	}
	for i := range entries {
		if err := insertHistory(ctx, tx, &entries[i]); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *Store) AppendHistory(ctx context.Context, entry *domain.HistoryEntry) error {
	const query = `
        INSERT INTO historico (id, id_ticket, data, autor_email, acao, detalhes)
        VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := s.pool.Exec(ctx, query,
		entry.ID, entry.TicketID, entry.OccurredAt, entry.AuthorEmail, entry.Action, entry.Detail)
	return err
}

func (s *Store) AddUser(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (nome, email, perfil, clientes_vinculados, ativo)
        VALUES ($1,$2,$3,$4,$5) RETURNING id`
	return s.pool.QueryRow(ctx, query,
		user.Name, user.Email, user.Profile, user.LinkedClients, user.Active).Scan(&user.ID)
}

func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET nome=$1, email=$2, perfil=$3, clientes_vinculados=$4, ativo=$5 WHERE id=$6`
	cmd, err := s.pool.Exec(ctx, query,
		user.Name, user.Email, user.Profile, user.LinkedClients, user.Active, user.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewNotFound("user", map[string]any{"id": user.ID})
	}
	return nil
}

func (s *Store) AddClient(ctx context.Context, client *domain.Client) error {
	const query = `INSERT INTO clientes (nome, status) VALUES ($1,$2) RETURNING id`
	return s.pool.QueryRow(ctx, query, client.Name, client.Status).Scan(&client.ID)
}

func (s *Store) UpdateClient(ctx context.Context, client *domain.Client) error {
	const query = `UPDATE clientes SET nome=$1, status=$2 WHERE id=$3`
	cmd, err := s.pool.Exec(ctx, query, client.Name, client.Status, client.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewNotFound("client", map[string]any{"id": client.ID})
	}
	return nil
}

func (s *Store) AddTicketType(ctx context.Context, ticketType *domain.TicketType) error {
	const query = `INSERT INTO tipos_ticket (id_cliente, nome, ativo) VALUES ($1,$2,$3) RETURNING id`
	return s.pool.QueryRow(ctx, query,
		scopeToText(ticketType.ClientScope), ticketType.Name, ticketType.Active).Scan(&ticketType.ID)
}

func (s *Store) UpdateTicketType(ctx context.Context, ticketType *domain.TicketType) error {
	const query = `UPDATE tipos_ticket SET id_cliente=$1, nome=$2, ativo=$3 WHERE id=$4`
	cmd, err := s.pool.Exec(ctx, query,
		scopeToText(ticketType.ClientScope), ticketType.Name, ticketType.Active, ticketType.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewNotFound("ticket type", map[string]any{"id": ticketType.ID})
	}
	return nil
}

func (s *Store) AddSLARule(ctx context.Context, rule *domain.SLARule) error {
	const query = `
        INSERT INTO slas (id_cliente, id_tipo_ticket, prioridade, prazo_horas)
        VALUES ($1,$2,$3,$4) RETURNING id`
	return s.pool.QueryRow(ctx, query,
		scopeToText(rule.ClientScope), scopeToText(rule.TicketTypeScope), rule.Priority, rule.TurnaroundHours).Scan(&rule.ID)
}

func (s *Store) UpdateSLARule(ctx context.Context, rule *domain.SLARule) error {
	const query = `
        UPDATE slas SET id_cliente=$1, id_tipo_ticket=$2, prioridade=$3, prazo_horas=$4 WHERE id=$5`
	cmd, err := s.pool.Exec(ctx, query,
		scopeToText(rule.ClientScope), scopeToText(rule.TicketTypeScope), rule.Priority, rule.TurnaroundHours, rule.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewNotFound("sla rule", map[string]any{"id": rule.ID})
	}
	return nil
}
