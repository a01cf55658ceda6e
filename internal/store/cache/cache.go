// Package cache decorates a store.Store with Redis read-through caching of
// full-table reads. The sheets backend pays one remote round-trip per
// table read, so even a short TTL removes most of the traffic. The cache
// is best effort: Redis being unreachable degrades to the inner store.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wmachadoc/Abertura-de-tickets/internal/domain"
	"github.com/wmachadoc/Abertura-de-tickets/internal/store"
)

const keyPrefix = "tickets:table:"

// Store wraps an inner store with table caching.
type Store struct {
	inner  store.Store
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// New builds the decorator.
func New(inner store.Store, client *redis.Client, ttl time.Duration, logger *zap.Logger) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Store{inner: inner, client: client, ttl: ttl, logger: logger}
}

func readThrough[T any](ctx context.Context, s *Store, table string, load func(context.Context) ([]T, error)) ([]T, error) {
	key := keyPrefix + table
	cached, err := s.client.Get(ctx, key).Bytes()
	if err == nil {
		var rows []T
		if jsonErr := json.Unmarshal(cached, &rows); jsonErr == nil {
			return rows, nil
		}
		// poisoned entry, drop it and reload
		s.client.Del(ctx, key)
	} else if err != redis.Nil {
		s.logger.Warn("cache read failed", zap.String("table", table), zap.Error(err))
	}

	rows, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if encoded, jsonErr := json.Marshal(rows); jsonErr == nil {
		if setErr := s.client.Set(ctx, key, encoded, s.ttl).Err(); setErr != nil {
			s.logger.Warn("cache write failed", zap.String("table", table), zap.Error(setErr))
		}
	}
	return rows, nil
}

func (s *Store) invalidate(ctx context.Context, tables ...string) {
	keys := make([]string, 0, len(tables))
	for _, table := range tables {
		keys = append(keys, keyPrefix+table)
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Error(err))
	}
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	return readThrough(ctx, s, store.TableUsers, s.inner.ListUsers)
}

func (s *Store) ListClients(ctx context.Context) ([]domain.Client, error) {
	return readThrough(ctx, s, store.TableClients, s.inner.ListClients)
}

func (s *Store) ListTicketTypes(ctx context.Context) ([]domain.TicketType, error) {
	return readThrough(ctx, s, store.TableTicketTypes, s.inner.ListTicketTypes)
}

func (s *Store) ListSLARules(ctx context.Context) ([]domain.SLARule, error) {
	return readThrough(ctx, s, store.TableSLAs, s.inner.ListSLARules)
}

func (s *Store) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	return readThrough(ctx, s, store.TableTickets, s.inner.ListTickets)
}

func (s *Store) ListHistory(ctx context.Context) ([]domain.HistoryEntry, error) {
	return readThrough(ctx, s, store.TableHistory, s.inner.ListHistory)
}

// GetTicket always hits the inner store; the update path reads the current
// state through it and must not act on a stale row.
func (s *Store) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	return s.inner.GetTicket(ctx, id)
}

func (s *Store) CreateTicket(ctx context.Context, ticket *domain.Ticket, entry *domain.HistoryEntry) error {
	if err := s.inner.CreateTicket(ctx, ticket, entry); err != nil {
		return err
	}
	s.invalidate(ctx, store.TableTickets, store.TableHistory)
	return nil
}

func (s *Store) UpdateTicket(ctx context.Context, id string, changes domain.TicketChanges, entries []domain.HistoryEntry) (*domain.Ticket, error) {
	ticket, err := s.inner.UpdateTicket(ctx, id, changes, entries)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, store.TableTickets, store.TableHistory)
	return ticket, nil
}

func (s *Store) AppendHistory(ctx context.Context, entry *domain.HistoryEntry) error {
	if err := s.inner.AppendHistory(ctx, entry); err != nil {
		return err
	}
	s.invalidate(ctx, store.TableHistory)
	return nil
}

func (s *Store) AddUser(ctx context.Context, user *domain.User) error {
	if err := s.inner.AddUser(ctx, user); err != nil {
		return err
	}
	s.invalidate(ctx, store.TableUsers)
	return nil
}

func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	if err := s.inner.UpdateUser(ctx, user); err != nil {
		return err
	}
	s.invalidate(ctx, store.TableUsers)
	return nil
}

func (s *Store) AddClient(ctx context.Context, client *domain.Client) error {
	if err := s.inner.AddClient(ctx, client); err != nil {
		return err
	}
	s.invalidate(ctx, store.TableClients)
	return nil
}

func (s *Store) UpdateClient(ctx context.Context, client *domain.Client) error {
	if err := s.inner.UpdateClient(ctx, client); err != nil {
		return err
	}
	s.invalidate(ctx, store.TableClients)
	return nil
}

func (s *Store) AddTicketType(ctx context.Context, ticketType *domain.TicketType) error {
	if err := s.inner.AddTicketType(ctx, ticketType); err != nil {
		return err
	}
	s.invalidate(ctx, store.TableTicketTypes)
	return nil
}

func (s *Store) UpdateTicketType(ctx context.Context, ticketType *domain.TicketType) error {
	if err := s.inner.UpdateTicketType(ctx, ticketType); err != nil {
		return err
	}
	s.invalidate(ctx, store.TableTicketTypes)
	return nil
}

func (s *Store) AddSLARule(ctx context.Context, rule *domain.SLARule) error {
	if err := s.inner.AddSLARule(ctx, rule); err != nil {
		return err
	}
	s.invalidate(ctx, store.TableSLAs)
	return nil
}

func (s *Store) UpdateSLARule(ctx context.Context, rule *domain.SLARule) error {
	if err := s.inner.UpdateSLARule(ctx, rule); err != nil {
		return err
	}
	s.invalidate(ctx, store.TableSLAs)
	return nil
}
