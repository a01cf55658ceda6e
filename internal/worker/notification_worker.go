// Package worker hosts background consumers of lifecycle events.
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/wmachadoc/Abertura-de-tickets/internal/events"
)

// NotificationWorker listens for lifecycle events and forwards them to an
// optional webhook. Delivery is best effort; a failed POST is logged and
// never fails the originating operation.
type NotificationWorker struct {
	webhookURL string
	http       *http.Client
	logger     *zap.Logger
}

// NewNotificationWorker builds the worker.
func NewNotificationWorker(webhookURL string, logger *zap.Logger) *NotificationWorker {
	return &NotificationWorker{
		webhookURL: webhookURL,
		http:       &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// Register subscribes the worker to every lifecycle event type.
func (w *NotificationWorker) Register(dispatcher events.Dispatcher) {
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketStatusChanged,
		events.EventTicketAssigneeChanged,
		events.EventTicketCommentAdded,
	} {
		dispatcher.Subscribe(eventType, w.handle)
	}
}

func (w *NotificationWorker) handle(ctx context.Context, event events.Event) error {
	w.logger.Info("ticket event",
		zap.String("type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.String("actor", event.ActorEmail),
	)
	if w.webhookURL == "" {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		w.logger.Warn("webhook delivery failed", zap.Error(err))
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		w.logger.Warn("webhook rejected event", zap.Int("status", resp.StatusCode))
	}
	return nil
}
