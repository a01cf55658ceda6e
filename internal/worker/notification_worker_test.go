package worker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/wmachadoc/Abertura-de-tickets/internal/events"
)

func TestWorkerForwardsEventsToWebhook(t *testing.T) {
	var received []events.Event
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var event events.Event
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			t.Errorf("decode event: %v", err)
		}
		received = append(received, event)
	}))
	defer server.Close()

	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	NewNotificationWorker(server.URL, zap.NewNop()).Register(dispatcher)

	if err := dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketCreated,
		TicketID: "T0001",
	}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if len(received) != 1 || received[0].TicketID != "T0001" {
		t.Fatalf("received = %+v, want one event for T0001", received)
	}
}

func TestWorkerSwallowsDeliveryFailure(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	// unreachable target: delivery must fail without surfacing an error
	NewNotificationWorker("http://127.0.0.1:1", zap.NewNop()).Register(dispatcher)

	if err := dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: "T0001",
	}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
}

func TestWorkerNoopWithoutWebhook(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	NewNotificationWorker("", zap.NewNop()).Register(dispatcher)

	if err := dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: "T0001",
	}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
}
