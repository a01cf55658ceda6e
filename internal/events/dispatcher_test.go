package events

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPublishInvokesSubscribersInOrder(t *testing.T) {
	dispatcher := NewInMemoryDispatcher(zap.NewNop())

	var calls []string
	dispatcher.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.TicketID)
		return nil
	})
	dispatcher.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.TicketID)
		return nil
	})
	dispatcher.Subscribe(EventTicketCommentAdded, func(_ context.Context, _ Event) error {
		calls = append(calls, "wrong type")
		return nil
	})

	if err := dispatcher.Publish(context.Background(), Event{Type: EventTicketCreated, TicketID: "T0001"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(calls) != 2 || calls[0] != "first:T0001" || calls[1] != "second:T0001" {
		t.Fatalf("calls = %v", calls)
	}
}

func TestPublishLogsAndContinuesAfterHandlerError(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	dispatcher := NewInMemoryDispatcher(zap.New(core))

	var reached bool
	dispatcher.Subscribe(EventTicketStatusChanged, func(_ context.Context, _ Event) error {
		return errors.New("handler failure")
	})
	dispatcher.Subscribe(EventTicketStatusChanged, func(_ context.Context, _ Event) error {
		reached = true
		return nil
	})

	if err := dispatcher.Publish(context.Background(), Event{Type: EventTicketStatusChanged, TicketID: "T0001"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if !reached {
		t.Fatal("second handler not invoked after first failed")
	}

	entries := logs.FilterMessage("event handler failed").All()
	if len(entries) != 1 {
		t.Fatalf("warn logs = %d, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["ticket_id"]; got != "T0001" {
		t.Fatalf("logged ticket_id = %v", got)
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher(nil)
	if err := dispatcher.Publish(context.Background(), Event{Type: EventTicketAssigneeChanged}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
}
