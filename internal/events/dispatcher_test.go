package events

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPublishRunsAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string
	d.Subscribe(EventPartsUsed, func(context.Context, Event) error {
		calls = append(calls, "first")
		return errors.New("first failed")
	})
	d.Subscribe(EventPartsUsed, func(context.Context, Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe(EventPartsRequested, func(context.Context, Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventPartsUsed, 1, 2, time.Now(), PartsUsedPayload{PartsCount: 1}))
	if err == nil {
		t.Fatal("expected handler error to be reported")
	}
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Fatalf("unexpected calls %v", calls)
	}
}

func TestPublishWithoutListeners(t *testing.T) {
	d := NewInMemoryDispatcher()
	if err := d.Publish(context.Background(), NewEvent(EventTicketStatusChanged, 1, 1, time.Now(), nil)); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestNewEventAssignsID(t *testing.T) {
	a := NewEvent(EventPartsUsed, 1, 0, time.Now(), nil)
	b := NewEvent(EventPartsUsed, 1, 0, time.Now(), nil)
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct ids, got %q and %q", a.ID, b.ID)
	}
}
