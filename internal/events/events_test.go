package events

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestBusPublishJSON(t *testing.T) {
	bus := NewBus()

	var received *Event
	var calls int
	bus.Subscribe(EventBookingConfirmed, func(event *Event) error {
		received = event
		calls++
		return nil
	})

	payload := ServiceBookingEvent{BookingID: 7, CustomerName: "Abel", ProviderName: "Fix-It"}
	if err := bus.PublishJSON(EventBookingConfirmed, payload); err != nil {
		t.Fatalf("PublishJSON failed: %v", err)
	}

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if received.Type != EventBookingConfirmed {
		t.Errorf("expected type %s, got %s", EventBookingConfirmed, received.Type)
	}

	var decoded ServiceBookingEvent
	if err := json.Unmarshal(received.Payload, &decoded); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if decoded.BookingID != 7 || decoded.CustomerName != "Abel" {
		t.Errorf("unexpected payload: %+v", decoded)
	}
}

func TestBusSubscribeAll(t *testing.T) {
	bus := NewBus()
	var typed, all int

	bus.Subscribe(EventRentalCreated, func(_ *Event) error { typed++; return nil })
	bus.SubscribeAll(func(_ *Event) error { all++; return nil })

	bus.Publish(&Event{Type: EventRentalCreated})
	bus.Publish(&Event{Type: EventRentalDeleted})

	if typed != 1 {
		t.Errorf("expected typed handler called once, got %d", typed)
	}
	if all != 2 {
		t.Errorf("expected catch-all handler called twice, got %d", all)
	}
}

func TestBusSwallowsHandlerErrors(t *testing.T) {
	bus := NewBus()
	bus.Subscribe("event", func(_ *Event) error { return errors.New("boom") })

	if err := bus.PublishJSON("event", map[string]string{"k": "v"}); err != nil {
		t.Fatalf("publisher must not surface handler errors, got %v", err)
	}
}

func TestBusNilSafe(t *testing.T) {
	var bus *Bus
	if err := bus.PublishJSON("event", nil); err != nil {
		t.Fatalf("nil bus should be a no-op, got %v", err)
	}
}
