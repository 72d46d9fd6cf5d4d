package events

import (
	"encoding/json"
	"sync"
	"time"
)

// Event names match what connected clients already listen for, so they stay
// wire-compatible with the dashboard.
const (
	EventBookingConfirmed = "booking-confirmed"
	EventBookingUpdated   = "booking-updated"
	EventBookingPaid      = "booking-paid"
	EventBookingDeleted   = "booking-deleted"

	EventRentalCreated         = "newBooking"
	EventRentalOwnerConfirmed  = "booking-owner-confirmed"
	EventRentalAwaitingPayment = "booking-awaiting-payment"
	EventRentalUpdated         = "bookingUpdated"
	EventRentalPaid            = "booking-paid"
	EventRentalDeleted         = "bookingDeleted"
)

// ServiceBookingEvent is the payload for service booking notifications.
type ServiceBookingEvent struct {
	BookingID    int64     `json:"booking_id"`
	CustomerName string    `json:"customer_name,omitempty"`
	ProviderName string    `json:"provider_name,omitempty"`
	Date         time.Time `json:"date,omitempty"`
	Status       string    `json:"status,omitempty"`
	Paid         bool      `json:"paid,omitempty"`
}

// RentalBookingEvent is the payload for rental booking notifications.
type RentalBookingEvent struct {
	BookingID     int64     `json:"booking_id"`
	PropertyID    int64     `json:"property_id,omitempty"`
	OwnerID       int64     `json:"owner_id,omitempty"`
	StartDate     time.Time `json:"start_date,omitempty"`
	EndDate       time.Time `json:"end_date,omitempty"`
	Status        string    `json:"status,omitempty"`
	PaymentStatus string    `json:"payment_status,omitempty"`
}

// Event is a named, JSON-serializable domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// Handler reacts to an event. Handlers run synchronously on the publishing
// goroutine; anything slow must hand off internally.
type Handler func(event *Event) error

// Bus provides in-process pub/sub. It doubles as the fallback notification
// emitter when the external transport is down.
type Bus struct {
	subscribers map[string][]Handler
	catchAll    []Handler
	mu          sync.RWMutex
}

func NewBus() *Bus {
	return &Bus{subscribers: make(map[string][]Handler)}
}

// Subscribe registers a handler for one event type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// SubscribeAll registers a handler for every event type. Used by forwarders
// (websocket hub, metrics) that mirror the whole stream.
func (b *Bus) SubscribeAll(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.catchAll = append(b.catchAll, handler)
}

// Publish notifies subscribers. Handler errors are discarded; event delivery
// is at-most-once and never fails the publisher.
func (b *Bus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[event.Type]...)
	handlers = append(handlers, b.catchAll...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event, satisfying the
// EventPublisher contract.
func (b *Bus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
