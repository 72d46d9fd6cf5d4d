package models

import "time"

// Property is a rentable listing. Bookings keep a non-owning back-reference
// to it; deleting a booking never cascades here.
type Property struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Location     string    `json:"location"`
	NightlyPrice int64     `json:"nightly_price"`
	OwnerID      int64     `json:"owner_id"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Owner is a property owner; contact fields feed the disclosure policy.
type Owner struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Provider offers day-granularity services booked via ServiceBooking.
type Provider struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	ServiceCategory string    `json:"service_category"`
	Phone           string    `json:"phone"`
	CreatedAt       time.Time `json:"created_at"`
}

// Unavailable date sources: manual blocks set by the provider versus dates
// held by an active booking.
const (
	UnavailableSourceManual  = "manual"
	UnavailableSourceBooking = "booking"
)

// UnavailableDate marks a day a provider does not accept bookings, either
// proactively or because a booking holds it. Unique per (provider, date).
type UnavailableDate struct {
	ID         int64     `json:"id"`
	ProviderID int64     `json:"provider_id"`
	Date       time.Time `json:"date"`
	Source     string    `json:"source"`
	CreatedAt  time.Time `json:"created_at"`
}
