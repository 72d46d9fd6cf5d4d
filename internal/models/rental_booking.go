package models

import "time"

// Document references an uploaded identity document in external storage.
// PublicID is the storage handle used for deletion.
type Document struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// HistoryEntry records a single rental booking transition. Entries are
// append-only and never mutated or reordered.
type HistoryEntry struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"booking_id"`
	Status    string    `json:"status"`
	ChangedBy string    `json:"changed_by"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RentalBooking is a multi-day reservation of a property. The period is the
// half-open range [StartDate, EndDate). TotalDays and TotalPrice are derived
// at creation from the property's nightly rate and never recomputed.
type RentalBooking struct {
	ID            int64          `json:"id"`
	PropertyID    int64          `json:"property_id"`
	RenterID      int64          `json:"renter_id,omitempty"` // zero when created unauthenticated
	OwnerID       int64          `json:"owner_id"`
	FullName      string         `json:"full_name"`
	Phone         string         `json:"phone"`
	Email         string         `json:"email,omitempty"`
	Guests        int            `json:"guests"`
	Notes         string         `json:"notes,omitempty"`
	StartDate     time.Time      `json:"start_date"`
	EndDate       time.Time      `json:"end_date"`
	IDDocument    Document       `json:"id_document"`
	Status        string         `json:"status"`
	PaymentStatus string         `json:"payment_status"`
	TotalDays     int            `json:"total_days"`
	TotalPrice    int64          `json:"total_price"`
	History       []HistoryEntry `json:"history,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	Version       int64          `json:"version"`
}

// Overlaps reports whether the booking period intersects [start, end) using
// half-open interval overlap.
func (b *RentalBooking) Overlaps(start, end time.Time) bool {
	return b.StartDate.Before(end) && b.EndDate.After(start)
}
