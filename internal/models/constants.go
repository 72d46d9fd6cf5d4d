package models

// Service booking statuses.
const (
	StatusRequest    = "request"
	StatusConfirmed  = "confirmed"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusRejected   = "rejected"
)

// Rental booking statuses.
const (
	RentalPending         = "pending"
	RentalOwnerConfirm    = "owner_confirm"
	RentalAwaitingPayment = "awaiting_payment"
	RentalProcessing      = "processing"
	RentalCompleted       = "completed"
	RentalRejected        = "rejected"
	RentalCancelled       = "cancelled"
)

// Rental payment statuses.
const (
	PaymentUnpaid   = "unpaid"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// ActorAdminSecret marks history entries written under the shared admin
// secret rather than a per-user identity.
const ActorAdminSecret = "admin_secret"

// ActorSystem marks history entries written by background jobs.
const ActorSystem = "system"

// HiddenContact replaces counterparty contact fields until payment clears.
const HiddenContact = "hidden pending payment"

// DateLayout is the day-granularity format used for booking dates.
const DateLayout = "2006-01-02"

// BlockingStatuses are the rental statuses that occupy the property for
// availability purposes.
var BlockingStatuses = []string{
	RentalPending,
	RentalOwnerConfirm,
	RentalAwaitingPayment,
	RentalProcessing,
	RentalCompleted,
}

// OwnerDeletableStatuses are the only statuses in which a property owner may
// delete their rental booking. Admins delete unconditionally.
var OwnerDeletableStatuses = []string{RentalRejected, RentalCompleted}

// IsBlockingStatus reports whether a rental status consumes availability.
func IsBlockingStatus(status string) bool {
	for _, s := range BlockingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsOwnerDeletable reports whether an owner may delete a rental booking in
// the given status.
func IsOwnerDeletable(status string) bool {
	for _, s := range OwnerDeletableStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidServiceStatus reports whether s is one of the five recognized
// service booking statuses.
func IsValidServiceStatus(s string) bool {
	switch s {
	case StatusRequest, StatusConfirmed, StatusProcessing, StatusCompleted, StatusRejected:
		return true
	}
	return false
}
