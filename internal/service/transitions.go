package service

import "homeserv/internal/models"

// Transition authorities for rental bookings. Both are pure functions of
// (current, requested, isPaid) so the rules stay testable in isolation.

// CanOwnerTransition returns whether a property owner may move a booking
// from current to next. Owners only confirm fresh requests or reject
// anything not yet in fulfilment.
func CanOwnerTransition(current, next string) bool {
	switch next {
	case models.RentalOwnerConfirm:
		return current == models.RentalPending
	case models.RentalRejected:
		switch current {
		case models.RentalPending, models.RentalOwnerConfirm, models.RentalAwaitingPayment:
			return true
		}
	}
	return false
}

// CanAdminTransition returns whether an admin may move a booking from
// current to next given its payment state. Payment gates entry into
// fulfilment; cancellation is only possible while unpaid.
func CanAdminTransition(current, next string, isPaid bool) bool {
	switch next {
	case models.RentalAwaitingPayment:
		return current == models.RentalOwnerConfirm
	case models.RentalProcessing:
		return current == models.RentalAwaitingPayment && isPaid
	case models.RentalCompleted:
		return (current == models.RentalProcessing || current == models.RentalAwaitingPayment) && isPaid
	case models.RentalCancelled:
		if isPaid {
			return false
		}
		switch current {
		case models.RentalPending, models.RentalOwnerConfirm, models.RentalAwaitingPayment:
			return true
		}
	}
	return false
}

// ownerStatusTargets are the only statuses an owner may request at all;
// anything else is rejected before consulting the transition table.
func isOwnerStatusTarget(status string) bool {
	return status == models.RentalOwnerConfirm || status == models.RentalRejected
}

// adminStatusTargets mirror isOwnerStatusTarget for the admin authority.
func isAdminStatusTarget(status string) bool {
	switch status {
	case models.RentalAwaitingPayment, models.RentalProcessing, models.RentalCompleted, models.RentalCancelled:
		return true
	}
	return false
}
