package service

import "homeserv/internal/models"

// Disclosure policy: counterparty contact details are revealed if and only
// if payment has cleared. Redaction is applied field by field so the
// response shape never changes with payment state.

// ContactInfo is the disclosed (or redacted) contact block attached to
// rental booking views.
type ContactInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Notes string `json:"notes,omitempty"`
}

func redactedContact(withNotes bool) ContactInfo {
	c := ContactInfo{
		Name:  models.HiddenContact,
		Phone: models.HiddenContact,
		Email: models.HiddenContact,
	}
	if withNotes {
		c.Notes = models.HiddenContact
	}
	return c
}

// OwnerContactFor builds the owner contact block shown to a renter.
func OwnerContactFor(owner *models.Owner, paymentStatus string) ContactInfo {
	if paymentStatus != models.PaymentPaid || owner == nil {
		return redactedContact(false)
	}
	return ContactInfo{Name: owner.Name, Phone: owner.Phone, Email: owner.Email}
}

// RenterContactFor builds the renter contact block shown to the property
// owner from the booking's own contact fields.
func RenterContactFor(b *models.RentalBooking) ContactInfo {
	if b.PaymentStatus != models.PaymentPaid {
		return redactedContact(true)
	}
	return ContactInfo{Name: b.FullName, Phone: b.Phone, Email: b.Email, Notes: b.Notes}
}

// RenterBookingView is a rental booking as seen by the renter.
type RenterBookingView struct {
	*models.RentalBooking
	OwnerContact ContactInfo `json:"owner_contact"`
}

// OwnerBookingView is a rental booking as seen by the property owner.
type OwnerBookingView struct {
	*models.RentalBooking
	RenterContact ContactInfo `json:"renter_contact"`
}

// CustomerPhoneFor returns the customer phone a provider may see: hidden by
// default, revealed once payment set the visibility flag.
func CustomerPhoneFor(b *models.ServiceBooking) string {
	if b.ShowCustomerPhone {
		return b.CustomerPhone
	}
	return models.HiddenContact
}

// RedactForProvider returns a copy of the booking with the customer phone
// run through the disclosure policy.
func RedactForProvider(b *models.ServiceBooking) *models.ServiceBooking {
	redacted := *b
	redacted.CustomerPhone = CustomerPhoneFor(b)
	return &redacted
}
