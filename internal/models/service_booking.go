package models

import "time"

// ServiceBooking is a single-day appointment between a customer and a
// service provider. CustomerPhone is only disclosed to the provider once
// ShowCustomerPhone has been set by the payment flow.
type ServiceBooking struct {
	ID                int64     `json:"id"`
	CustomerID        int64     `json:"customer_id"`
	CustomerName      string    `json:"customer_name"`
	CustomerPhone     string    `json:"customer_phone"`
	ProviderID        int64     `json:"provider_id"`
	ProviderName      string    `json:"provider_name,omitempty"`
	Date              time.Time `json:"date"`
	Address           string    `json:"address"`
	Lat               float64   `json:"lat"`
	Lng               float64   `json:"lng"`
	Status            string    `json:"status"`
	Paid              bool      `json:"paid"`
	ShowCustomerPhone bool      `json:"show_customer_phone"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	Version           int64     `json:"version"`
}
