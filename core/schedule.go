package core

import (
	"context"
	"time"
)

// AppointmentStatus tracks an appointment's lifecycle.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentCompleted AppointmentStatus = "completed"
)

// Appointment is a booked (or requested) slot for a caller.
type Appointment struct {
	ID          string            `json:"id"`
	PhoneNumber string            `json:"phone_number"`
	CallerName  string            `json:"caller_name,omitempty"`
	ServiceType string            `json:"service_type"`
	At          time.Time         `json:"at"`
	Status      AppointmentStatus `json:"status"`
	Notes       string            `json:"notes,omitempty"`
}

// BookingResult reports the outcome of a booking attempt. When Booked is
// false, Reason explains why and Alternatives proposes up to five open
// weekday slots.
type BookingResult struct {
	Booked        bool        `json:"booked"`
	AppointmentID string      `json:"appointment_id,omitempty"`
	Reason        string      `json:"reason,omitempty"`
	Alternatives  []time.Time `json:"alternatives,omitempty"`
}

// CancelResult reports the outcome of a cancellation attempt. A missing
// upcoming appointment is reported through Reason, not as an error.
type CancelResult struct {
	Cancelled     bool   `json:"cancelled"`
	AppointmentID string `json:"appointment_id,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// AppointmentStore is the scheduling collaborator. Implementations enforce
// the availability rule (weekdays, business hours, no same-caller slot
// collision) inside Book.
type AppointmentStore interface {
	Book(ctx context.Context, appt Appointment) (BookingResult, error)
	ListByPhone(ctx context.Context, phoneNumber string) ([]Appointment, error)

	// Cancel cancels the caller's first upcoming scheduled or confirmed
	// appointment.
	Cancel(ctx context.Context, phoneNumber string) (CancelResult, error)
}
