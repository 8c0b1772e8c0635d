package domain

import "time"

// Domain event types emitted on successful appointment mutations and on
// payment reconciliation.
const (
	EventAppointmentCreated   = "appointment.created"
	EventAppointmentUpdated   = "appointment.updated"
	EventAppointmentCancelled = "appointment.cancelled"
	EventPaymentUpdated       = "payment.updated"
)

// AppointmentEvent is the payload pushed to the notification hub after a
// lifecycle or payment transition.
type AppointmentEvent struct {
	Type          string
	AppointmentID string
	Status        string
	Recipients    []string // user ids whose channels receive the event
	OccurredAt    time.Time
}
