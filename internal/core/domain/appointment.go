package domain

import "time"

// AppointmentStatus represents the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no-show"
)

// ValidStatus reports whether s is a known appointment status.
func ValidStatus(s AppointmentStatus) bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Terminal reports whether the status accepts no further transitions.
// Only an administrative override may move an appointment out of a
// terminal state.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// PaymentProjection is the appointment-side view of the latest payment state.
type PaymentProjection string

const (
	PaymentPending  PaymentProjection = "pending"
	PaymentPaid     PaymentProjection = "paid"
	PaymentRefunded PaymentProjection = "refunded"
)

// Appointment is a scheduled interval between exactly one psychologist and
// one patient. Appointments are never deleted; cancellation is a status
// transition so the audit history survives.
type Appointment struct {
	ID             string            `json:"id" bson:"_id,omitempty"`
	PsychologistID string            `json:"psychologist_id" bson:"psychologist_id"`
	PatientID      string            `json:"patient_id" bson:"patient_id"`
	StartTime      time.Time         `json:"start_time" bson:"start_time"`
	EndTime        time.Time         `json:"end_time" bson:"end_time"`
	Status         AppointmentStatus `json:"status" bson:"status"`
	PaymentStatus  PaymentProjection `json:"payment_status" bson:"payment_status"`
	Notes          string            `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt      time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" bson:"updated_at"`
}

// Participant reports whether userID is the appointment's psychologist or
// patient.
func (a *Appointment) Participant(userID string) bool {
	return userID == a.PsychologistID || userID == a.PatientID
}
