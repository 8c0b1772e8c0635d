// Package authz holds the single authorization decision table. Every other
// component calls it before mutating state and treats a deny as a hard stop;
// the role branches previously scattered across handlers live only here.
package authz

import "github.com/psiconecta/booking-system/internal/core/domain"

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID   string
	Role string
}

// Action distinguishes read from write where the rules differ.
type Action string

const (
	ActionRead  Action = "read"
	ActionWrite Action = "write"
)

// CanAccessAppointment decides whether actor may read or mutate the given
// appointment. Rules, first match wins:
//  1. admin → allow
//  2. the appointment's psychologist or patient → allow
//  3. deny
func CanAccessAppointment(actor Actor, a *domain.Appointment) bool {
	if actor.Role == domain.RoleAdmin {
		return true
	}
	switch actor.Role {
	case domain.RolePsychologist:
		return actor.ID == a.PsychologistID
	case domain.RolePatient:
		return actor.ID == a.PatientID
	}
	return false
}

// CanCreateAppointment decides whether actor may create an appointment
// between the named participants. The creator must be one of the two
// participants, or an admin.
func CanCreateAppointment(actor Actor, psychologistID, patientID string) bool {
	if actor.Role == domain.RoleAdmin {
		return true
	}
	switch actor.Role {
	case domain.RolePsychologist:
		return actor.ID == psychologistID
	case domain.RolePatient:
		return actor.ID == patientID
	}
	return false
}

// CanAccessPatient decides whether actor may read or write a patient
// profile. Psychologists and admins may read any patient; writes are
// restricted to the patient themselves or an admin.
func CanAccessPatient(actor Actor, patientID string, action Action) bool {
	if actor.Role == domain.RoleAdmin {
		return true
	}
	if action == ActionRead && actor.Role == domain.RolePsychologist {
		return true
	}
	return actor.ID == patientID
}

// CanListPatients decides whether actor may enumerate patient profiles.
func CanListPatients(actor Actor) bool {
	return actor.Role == domain.RoleAdmin || actor.Role == domain.RolePsychologist
}

// CanCreatePayment decides whether actor may initiate checkout for the
// appointment. Only the owning patient pays; admins may act on their behalf.
func CanCreatePayment(actor Actor, a *domain.Appointment) bool {
	if actor.Role == domain.RoleAdmin {
		return true
	}
	return actor.ID == a.PatientID
}
