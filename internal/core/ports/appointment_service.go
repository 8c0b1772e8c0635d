package ports

import (
	"context"
	"time"

	"github.com/psiconecta/booking-system/internal/core/authz"
	"github.com/psiconecta/booking-system/internal/core/domain"
)

// CreateAppointmentInput carries all data needed to schedule an appointment.
type CreateAppointmentInput struct {
	PsychologistID string
	PatientID      string
	StartTime      time.Time
	EndTime        time.Time
	Notes          string
}

// UpdateAppointmentInput is the partial patch accepted by Update.
// Unspecified fields retain their prior value.
type UpdateAppointmentInput struct {
	StartTime *time.Time
	EndTime   *time.Time
	Notes     *string
	Status    *domain.AppointmentStatus
}

// AppointmentService owns the appointment state machine. Every operation is
// gated by the authorization policy; every successful mutation emits a
// domain event consumed by the notification hub.
type AppointmentService interface {
	Create(ctx context.Context, actor authz.Actor, input CreateAppointmentInput) (*domain.Appointment, error)
	Get(ctx context.Context, actor authz.Actor, id string) (*domain.Appointment, error)
	Update(ctx context.Context, actor authz.Actor, id string, input UpdateAppointmentInput) (*domain.Appointment, error)
	// Cancel sets status=cancelled. Cancelling an already-cancelled
	// appointment is a no-op success.
	Cancel(ctx context.Context, actor authz.Actor, id string) (*domain.Appointment, error)
	// List returns the actor's appointments ordered by start time ascending.
	List(ctx context.Context, actor authz.Actor) ([]*domain.Appointment, error)
	// OverrideStatus forces a transition regardless of terminal state.
	// Exposed to admins only.
	OverrideStatus(ctx context.Context, actor authz.Actor, id string, status domain.AppointmentStatus) (*domain.Appointment, error)
}
