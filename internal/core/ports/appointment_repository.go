package ports

import (
	"context"
	"time"

	"github.com/psiconecta/booking-system/internal/core/domain"
)

// AppointmentPatch carries partial updates applied as a single atomic
// write. Nil fields retain their prior value.
type AppointmentPatch struct {
	StartTime     *time.Time
	EndTime       *time.Time
	Notes         *string
	Status        *domain.AppointmentStatus
	PaymentStatus *domain.PaymentProjection
}

// AppointmentRepository defines persistence operations for appointments.
// Appointments are never deleted; cancellation is a status write.
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) error
	FindByID(ctx context.Context, id string) (*domain.Appointment, error)
	// Update applies the patch in one atomic write and returns the updated
	// appointment.
	Update(ctx context.Context, id string, patch AppointmentPatch) (*domain.Appointment, error)
	// ListByPsychologist returns the psychologist's appointments ordered by
	// start time ascending.
	ListByPsychologist(ctx context.Context, psychologistID string) ([]*domain.Appointment, error)
	// ListByPatient returns the patient's appointments ordered by start time
	// ascending.
	ListByPatient(ctx context.Context, patientID string) ([]*domain.Appointment, error)
}
