package ports

import (
	"context"

	"github.com/psiconecta/booking-system/internal/core/authz"
	"github.com/psiconecta/booking-system/internal/core/domain"
)

// UpdatePatientInput is the partial profile patch accepted by Update.
type UpdatePatientInput struct {
	Name             *string
	ProfilePicture   *string
	PhoneNumber      *string
	DateOfBirth      *string
	EmergencyContact *string
}

// PatientService exposes patient record access behind the authorization
// policy.
type PatientService interface {
	// List returns all patient profiles. Psychologists and admins only.
	List(ctx context.Context, actor authz.Actor) ([]*domain.User, error)
	// Get returns a single patient profile.
	Get(ctx context.Context, actor authz.Actor, patientID string) (*domain.User, error)
	// Update applies a partial profile update. Self or admin only.
	Update(ctx context.Context, actor authz.Actor, patientID string, input UpdatePatientInput) (*domain.User, error)
}
