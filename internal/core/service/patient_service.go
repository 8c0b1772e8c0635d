package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/psiconecta/booking-system/internal/core/authz"
	"github.com/psiconecta/booking-system/internal/core/domain"
	"github.com/psiconecta/booking-system/internal/core/ports"
)

// PatientService exposes patient records behind the authorization policy.
type PatientService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewPatientService(repo ports.UserRepository, logger zerolog.Logger) *PatientService {
	return &PatientService{repo: repo, logger: logger}
}

func (s *PatientService) List(ctx context.Context, actor authz.Actor) ([]*domain.User, error) {
	if !authz.CanListPatients(actor) {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListByRole(ctx, domain.RolePatient)
}

func (s *PatientService) Get(ctx context.Context, actor authz.Actor, patientID string) (*domain.User, error) {
	if !authz.CanAccessPatient(actor, patientID, authz.ActionRead) {
		return nil, domain.ErrForbidden
	}
	user, err := s.repo.FindByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RolePatient {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *PatientService) Update(ctx context.Context, actor authz.Actor, patientID string, input ports.UpdatePatientInput) (*domain.User, error) {
	if !authz.CanAccessPatient(actor, patientID, authz.ActionWrite) {
		return nil, domain.ErrForbidden
	}
	user, err := s.repo.FindByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RolePatient {
		return nil, domain.ErrUserNotFound
	}

	updated, err := s.repo.Update(ctx, patientID, ports.UserPatch{
		Name:             input.Name,
		ProfilePicture:   input.ProfilePicture,
		PhoneNumber:      input.PhoneNumber,
		DateOfBirth:      input.DateOfBirth,
		EmergencyContact: input.EmergencyContact,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("patient_id", patientID).Str("actor_id", actor.ID).Msg("patient profile updated")
	return updated, nil
}
