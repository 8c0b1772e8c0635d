package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/psiconecta/booking-system/internal/core/authz"
	"github.com/psiconecta/booking-system/internal/core/domain"
	"github.com/psiconecta/booking-system/internal/core/ports"
)

// AppointmentService owns the appointment state machine and the coupling
// between appointment status and payment status.
type AppointmentService struct {
	repo     ports.AppointmentRepository
	notifier ports.Notifier
	logger   zerolog.Logger
}

func NewAppointmentService(repo ports.AppointmentRepository, notifier ports.Notifier, logger zerolog.Logger) *AppointmentService {
	return &AppointmentService{repo: repo, notifier: notifier, logger: logger}
}

// Create schedules a new appointment in scheduled/pending state. The actor
// must be one of the two named participants, or an admin.
//
// Overlapping time windows for the same psychologist are not checked;
// double-booking remains possible pending a product decision.
func (s *AppointmentService) Create(ctx context.Context, actor authz.Actor, input ports.CreateAppointmentInput) (*domain.Appointment, error) {
	if input.PsychologistID == "" || input.PatientID == "" {
		return nil, domain.ErrMissingParticipant
	}
	if !input.EndTime.After(input.StartTime) {
		return nil, domain.ErrInvalidTimeWindow
	}
	if !authz.CanCreateAppointment(actor, input.PsychologistID, input.PatientID) {
		return nil, domain.ErrForbidden
	}

	now := time.Now().UTC()
	appt := &domain.Appointment{
		ID:             uuid.New().String(),
		PsychologistID: input.PsychologistID,
		PatientID:      input.PatientID,
		StartTime:      input.StartTime.UTC(),
		EndTime:        input.EndTime.UTC(),
		Status:         domain.StatusScheduled,
		PaymentStatus:  domain.PaymentPending,
		Notes:          input.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, appt); err != nil {
		s.logger.Error().Err(err).Msg("failed to create appointment")
		return nil, err
	}

	s.logger.Info().
		Str("appointment_id", appt.ID).
		Str("psychologist_id", appt.PsychologistID).
		Str("patient_id", appt.PatientID).
		Msg("appointment created")

	s.emit(domain.EventAppointmentCreated, appt)
	return appt, nil
}

func (s *AppointmentService) Get(ctx context.Context, actor authz.Actor, id string) (*domain.Appointment, error) {
	appt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccessAppointment(actor, appt) {
		return nil, domain.ErrForbidden
	}
	return appt, nil
}

// Update merges patch fields onto a non-terminal appointment. Unspecified
// fields retain their prior value; a changed time window is revalidated.
func (s *AppointmentService) Update(ctx context.Context, actor authz.Actor, id string, input ports.UpdateAppointmentInput) (*domain.Appointment, error) {
	appt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccessAppointment(actor, appt) {
		return nil, domain.ErrForbidden
	}
	if appt.Status.Terminal() {
		return nil, domain.ErrTerminalState
	}

	start, end := appt.StartTime, appt.EndTime
	if input.StartTime != nil {
		start = input.StartTime.UTC()
	}
	if input.EndTime != nil {
		end = input.EndTime.UTC()
	}
	if !end.After(start) {
		return nil, domain.ErrInvalidTimeWindow
	}
	if input.Status != nil && !domain.ValidStatus(*input.Status) {
		return nil, fmt.Errorf("update appointment: unknown status %q", *input.Status)
	}

	updated, err := s.repo.Update(ctx, id, ports.AppointmentPatch{
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Notes:     input.Notes,
		Status:    input.Status,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("appointment_id", id).Str("status", string(updated.Status)).Msg("appointment updated")

	s.emit(domain.EventAppointmentUpdated, updated)
	return updated, nil
}

// Cancel sets status=cancelled. Payment state is untouched; a refund, if
// any, arrives asynchronously through reconciliation. Cancelling an
// already-cancelled appointment is a no-op success; any other terminal
// state only moves through OverrideStatus.
func (s *AppointmentService) Cancel(ctx context.Context, actor authz.Actor, id string) (*domain.Appointment, error) {
	appt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccessAppointment(actor, appt) {
		return nil, domain.ErrForbidden
	}
	if appt.Status == domain.StatusCancelled {
		return appt, nil
	}
	if appt.Status.Terminal() {
		return nil, domain.ErrTerminalState
	}

	cancelled := domain.StatusCancelled
	updated, err := s.repo.Update(ctx, id, ports.AppointmentPatch{Status: &cancelled})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("appointment_id", id).Msg("appointment cancelled")

	s.emit(domain.EventAppointmentCancelled, updated)
	return updated, nil
}

// List returns every appointment where the actor is a participant, ordered
// by start time ascending. Admin-wide listing is not implemented.
func (s *AppointmentService) List(ctx context.Context, actor authz.Actor) ([]*domain.Appointment, error) {
	switch actor.Role {
	case domain.RolePsychologist:
		return s.repo.ListByPsychologist(ctx, actor.ID)
	case domain.RolePatient:
		return s.repo.ListByPatient(ctx, actor.ID)
	default:
		return nil, domain.ErrForbidden
	}
}

// OverrideStatus forces a transition regardless of terminal state. The RBAC
// middleware restricts the endpoint to admins; the policy check here keeps
// the rule enforced even for future non-HTTP callers.
func (s *AppointmentService) OverrideStatus(ctx context.Context, actor authz.Actor, id string, status domain.AppointmentStatus) (*domain.Appointment, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if !domain.ValidStatus(status) {
		return nil, fmt.Errorf("override status: unknown status %q", status)
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, ports.AppointmentPatch{Status: &status})
	if err != nil {
		return nil, err
	}

	s.logger.Warn().Str("appointment_id", id).Str("status", string(status)).Msg("admin status override")

	s.emit(domain.EventAppointmentUpdated, updated)
	return updated, nil
}

// emit pushes the event to both participants' channels.
func (s *AppointmentService) emit(eventType string, appt *domain.Appointment) {
	s.notifier.PublishAppointmentEvent(domain.AppointmentEvent{
		Type:          eventType,
		AppointmentID: appt.ID,
		Status:        string(appt.Status),
		Recipients:    []string{appt.PsychologistID, appt.PatientID},
		OccurredAt:    time.Now().UTC(),
	})
}
