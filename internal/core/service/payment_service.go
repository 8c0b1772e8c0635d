package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/psiconecta/booking-system/internal/core/authz"
	"github.com/psiconecta/booking-system/internal/core/domain"
	"github.com/psiconecta/booking-system/internal/core/ports"
)

// PaymentService creates checkout sessions with the external processor and
// exposes payment history scoped to appointment participants.
type PaymentService struct {
	payments     ports.PaymentRepository
	appointments ports.AppointmentRepository
	provider     ports.CheckoutProvider
	logger       zerolog.Logger
}

func NewPaymentService(
	payments ports.PaymentRepository,
	appointments ports.AppointmentRepository,
	provider ports.CheckoutProvider,
	logger zerolog.Logger,
) *PaymentService {
	return &PaymentService{
		payments:     payments,
		appointments: appointments,
		provider:     provider,
		logger:       logger,
	}
}

// CreateCheckout registers a checkout preference with the processor and a
// pending payment record for the appointment. An existing payment is reset
// rather than duplicated; the model supports one payment lifecycle per
// appointment.
func (s *PaymentService) CreateCheckout(ctx context.Context, actor authz.Actor, input ports.CreateCheckoutInput) (*ports.CheckoutResult, error) {
	appt, err := s.appointments.FindByID(ctx, input.AppointmentID)
	if err != nil {
		return nil, err
	}
	if !authz.CanCreatePayment(actor, appt) {
		return nil, domain.ErrForbidden
	}

	pref, err := s.provider.CreatePreference(ctx, ports.PreferenceInput{
		Title:             fmt.Sprintf("Appointment on %s", appt.StartTime.Format("2006-01-02")),
		Amount:            input.Amount,
		Currency:          input.Currency,
		ExternalReference: appt.ID,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("appointment_id", appt.ID).Msg("checkout preference creation failed")
		return nil, fmt.Errorf("create checkout: %w", domain.ErrExternalService)
	}

	payment, err := s.upsertPending(ctx, appt.ID, input, pref.PreferenceID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("payment_id", payment.ID).
		Str("appointment_id", appt.ID).
		Str("preference_id", pref.PreferenceID).
		Msg("checkout created")

	return &ports.CheckoutResult{
		PaymentID:    payment.ID,
		PreferenceID: pref.PreferenceID,
		InitPoint:    pref.InitPoint,
	}, nil
}

func (s *PaymentService) upsertPending(ctx context.Context, appointmentID string, input ports.CreateCheckoutInput, preferenceID string) (*domain.Payment, error) {
	existing, err := s.payments.FindByAppointmentID(ctx, appointmentID)
	if err == nil {
		pending := domain.PaymentStatusPending
		return s.payments.Update(ctx, existing.ID, ports.PaymentPatch{
			Status:       &pending,
			Amount:       &input.Amount,
			Currency:     &input.Currency,
			PreferenceID: &preferenceID,
		})
	}
	if !errors.Is(err, domain.ErrPaymentNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	payment := &domain.Payment{
		ID:            uuid.New().String(),
		AppointmentID: appointmentID,
		Amount:        input.Amount,
		Currency:      input.Currency,
		Status:        domain.PaymentStatusPending,
		PaymentMethod: "mercado_pago",
		PreferenceID:  preferenceID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// History returns payments for appointments where the actor participates,
// newest first.
func (s *PaymentService) History(ctx context.Context, actor authz.Actor) ([]*domain.Payment, error) {
	var (
		appts []*domain.Appointment
		err   error
	)
	switch actor.Role {
	case domain.RolePsychologist:
		appts, err = s.appointments.ListByPsychologist(ctx, actor.ID)
	case domain.RolePatient:
		appts, err = s.appointments.ListByPatient(ctx, actor.ID)
	default:
		return nil, domain.ErrForbidden
	}
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(appts))
	for _, a := range appts {
		ids = append(ids, a.ID)
	}
	if len(ids) == 0 {
		return []*domain.Payment{}, nil
	}
	return s.payments.ListByAppointmentIDs(ctx, ids)
}
