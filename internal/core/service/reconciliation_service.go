package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/psiconecta/booking-system/internal/core/domain"
	"github.com/psiconecta/booking-system/internal/core/ports"
)

// DedupChecker abstracts the callback idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, processorPaymentID, status string) (bool, error)
	Mark(ctx context.Context, processorPaymentID, status string) error
}

type reconciliationService struct {
	payments     ports.PaymentRepository
	appointments ports.AppointmentRepository
	provider     ports.CheckoutProvider
	dedup        DedupChecker
	notifier     ports.Notifier
	log          zerolog.Logger
}

// NewReconciliationService returns a ReconciliationService implementation.
func NewReconciliationService(
	payments ports.PaymentRepository,
	appointments ports.AppointmentRepository,
	provider ports.CheckoutProvider,
	dedup DedupChecker,
	notifier ports.Notifier,
	log zerolog.Logger,
) ports.ReconciliationService {
	return &reconciliationService{
		payments:     payments,
		appointments: appointments,
		provider:     provider,
		dedup:        dedup,
		notifier:     notifier,
		log:          log,
	}
}

// Process resolves a processor callback and projects the mapped status onto
// the payment and its owning appointment. Replayed callbacks and unknown
// correlation ids resolve to acknowledged no-ops; the processor owns
// retry-until-acknowledged semantics, so nothing here may crash-loop it.
func (s *reconciliationService) Process(ctx context.Context, in ports.CallbackInput) error {
	detail, err := s.provider.GetPayment(ctx, in.ProcessorPaymentID)
	if err != nil {
		return fmt.Errorf("reconcile callback: %w", domain.ErrExternalService)
	}

	// 1. Idempotency check — silently skip replays.
	isDup, err := s.dedup.IsDuplicate(ctx, detail.ID, detail.Status)
	if err != nil {
		s.log.Warn().Err(err).Str("processor_payment_id", detail.ID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		s.log.Debug().Str("processor_payment_id", detail.ID).Str("status", detail.Status).Msg("duplicate callback skipped")
		return nil
	}

	// 2. Correlate back to our payment. Unknown correlation is a no-op ack
	// (replayed or foreign callbacks must not error).
	payment, err := s.payments.FindByAppointmentID(ctx, detail.ExternalReference)
	if errors.Is(err, domain.ErrPaymentNotFound) {
		s.log.Info().Str("external_reference", detail.ExternalReference).Msg("callback without matching payment, ignored")
		return nil
	}
	if err != nil {
		return fmt.Errorf("reconcile callback: %w", err)
	}

	// 3. Mark as processed before writing so a processor retry of this exact
	// callback cannot double-apply.
	if markErr := s.dedup.Mark(ctx, detail.ID, detail.Status); markErr != nil {
		s.log.Warn().Err(markErr).Str("processor_payment_id", detail.ID).Msg("failed to set dedup key")
	}

	mapped := domain.MapProcessorStatus(detail.Status)

	// 4. Persist the mapped status plus transaction references.
	patch := ports.PaymentPatch{Status: &mapped, TransactionID: &detail.ID}
	if detail.ReceiptURL != "" {
		patch.ReceiptURL = &detail.ReceiptURL
	}
	if _, err := s.payments.Update(ctx, payment.ID, patch); err != nil {
		return fmt.Errorf("reconcile callback: update payment: %w", err)
	}

	// 5. Propagate the projection onto the appointment; the two fields must
	// never diverge.
	projection := domain.ProjectPaymentStatus(mapped)
	appt, err := s.appointments.Update(ctx, payment.AppointmentID, ports.AppointmentPatch{
		PaymentStatus: &projection,
	})
	if err != nil {
		return fmt.Errorf("reconcile callback: update appointment: %w", err)
	}

	s.log.Info().
		Str("payment_id", payment.ID).
		Str("appointment_id", payment.AppointmentID).
		Str("processor_status", detail.Status).
		Str("status", string(mapped)).
		Msg("payment reconciled")

	// 6. Notify the paying patient.
	s.notifier.PublishAppointmentEvent(domain.AppointmentEvent{
		Type:          domain.EventPaymentUpdated,
		AppointmentID: appt.ID,
		Status:        string(projection),
		Recipients:    []string{appt.PatientID},
		OccurredAt:    time.Now().UTC(),
	})
	return nil
}
