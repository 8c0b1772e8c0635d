package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/psiconecta/booking-system/internal/core/authz"
	"github.com/psiconecta/booking-system/internal/core/domain"
	"github.com/psiconecta/booking-system/internal/core/ports"
)

func checkoutInput() ports.CreateCheckoutInput {
	return ports.CreateCheckoutInput{AppointmentID: "appt_1", Amount: 750, Currency: "MXN"}
}

func TestPaymentService_CreateCheckout_HappyPath(t *testing.T) {
	payments := newStubPaymentRepo()
	appointments := newStubAppointmentRepo()
	seededAppointment(appointments, "appt_1", domain.StatusScheduled)
	provider := &stubCheckoutProvider{}
	svc := NewPaymentService(payments, appointments, provider, zerolog.Nop())

	actor := authz.Actor{ID: "pat_1", Role: domain.RolePatient}
	result, err := svc.CreateCheckout(context.Background(), actor, checkoutInput())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result.PreferenceID != "pref_1" || result.InitPoint == "" {
		t.Errorf("unexpected checkout result: %+v", result)
	}

	if len(provider.created) != 1 {
		t.Fatalf("expected one preference created")
	}
	if provider.created[0].ExternalReference != "appt_1" {
		t.Errorf("preference must carry the appointment id as correlation, got %q", provider.created[0].ExternalReference)
	}

	p, err := payments.FindByAppointmentID(context.Background(), "appt_1")
	if err != nil {
		t.Fatalf("expected pending payment created: %v", err)
	}
	if p.Status != domain.PaymentStatusPending {
		t.Errorf("expected pending, got %s", p.Status)
	}
	if p.PaymentMethod != "mercado_pago" {
		t.Errorf("unexpected payment method %q", p.PaymentMethod)
	}
}

func TestPaymentService_CreateCheckout_NonPatientDenied(t *testing.T) {
	payments := newStubPaymentRepo()
	appointments := newStubAppointmentRepo()
	seededAppointment(appointments, "appt_1", domain.StatusScheduled)
	svc := NewPaymentService(payments, appointments, &stubCheckoutProvider{}, zerolog.Nop())

	// The psychologist participates but does not pay.
	actor := authz.Actor{ID: "psy_1", Role: domain.RolePsychologist}
	_, err := svc.CreateCheckout(context.Background(), actor, checkoutInput())
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got: %v", err)
	}
}

func TestPaymentService_CreateCheckout_UnknownAppointment(t *testing.T) {
	svc := NewPaymentService(newStubPaymentRepo(), newStubAppointmentRepo(), &stubCheckoutProvider{}, zerolog.Nop())

	actor := authz.Actor{ID: "pat_1", Role: domain.RolePatient}
	_, err := svc.CreateCheckout(context.Background(), actor, checkoutInput())
	if !errors.Is(err, domain.ErrAppointmentNotFound) {
		t.Errorf("expected ErrAppointmentNotFound, got: %v", err)
	}
}

func TestPaymentService_CreateCheckout_ProviderFailure(t *testing.T) {
	payments := newStubPaymentRepo()
	appointments := newStubAppointmentRepo()
	seededAppointment(appointments, "appt_1", domain.StatusScheduled)
	provider := &stubCheckoutProvider{preferenceErr: errors.New("503 from processor")}
	svc := NewPaymentService(payments, appointments, provider, zerolog.Nop())

	actor := authz.Actor{ID: "pat_1", Role: domain.RolePatient}
	_, err := svc.CreateCheckout(context.Background(), actor, checkoutInput())
	if !errors.Is(err, domain.ErrExternalService) {
		t.Errorf("expected ErrExternalService, got: %v", err)
	}
	if _, err := payments.FindByAppointmentID(context.Background(), "appt_1"); !errors.Is(err, domain.ErrPaymentNotFound) {
		t.Errorf("no payment record may exist when the preference failed")
	}
}

func TestPaymentService_CreateCheckout_ResetsExistingPayment(t *testing.T) {
	payments := newStubPaymentRepo()
	appointments := newStubAppointmentRepo()
	seededAppointment(appointments, "appt_1", domain.StatusScheduled)
	existing := seededPayment(payments, "pay_1", "appt_1")
	existing.Status = domain.PaymentStatusFailed
	svc := NewPaymentService(payments, appointments, &stubCheckoutProvider{}, zerolog.Nop())

	actor := authz.Actor{ID: "pat_1", Role: domain.RolePatient}
	result, err := svc.CreateCheckout(context.Background(), actor, checkoutInput())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result.PaymentID != "pay_1" {
		t.Errorf("expected existing payment reused, got %s", result.PaymentID)
	}

	p, _ := payments.FindByAppointmentID(context.Background(), "appt_1")
	if p.Status != domain.PaymentStatusPending {
		t.Errorf("expected payment reset to pending, got %s", p.Status)
	}
	if p.Amount != 750 {
		t.Errorf("expected amount updated, got %v", p.Amount)
	}
}

func TestPaymentService_History_ScopedToParticipant(t *testing.T) {
	payments := newStubPaymentRepo()
	appointments := newStubAppointmentRepo()
	seededAppointment(appointments, "appt_1", domain.StatusScheduled)
	seededPayment(payments, "pay_1", "appt_1")
	// A foreign appointment+payment the actor must never see.
	other := seededAppointment(appointments, "appt_2", domain.StatusScheduled)
	other.PsychologistID, other.PatientID = "psy_9", "pat_9"
	seededPayment(payments, "pay_2", "appt_2")
	svc := NewPaymentService(payments, appointments, &stubCheckoutProvider{}, zerolog.Nop())

	history, err := svc.History(context.Background(), authz.Actor{ID: "pat_1", Role: domain.RolePatient})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(history) != 1 || history[0].ID != "pay_1" {
		t.Errorf("expected only own payment, got %v", history)
	}
}

func TestPaymentService_History_EmptyWithoutAppointments(t *testing.T) {
	svc := NewPaymentService(newStubPaymentRepo(), newStubAppointmentRepo(), &stubCheckoutProvider{}, zerolog.Nop())

	history, err := svc.History(context.Background(), authz.Actor{ID: "pat_1", Role: domain.RolePatient})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected empty history, got %v", history)
	}
}

func TestPaymentService_History_AdminDenied(t *testing.T) {
	svc := NewPaymentService(newStubPaymentRepo(), newStubAppointmentRepo(), &stubCheckoutProvider{}, zerolog.Nop())

	if _, err := svc.History(context.Background(), authz.Actor{ID: "adm_1", Role: domain.RoleAdmin}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got: %v", err)
	}
}
