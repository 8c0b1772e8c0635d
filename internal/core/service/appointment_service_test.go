package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/psiconecta/booking-system/internal/core/authz"
	"github.com/psiconecta/booking-system/internal/core/domain"
	"github.com/psiconecta/booking-system/internal/core/ports"
)

func seededAppointment(repo *stubAppointmentRepo, id string, status domain.AppointmentStatus) *domain.Appointment {
	now := time.Now().UTC()
	appt := &domain.Appointment{
		ID:             id,
		PsychologistID: "psy_1",
		PatientID:      "pat_1",
		StartTime:      now.Add(24 * time.Hour),
		EndTime:        now.Add(25 * time.Hour),
		Status:         status,
		PaymentStatus:  domain.PaymentPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	repo.byID[id] = appt
	return appt
}

func validCreateInput() ports.CreateAppointmentInput {
	now := time.Now().UTC()
	return ports.CreateAppointmentInput{
		PsychologistID: "psy_1",
		PatientID:      "pat_1",
		StartTime:      now.Add(24 * time.Hour),
		EndTime:        now.Add(25 * time.Hour),
	}
}

func TestAppointmentService_Create_HappyPath(t *testing.T) {
	repo := newStubAppointmentRepo()
	notifier := &stubNotifier{}
	svc := NewAppointmentService(repo, notifier, zerolog.Nop())

	actor := authz.Actor{ID: "pat_1", Role: domain.RolePatient}
	appt, err := svc.Create(context.Background(), actor, validCreateInput())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if appt.Status != domain.StatusScheduled {
		t.Errorf("expected scheduled status, got %s", appt.Status)
	}
	if appt.PaymentStatus != domain.PaymentPending {
		t.Errorf("expected pending payment status, got %s", appt.PaymentStatus)
	}
	if notifier.count() != 1 {
		t.Fatalf("expected 1 event, got %d", notifier.count())
	}
	ev := notifier.last()
	if ev.Type != domain.EventAppointmentCreated {
		t.Errorf("expected created event, got %s", ev.Type)
	}
	if len(ev.Recipients) != 2 {
		t.Errorf("expected both participants notified, got %v", ev.Recipients)
	}
}

func TestAppointmentService_Create_MissingParticipant(t *testing.T) {
	svc := NewAppointmentService(newStubAppointmentRepo(), &stubNotifier{}, zerolog.Nop())

	input := validCreateInput()
	input.PatientID = ""
	_, err := svc.Create(context.Background(), authz.Actor{ID: "psy_1", Role: domain.RolePsychologist}, input)
	if !errors.Is(err, domain.ErrMissingParticipant) {
		t.Errorf("expected ErrMissingParticipant, got: %v", err)
	}
}

func TestAppointmentService_Create_InvalidTimeWindow(t *testing.T) {
	svc := NewAppointmentService(newStubAppointmentRepo(), &stubNotifier{}, zerolog.Nop())

	input := validCreateInput()
	input.EndTime = input.StartTime
	_, err := svc.Create(context.Background(), authz.Actor{ID: "pat_1", Role: domain.RolePatient}, input)
	if !errors.Is(err, domain.ErrInvalidTimeWindow) {
		t.Errorf("expected ErrInvalidTimeWindow for zero-length window, got: %v", err)
	}

	input = validCreateInput()
	input.EndTime = input.StartTime.Add(-time.Hour)
	_, err = svc.Create(context.Background(), authz.Actor{ID: "pat_1", Role: domain.RolePatient}, input)
	if !errors.Is(err, domain.ErrInvalidTimeWindow) {
		t.Errorf("expected ErrInvalidTimeWindow for inverted window, got: %v", err)
	}
}

func TestAppointmentService_Create_NonParticipantDenied(t *testing.T) {
	notifier := &stubNotifier{}
	svc := NewAppointmentService(newStubAppointmentRepo(), notifier, zerolog.Nop())

	actor := authz.Actor{ID: "pat_2", Role: domain.RolePatient}
	_, err := svc.Create(context.Background(), actor, validCreateInput())
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got: %v", err)
	}
	if notifier.count() != 0 {
		t.Errorf("expected no event on denied create")
	}
}

func TestAppointmentService_Create_AdminOnBehalf(t *testing.T) {
	svc := NewAppointmentService(newStubAppointmentRepo(), &stubNotifier{}, zerolog.Nop())

	actor := authz.Actor{ID: "adm_1", Role: domain.RoleAdmin}
	if _, err := svc.Create(context.Background(), actor, validCreateInput()); err != nil {
		t.Fatalf("expected admin create to succeed, got: %v", err)
	}
}

func TestAppointmentService_Get_NonParticipantDenied(t *testing.T) {
	repo := newStubAppointmentRepo()
	seededAppointment(repo, "appt_1", domain.StatusScheduled)
	svc := NewAppointmentService(repo, &stubNotifier{}, zerolog.Nop())

	_, err := svc.Get(context.Background(), authz.Actor{ID: "psy_2", Role: domain.RolePsychologist}, "appt_1")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got: %v", err)
	}
}

func TestAppointmentService_Update_TerminalStateRejected(t *testing.T) {
	for _, status := range []domain.AppointmentStatus{domain.StatusCompleted, domain.StatusCancelled, domain.StatusNoShow} {
		repo := newStubAppointmentRepo()
		seededAppointment(repo, "appt_1", status)
		svc := NewAppointmentService(repo, &stubNotifier{}, zerolog.Nop())

		notes := "updated"
		_, err := svc.Update(context.Background(), authz.Actor{ID: "psy_1", Role: domain.RolePsychologist}, "appt_1", ports.UpdateAppointmentInput{Notes: &notes})
		if !errors.Is(err, domain.ErrTerminalState) {
			t.Errorf("status %s: expected ErrTerminalState, got: %v", status, err)
		}
	}
}

func TestAppointmentService_Update_RevalidatesMergedWindow(t *testing.T) {
	repo := newStubAppointmentRepo()
	appt := seededAppointment(repo, "appt_1", domain.StatusScheduled)
	svc := NewAppointmentService(repo, &stubNotifier{}, zerolog.Nop())

	// Move the start past the existing end without touching the end.
	badStart := appt.EndTime.Add(time.Hour)
	_, err := svc.Update(context.Background(), authz.Actor{ID: "psy_1", Role: domain.RolePsychologist}, "appt_1", ports.UpdateAppointmentInput{StartTime: &badStart})
	if !errors.Is(err, domain.ErrInvalidTimeWindow) {
		t.Errorf("expected ErrInvalidTimeWindow, got: %v", err)
	}
}

func TestAppointmentService_Update_PartialPatch(t *testing.T) {
	repo := newStubAppointmentRepo()
	appt := seededAppointment(repo, "appt_1", domain.StatusScheduled)
	notifier := &stubNotifier{}
	svc := NewAppointmentService(repo, notifier, zerolog.Nop())

	notes := "bring previous records"
	updated, err := svc.Update(context.Background(), authz.Actor{ID: "pat_1", Role: domain.RolePatient}, "appt_1", ports.UpdateAppointmentInput{Notes: &notes})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if updated.Notes != notes {
		t.Errorf("expected notes updated, got %q", updated.Notes)
	}
	if !updated.StartTime.Equal(appt.StartTime) {
		t.Errorf("expected start time untouched")
	}
	if notifier.count() != 1 || notifier.last().Type != domain.EventAppointmentUpdated {
		t.Errorf("expected one updated event")
	}
}

func TestAppointmentService_Cancel_EmitsEvent(t *testing.T) {
	repo := newStubAppointmentRepo()
	seededAppointment(repo, "appt_1", domain.StatusScheduled)
	notifier := &stubNotifier{}
	svc := NewAppointmentService(repo, notifier, zerolog.Nop())

	updated, err := svc.Cancel(context.Background(), authz.Actor{ID: "pat_1", Role: domain.RolePatient}, "appt_1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if updated.Status != domain.StatusCancelled {
		t.Errorf("expected cancelled, got %s", updated.Status)
	}
	if notifier.count() != 1 || notifier.last().Type != domain.EventAppointmentCancelled {
		t.Errorf("expected one cancelled event")
	}
}

func TestAppointmentService_Cancel_AlreadyCancelledIsNoop(t *testing.T) {
	repo := newStubAppointmentRepo()
	seededAppointment(repo, "appt_1", domain.StatusCancelled)
	notifier := &stubNotifier{}
	svc := NewAppointmentService(repo, notifier, zerolog.Nop())

	updated, err := svc.Cancel(context.Background(), authz.Actor{ID: "pat_1", Role: domain.RolePatient}, "appt_1")
	if err != nil {
		t.Fatalf("expected no-op success, got: %v", err)
	}
	if updated.Status != domain.StatusCancelled {
		t.Errorf("expected cancelled, got %s", updated.Status)
	}
	if len(repo.patches) != 0 {
		t.Errorf("expected no write for double cancel")
	}
	if notifier.count() != 0 {
		t.Errorf("expected no event for double cancel")
	}
}

func TestAppointmentService_Cancel_TerminalStateRejected(t *testing.T) {
	for _, status := range []domain.AppointmentStatus{domain.StatusCompleted, domain.StatusNoShow} {
		repo := newStubAppointmentRepo()
		seededAppointment(repo, "appt_1", status)
		notifier := &stubNotifier{}
		svc := NewAppointmentService(repo, notifier, zerolog.Nop())

		_, err := svc.Cancel(context.Background(), authz.Actor{ID: "pat_1", Role: domain.RolePatient}, "appt_1")
		if !errors.Is(err, domain.ErrTerminalState) {
			t.Errorf("%s: expected ErrTerminalState, got: %v", status, err)
		}
		if len(repo.patches) != 0 {
			t.Errorf("%s: expected no write for terminal appointment", status)
		}
		if notifier.count() != 0 {
			t.Errorf("%s: expected no event for terminal appointment", status)
		}
	}
}

func TestAppointmentService_Cancel_LeavesPaymentStatus(t *testing.T) {
	repo := newStubAppointmentRepo()
	appt := seededAppointment(repo, "appt_1", domain.StatusScheduled)
	appt.PaymentStatus = domain.PaymentPaid
	svc := NewAppointmentService(repo, &stubNotifier{}, zerolog.Nop())

	updated, err := svc.Cancel(context.Background(), authz.Actor{ID: "pat_1", Role: domain.RolePatient}, "appt_1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if updated.PaymentStatus != domain.PaymentPaid {
		t.Errorf("cancel must not touch payment status, got %s", updated.PaymentStatus)
	}
}

func TestAppointmentService_List_ByRole(t *testing.T) {
	repo := newStubAppointmentRepo()
	seededAppointment(repo, "appt_1", domain.StatusScheduled)
	svc := NewAppointmentService(repo, &stubNotifier{}, zerolog.Nop())

	appts, err := svc.List(context.Background(), authz.Actor{ID: "psy_1", Role: domain.RolePsychologist})
	if err != nil || len(appts) != 1 {
		t.Errorf("expected one appointment for psychologist, got %d (%v)", len(appts), err)
	}

	appts, err = svc.List(context.Background(), authz.Actor{ID: "pat_1", Role: domain.RolePatient})
	if err != nil || len(appts) != 1 {
		t.Errorf("expected one appointment for patient, got %d (%v)", len(appts), err)
	}

	if _, err := svc.List(context.Background(), authz.Actor{ID: "adm_1", Role: domain.RoleAdmin}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for admin-wide listing, got: %v", err)
	}
}

func TestAppointmentService_OverrideStatus_AdminOnly(t *testing.T) {
	repo := newStubAppointmentRepo()
	seededAppointment(repo, "appt_1", domain.StatusCompleted)
	notifier := &stubNotifier{}
	svc := NewAppointmentService(repo, notifier, zerolog.Nop())

	_, err := svc.OverrideStatus(context.Background(), authz.Actor{ID: "psy_1", Role: domain.RolePsychologist}, "appt_1", domain.StatusScheduled)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for non-admin, got: %v", err)
	}

	// Admin may move an appointment out of a terminal state.
	updated, err := svc.OverrideStatus(context.Background(), authz.Actor{ID: "adm_1", Role: domain.RoleAdmin}, "appt_1", domain.StatusScheduled)
	if err != nil {
		t.Fatalf("expected admin override to succeed, got: %v", err)
	}
	if updated.Status != domain.StatusScheduled {
		t.Errorf("expected scheduled, got %s", updated.Status)
	}
	if notifier.count() != 1 {
		t.Errorf("expected override to emit an event")
	}
}

func TestAppointmentService_OverrideStatus_UnknownStatus(t *testing.T) {
	repo := newStubAppointmentRepo()
	seededAppointment(repo, "appt_1", domain.StatusScheduled)
	svc := NewAppointmentService(repo, &stubNotifier{}, zerolog.Nop())

	if _, err := svc.OverrideStatus(context.Background(), authz.Actor{ID: "adm_1", Role: domain.RoleAdmin}, "appt_1", "archived"); err == nil {
		t.Errorf("expected error for unknown status")
	}
}
