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

func TestPatientService_List_RoleGate(t *testing.T) {
	repo := newStubUserRepo()
	seededUser(repo, "pat_1", "pat@example.com", "pw", domain.RolePatient)
	seededUser(repo, "psy_1", "psy@example.com", "pw", domain.RolePsychologist)
	svc := NewPatientService(repo, zerolog.Nop())

	patients, err := svc.List(context.Background(), authz.Actor{ID: "psy_1", Role: domain.RolePsychologist})
	if err != nil {
		t.Fatalf("expected psychologist to list patients, got: %v", err)
	}
	if len(patients) != 1 || patients[0].Role != domain.RolePatient {
		t.Errorf("expected only patient records, got %v", patients)
	}

	if _, err := svc.List(context.Background(), authz.Actor{ID: "pat_1", Role: domain.RolePatient}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for patient actor, got: %v", err)
	}
}

func TestPatientService_Get_NonPatientRecordHidden(t *testing.T) {
	repo := newStubUserRepo()
	seededUser(repo, "psy_1", "psy@example.com", "pw", domain.RolePsychologist)
	svc := NewPatientService(repo, zerolog.Nop())

	// Reading a psychologist through the patient endpoint reads as not found.
	_, err := svc.Get(context.Background(), authz.Actor{ID: "adm_1", Role: domain.RoleAdmin}, "psy_1")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got: %v", err)
	}
}

func TestPatientService_Update_SelfOrAdminOnly(t *testing.T) {
	repo := newStubUserRepo()
	seededUser(repo, "pat_1", "pat@example.com", "pw", domain.RolePatient)
	svc := NewPatientService(repo, zerolog.Nop())

	phone := "+52 55 0000 0000"

	// Psychologists may read but not write.
	_, err := svc.Update(context.Background(), authz.Actor{ID: "psy_1", Role: domain.RolePsychologist}, "pat_1", ports.UpdatePatientInput{PhoneNumber: &phone})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for psychologist write, got: %v", err)
	}

	// The patient may update their own profile.
	updated, err := svc.Update(context.Background(), authz.Actor{ID: "pat_1", Role: domain.RolePatient}, "pat_1", ports.UpdatePatientInput{PhoneNumber: &phone})
	if err != nil {
		t.Fatalf("expected self update to succeed, got: %v", err)
	}
	if updated.PhoneNumber != phone {
		t.Errorf("expected phone updated, got %q", updated.PhoneNumber)
	}

	// Other patients may not.
	_, err = svc.Update(context.Background(), authz.Actor{ID: "pat_2", Role: domain.RolePatient}, "pat_1", ports.UpdatePatientInput{PhoneNumber: &phone})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for foreign patient, got: %v", err)
	}
}
