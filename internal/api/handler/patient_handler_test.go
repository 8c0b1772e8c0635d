package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/psiconecta/booking-system/internal/core/authz"
	"github.com/psiconecta/booking-system/internal/core/domain"
	"github.com/psiconecta/booking-system/internal/core/ports"
)

type stubPatientService struct {
	listFn   func(ctx context.Context, actor authz.Actor) ([]*domain.User, error)
	getFn    func(ctx context.Context, actor authz.Actor, id string) (*domain.User, error)
	updateFn func(ctx context.Context, actor authz.Actor, id string, input ports.UpdatePatientInput) (*domain.User, error)
}

func (s *stubPatientService) List(ctx context.Context, actor authz.Actor) ([]*domain.User, error) {
	return s.listFn(ctx, actor)
}

func (s *stubPatientService) Get(ctx context.Context, actor authz.Actor, id string) (*domain.User, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubPatientService) Update(ctx context.Context, actor authz.Actor, id string, input ports.UpdatePatientInput) (*domain.User, error) {
	return s.updateFn(ctx, actor, id, input)
}

func TestPatientHandler_List_Success(t *testing.T) {
	stub := &stubPatientService{
		listFn: func(ctx context.Context, actor authz.Actor) ([]*domain.User, error) {
			if actor.Role != "psychologist" {
				t.Fatalf("unexpected actor: %+v", actor)
			}
			return []*domain.User{{ID: "pat_1"}, {ID: "pat_2"}}, nil
		},
	}
	h := NewPatientHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/v1/patients", "")
	asActor(c, "psy_1", "psychologist")

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var patients []domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &patients); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(patients) != 2 {
		t.Fatalf("expected 2 patients, got %d", len(patients))
	}
}

func TestPatientHandler_List_ForbiddenPassedThrough(t *testing.T) {
	stub := &stubPatientService{
		listFn: func(ctx context.Context, actor authz.Actor) ([]*domain.User, error) {
			return nil, domain.ErrForbidden
		},
	}
	h := NewPatientHandler(stub)

	c, _ := newTestContext(t, http.MethodGet, "/v1/patients", "")
	asActor(c, "pat_1", "patient")

	if err := h.List(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got: %v", err)
	}
}

func TestPatientHandler_Get_NotFoundPassedThrough(t *testing.T) {
	stub := &stubPatientService{
		getFn: func(ctx context.Context, actor authz.Actor, id string) (*domain.User, error) {
			if id != "pat_9" {
				t.Fatalf("unexpected id: %q", id)
			}
			return nil, domain.ErrUserNotFound
		},
	}
	h := NewPatientHandler(stub)

	c, _ := newTestContext(t, http.MethodGet, "/v1/patients/pat_9", "")
	c.SetParamNames("id")
	c.SetParamValues("pat_9")
	asActor(c, "adm_1", "admin")

	if err := h.Get(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got: %v", err)
	}
}

func TestPatientHandler_Update_PartialBody(t *testing.T) {
	stub := &stubPatientService{
		updateFn: func(ctx context.Context, actor authz.Actor, id string, input ports.UpdatePatientInput) (*domain.User, error) {
			if input.PhoneNumber == nil || *input.PhoneNumber != "+52 55 1234 5678" {
				t.Fatalf("expected phone number set, got %+v", input)
			}
			if input.Name != nil || input.DateOfBirth != nil || input.EmergencyContact != nil {
				t.Fatalf("unspecified fields must stay nil: %+v", input)
			}
			return &domain.User{ID: id, PhoneNumber: *input.PhoneNumber}, nil
		},
	}
	h := NewPatientHandler(stub)

	c, rec := newTestContext(t, http.MethodPut, "/v1/patients/pat_1",
		`{"phone_number":"+52 55 1234 5678"}`)
	c.SetParamNames("id")
	c.SetParamValues("pat_1")
	asActor(c, "pat_1", "patient")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
