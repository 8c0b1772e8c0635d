package service

import (
	"context"
	"sync"

	"github.com/psiconecta/booking-system/internal/core/domain"
	"github.com/psiconecta/booking-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Shared stubs for the service tests.
// ---------------------------------------------------------------------------

type stubAppointmentRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Appointment
	createErr error
	updateErr error
	patches   []ports.AppointmentPatch
}

func newStubAppointmentRepo() *stubAppointmentRepo {
	return &stubAppointmentRepo{byID: make(map[string]*domain.Appointment)}
}

func (r *stubAppointmentRepo) Create(_ context.Context, a *domain.Appointment) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.byID[a.ID] = &cp
	return nil
}

func (r *stubAppointmentRepo) FindByID(_ context.Context, id string) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *stubAppointmentRepo) Update(_ context.Context, id string, patch ports.AppointmentPatch) (*domain.Appointment, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}
	if patch.StartTime != nil {
		a.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		a.EndTime = *patch.EndTime
	}
	if patch.Notes != nil {
		a.Notes = *patch.Notes
	}
	if patch.Status != nil {
		a.Status = *patch.Status
	}
	if patch.PaymentStatus != nil {
		a.PaymentStatus = *patch.PaymentStatus
	}
	r.patches = append(r.patches, patch)
	cp := *a
	return &cp, nil
}

func (r *stubAppointmentRepo) ListByPsychologist(_ context.Context, psychologistID string) ([]*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Appointment
	for _, a := range r.byID {
		if a.PsychologistID == psychologistID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *stubAppointmentRepo) ListByPatient(_ context.Context, patientID string) ([]*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Appointment
	for _, a := range r.byID {
		if a.PatientID == patientID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

type stubPaymentRepo struct {
	mu            sync.Mutex
	byAppointment map[string]*domain.Payment
	createErr     error
	updateErr     error
	patches       []ports.PaymentPatch
}

func newStubPaymentRepo() *stubPaymentRepo {
	return &stubPaymentRepo{byAppointment: make(map[string]*domain.Payment)}
}

func (r *stubPaymentRepo) Create(_ context.Context, p *domain.Payment) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.byAppointment[p.AppointmentID] = &cp
	return nil
}

func (r *stubPaymentRepo) FindByAppointmentID(_ context.Context, appointmentID string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byAppointment[appointmentID]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubPaymentRepo) Update(_ context.Context, id string, patch ports.PaymentPatch) (*domain.Payment, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byAppointment {
		if p.ID != id {
			continue
		}
		if patch.Status != nil {
			p.Status = *patch.Status
		}
		if patch.Amount != nil {
			p.Amount = *patch.Amount
		}
		if patch.Currency != nil {
			p.Currency = *patch.Currency
		}
		if patch.PreferenceID != nil {
			p.PreferenceID = *patch.PreferenceID
		}
		if patch.TransactionID != nil {
			p.TransactionID = *patch.TransactionID
		}
		if patch.ReceiptURL != nil {
			p.ReceiptURL = *patch.ReceiptURL
		}
		r.patches = append(r.patches, patch)
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrPaymentNotFound
}

func (r *stubPaymentRepo) ListByAppointmentIDs(_ context.Context, appointmentIDs []string) ([]*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Payment
	for _, id := range appointmentIDs {
		if p, ok := r.byAppointment[id]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

type stubUserRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.User
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	cp := *user
	r.byID[user.ID] = &cp
	return &cp, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByIdentity(_ context.Context, provider, providerID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		for _, ident := range u.Identities {
			if ident.Provider == provider && ident.ProviderID == providerID {
				cp := *u
				return &cp, nil
			}
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ListByRole(_ context.Context, role string) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, u := range r.byID {
		if u.Role == role {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.ProfilePicture != nil {
		u.ProfilePicture = *patch.ProfilePicture
	}
	if patch.PhoneNumber != nil {
		u.PhoneNumber = *patch.PhoneNumber
	}
	if patch.DateOfBirth != nil {
		u.DateOfBirth = *patch.DateOfBirth
	}
	if patch.EmergencyContact != nil {
		u.EmergencyContact = *patch.EmergencyContact
	}
	if patch.Identities != nil {
		u.Identities = patch.Identities
	}
	cp := *u
	return &cp, nil
}

type stubNotifier struct {
	mu     sync.Mutex
	events []domain.AppointmentEvent
}

func (n *stubNotifier) PublishAppointmentEvent(event domain.AppointmentEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *stubNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

func (n *stubNotifier) last() domain.AppointmentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.events[len(n.events)-1]
}

type stubCheckoutProvider struct {
	preference    *ports.PreferenceResult
	preferenceErr error
	payment       *ports.ProcessorPayment
	paymentErr    error
	created       []ports.PreferenceInput
}

func (p *stubCheckoutProvider) CreatePreference(_ context.Context, input ports.PreferenceInput) (*ports.PreferenceResult, error) {
	if p.preferenceErr != nil {
		return nil, p.preferenceErr
	}
	p.created = append(p.created, input)
	if p.preference != nil {
		return p.preference, nil
	}
	return &ports.PreferenceResult{PreferenceID: "pref_1", InitPoint: "https://checkout.example/pref_1"}, nil
}

func (p *stubCheckoutProvider) GetPayment(_ context.Context, paymentID string) (*ports.ProcessorPayment, error) {
	if p.paymentErr != nil {
		return nil, p.paymentErr
	}
	return p.payment, nil
}

type stubDedup struct {
	dupResult bool
	dupErr    error
	markErr   error
	marked    []string
}

func (d *stubDedup) IsDuplicate(_ context.Context, processorPaymentID, status string) (bool, error) {
	return d.dupResult, d.dupErr
}

func (d *stubDedup) Mark(_ context.Context, processorPaymentID, status string) error {
	if d.markErr != nil {
		return d.markErr
	}
	d.marked = append(d.marked, processorPaymentID+":"+status)
	return nil
}

type stubVerifier struct {
	identity *ports.VerifiedIdentity
	err      error
}

func (v *stubVerifier) Verify(_ context.Context, provider, accessToken string) (*ports.VerifiedIdentity, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.identity, nil
}
