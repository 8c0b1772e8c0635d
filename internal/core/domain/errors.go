package domain

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserExists          = errors.New("user already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrForbidden           = errors.New("access forbidden")
	ErrInvalidTimeWindow   = errors.New("end time must be after start time")
	ErrMissingParticipant  = errors.New("psychologist and patient are required")
	ErrTerminalState       = errors.New("appointment no longer accepts transitions")
	ErrExternalService     = errors.New("external service unavailable")
)
