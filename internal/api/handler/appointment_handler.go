package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/psiconecta/booking-system/internal/api/metrics"
	"github.com/psiconecta/booking-system/internal/core/domain"
	"github.com/psiconecta/booking-system/internal/core/ports"
)

type AppointmentHandler struct {
	appointmentService ports.AppointmentService
}

func NewAppointmentHandler(appointmentService ports.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

type createAppointmentRequest struct {
	PsychologistID string    `json:"psychologist_id" validate:"required"`
	PatientID      string    `json:"patient_id"      validate:"required"`
	StartTime      time.Time `json:"start_time"      validate:"required"`
	EndTime        time.Time `json:"end_time"        validate:"required"`
	Notes          string    `json:"notes"`
}

type updateAppointmentRequest struct {
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Notes     *string    `json:"notes"`
	Status    *string    `json:"status" validate:"omitempty,oneof=scheduled completed cancelled no-show"`
}

type overrideStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled completed cancelled no-show"`
}

// Create schedules a new appointment between a psychologist and a patient.
//
// @Summary      Create an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAppointmentRequest  true  "Appointment details"
// @Success      201   {object}  domain.Appointment
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/appointments [post]
func (h *AppointmentHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	appt, err := h.appointmentService.Create(c.Request().Context(), actor, ports.CreateAppointmentInput{
		PsychologistID: req.PsychologistID,
		PatientID:      req.PatientID,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Notes:          req.Notes,
	})
	if err != nil {
		return err
	}

	metrics.AppointmentsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, appt)
}

// List returns the authenticated user's appointments.
//
// @Summary      List my appointments
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Appointment
// @Failure      401  {object}  errorResponse
// @Router       /v1/appointments [get]
func (h *AppointmentHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	appts, err := h.appointmentService.List(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, appts)
}

// Get returns a single appointment the caller participates in.
//
// @Summary      Get an appointment
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment ID"
// @Success      200  {object}  domain.Appointment
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/appointments/{id} [get]
func (h *AppointmentHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	appt, err := h.appointmentService.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, appt)
}

// Update applies a partial update to an appointment.
//
// @Summary      Update an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Appointment ID"
// @Param        body  body      updateAppointmentRequest  true  "Fields to update"
// @Success      200   {object}  domain.Appointment
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/appointments/{id} [put]
func (h *AppointmentHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := ports.UpdateAppointmentInput{
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Notes:     req.Notes,
	}
	if req.Status != nil {
		status := domain.AppointmentStatus(*req.Status)
		input.Status = &status
	}

	appt, err := h.appointmentService.Update(c.Request().Context(), actor, c.Param("id"), input)
	if err != nil {
		return err
	}

	metrics.AppointmentTransitionsTotal.WithLabelValues(string(appt.Status)).Inc()
	return c.JSON(http.StatusOK, appt)
}

// Cancel cancels an appointment. Cancelling twice is a no-op success.
//
// @Summary      Cancel an appointment
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment ID"
// @Success      200  {object}  domain.Appointment
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/appointments/{id}/cancel [post]
func (h *AppointmentHandler) Cancel(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	appt, err := h.appointmentService.Cancel(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.AppointmentTransitionsTotal.WithLabelValues(string(domain.StatusCancelled)).Inc()
	return c.JSON(http.StatusOK, appt)
}

// OverrideStatus forces an appointment into an arbitrary status. Admin only.
//
// @Summary      Force an appointment status (admin)
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Appointment ID"
// @Param        body  body      overrideStatusRequest  true  "Target status"
// @Success      200   {object}  domain.Appointment
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/appointments/{id}/status [put]
func (h *AppointmentHandler) OverrideStatus(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req overrideStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	appt, err := h.appointmentService.OverrideStatus(c.Request().Context(), actor, c.Param("id"), domain.AppointmentStatus(req.Status))
	if err != nil {
		return err
	}

	metrics.AppointmentTransitionsTotal.WithLabelValues(string(appt.Status)).Inc()
	return c.JSON(http.StatusOK, appt)
}
