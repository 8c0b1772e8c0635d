package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/psiconecta/booking-system/internal/core/ports"
)

type PatientHandler struct {
	patientService ports.PatientService
}

func NewPatientHandler(patientService ports.PatientService) *PatientHandler {
	return &PatientHandler{patientService: patientService}
}

type updatePatientRequest struct {
	Name             *string `json:"name"`
	ProfilePicture   *string `json:"profile_picture"`
	PhoneNumber      *string `json:"phone_number"`
	DateOfBirth      *string `json:"date_of_birth"`
	EmergencyContact *string `json:"emergency_contact"`
}

// List returns all patient profiles.
//
// @Summary      List patients
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      403  {object}  errorResponse
// @Router       /v1/patients [get]
func (h *PatientHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	patients, err := h.patientService.List(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patients)
}

// Get returns a single patient profile.
//
// @Summary      Get a patient
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Patient ID"
// @Success      200  {object}  domain.User
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/patients/{id} [get]
func (h *PatientHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	patient, err := h.patientService.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patient)
}

// Update applies a partial update to a patient profile.
//
// @Summary      Update a patient
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Patient ID"
// @Param        body  body      updatePatientRequest  true  "Fields to update"
// @Success      200   {object}  domain.User
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/patients/{id} [put]
func (h *PatientHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updatePatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	patient, err := h.patientService.Update(c.Request().Context(), actor, c.Param("id"), ports.UpdatePatientInput{
		Name:             req.Name,
		ProfilePicture:   req.ProfilePicture,
		PhoneNumber:      req.PhoneNumber,
		DateOfBirth:      req.DateOfBirth,
		EmergencyContact: req.EmergencyContact,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patient)
}
