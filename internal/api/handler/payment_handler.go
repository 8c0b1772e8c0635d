package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/psiconecta/booking-system/internal/core/ports"
	"github.com/psiconecta/booking-system/internal/infrastructure/queue"
)

type PaymentHandler struct {
	paymentService ports.PaymentService
	dispatcher     *queue.Dispatcher
	log            zerolog.Logger
}

func NewPaymentHandler(paymentService ports.PaymentService, dispatcher *queue.Dispatcher, log zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		dispatcher:     dispatcher,
		log:            log,
	}
}

type createCheckoutRequest struct {
	AppointmentID string  `json:"appointment_id" validate:"required"`
	Amount        float64 `json:"amount"         validate:"required,gt=0"`
	Currency      string  `json:"currency"       validate:"required,oneof=ARS BRL CLP MXN COP PEN UYU"`
}

// webhookNotification is the shape Mercado Pago pushes. Only the payment id
// is trusted; everything else is re-fetched from the processor.
type webhookNotification struct {
	Type string `json:"type"`
	Data struct {
		ID json.Number `json:"id"`
	} `json:"data"`
}

// CreateCheckout creates a pending payment and external checkout preference.
//
// @Summary      Create a checkout session
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCheckoutRequest  true  "Checkout details"
// @Success      201   {object}  ports.CheckoutResult
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/payments/checkout [post]
func (h *PaymentHandler) CreateCheckout(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.paymentService.CreateCheckout(c.Request().Context(), actor, ports.CreateCheckoutInput{
		AppointmentID: req.AppointmentID,
		Amount:        req.Amount,
		Currency:      req.Currency,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, result)
}

// History returns the caller's payment history.
//
// @Summary      List my payments
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Payment
// @Failure      401  {object}  errorResponse
// @Router       /v1/payments [get]
func (h *PaymentHandler) History(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	payments, err := h.paymentService.History(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payments)
}

// Webhook receives processor callbacks. The callback is acknowledged
// immediately and processed asynchronously; the processor retries on
// non-2xx, so everything past parsing must not fail the request.
//
// @Summary      Payment processor webhook
// @Tags         payments
// @Accept       json
// @Success      200
// @Router       /webhooks/payments [post]
func (h *PaymentHandler) Webhook(c echo.Context) error {
	var n webhookNotification
	if err := c.Bind(&n); err != nil {
		h.log.Warn().Err(err).Msg("malformed webhook payload")
		return c.NoContent(http.StatusOK)
	}

	// Only payment events carry a payment id worth reconciling.
	if n.Type != "payment" || n.Data.ID.String() == "" {
		return c.NoContent(http.StatusOK)
	}

	h.dispatcher.Enqueue(ports.CallbackInput{ProcessorPaymentID: n.Data.ID.String()})
	return c.NoContent(http.StatusOK)
}
