// Package mercadopago implements ports.CheckoutProvider against the
// Mercado Pago REST API: preference creation at checkout time and payment
// detail lookup when a webhook arrives.
package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/psiconecta/booking-system/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	baseURL     string
	accessToken string
	frontendURL string
	http        *http.Client
}

func NewClient(baseURL, accessToken, frontendURL string) *Client {
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		frontendURL: frontendURL,
		http:        &http.Client{Timeout: defaultTimeout},
	}
}

type preferenceItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	CurrencyID string  `json:"currency_id"`
	UnitPrice  float64 `json:"unit_price"`
}

type backURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type preferenceRequest struct {
	Items             []preferenceItem `json:"items"`
	BackURLs          backURLs         `json:"back_urls"`
	AutoReturn        string           `json:"auto_return"`
	ExternalReference string           `json:"external_reference"`
}

type preferenceResponse struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

type paymentResponse struct {
	ID                 json.Number `json:"id"`
	Status             string      `json:"status"`
	ExternalReference  string      `json:"external_reference"`
	TransactionDetails struct {
		ExternalResourceURL string `json:"external_resource_url"`
	} `json:"transaction_details"`
}

// CreatePreference registers a checkout session and returns its id and the
// redirect target for the hosted checkout page.
func (c *Client) CreatePreference(ctx context.Context, input ports.PreferenceInput) (*ports.PreferenceResult, error) {
	body := preferenceRequest{
		Items: []preferenceItem{{
			Title:      input.Title,
			Quantity:   1,
			CurrencyID: input.Currency,
			UnitPrice:  input.Amount,
		}},
		BackURLs: backURLs{
			Success: c.frontendURL + "/payments/success",
			Failure: c.frontendURL + "/payments/failure",
			Pending: c.frontendURL + "/payments/pending",
		},
		AutoReturn:        "approved",
		ExternalReference: input.ExternalReference,
	}

	var resp preferenceResponse
	if err := c.do(ctx, http.MethodPost, "/checkout/preferences", body, &resp); err != nil {
		return nil, err
	}
	return &ports.PreferenceResult{PreferenceID: resp.ID, InitPoint: resp.InitPoint}, nil
}

// GetPayment fetches the processor's view of a payment, including the
// external reference that correlates it back to an appointment.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*ports.ProcessorPayment, error) {
	var resp paymentResponse
	if err := c.do(ctx, http.MethodGet, "/v1/payments/"+paymentID, nil, &resp); err != nil {
		return nil, err
	}
	return &ports.ProcessorPayment{
		ID:                resp.ID.String(),
		Status:            resp.Status,
		ExternalReference: resp.ExternalReference,
		ReceiptURL:        resp.TransactionDetails.ExternalResourceURL,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("mercadopago: marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("mercadopago: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("mercadopago: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("mercadopago: %s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("mercadopago: decode response: %w", err)
	}
	return nil
}
