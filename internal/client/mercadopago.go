package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"storefront-backend/internal/model"
)

// PaymentLookup fetches the authoritative state of a payment from the processor.
type PaymentLookup interface {
	GetPayment(ctx context.Context, paymentID string) (*model.Payment, error)
}

type mercadoPagoClientImpl struct {
	httpClient  *http.Client
	baseApiURL  string
	accessToken string
}

type mercadoPagoPayment struct {
	ID                int64  `json:"id"`
	Status            string `json:"status"`
	StatusDetail      string `json:"status_detail"`
	ExternalReference string `json:"external_reference"`
	PaymentMethodID   string `json:"payment_method_id"`
	Payer             struct {
		Email string `json:"email"`
	} `json:"payer"`
}

func NewMercadoPagoClient(baseApiURL, accessToken string) PaymentLookup {
	return &mercadoPagoClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL:  baseApiURL,
		accessToken: accessToken,
	}
}

func (c *mercadoPagoClientImpl) GetPayment(ctx context.Context, paymentID string) (*model.Payment, error) {
	endpoint := fmt.Sprintf("%s/v1/payments/%s", c.baseApiURL, url.PathEscape(paymentID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create payment request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mercadopago payment request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("mercadopago error %d: %s", resp.StatusCode, string(b))
	}

	var result mercadoPagoPayment
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode mercadopago payment: %w", err)
	}

	return &model.Payment{
		ID:                strconv.FormatInt(result.ID, 10),
		Status:            result.Status,
		StatusDetail:      result.StatusDetail,
		ExternalReference: result.ExternalReference,
		PaymentMethodID:   result.PaymentMethodID,
		Payer:             model.Payer{Email: result.Payer.Email},
	}, nil
}
