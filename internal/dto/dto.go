package dto

import (
	"time"

	"storefront-backend/internal/model"
)

// WebhookNotification is the body MercadoPago posts to the webhook endpoint.
type WebhookNotification struct {
	ID          *int64          `json:"id" validate:"required"`
	LiveMode    *bool           `json:"live_mode" validate:"required"`
	Type        string          `json:"type" validate:"required"`
	DateCreated string          `json:"date_created" validate:"required"`
	Action      string          `json:"action" validate:"required"`
	Data        WebhookResource `json:"data"`
}

type WebhookResource struct {
	ID string `json:"id" validate:"required"`
}

type ValidationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type WebhookResponse struct {
	Message   string            `json:"message"`
	PaymentID string            `json:"payment_id,omitempty"`
	Details   []ValidationIssue `json:"details,omitempty"`
	Error     string            `json:"error,omitempty"`
	Timestamp string            `json:"timestamp"`
}

func NewWebhookResponse(message string) *WebhookResponse {
	return &WebhookResponse{
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

type HealthResponse struct {
	Status string `json:"status"`
}

type OrderResponse struct {
	Order *model.Order `json:"order"`
}

type OrderEventsResponse struct {
	OrderID string              `json:"order_id"`
	Events  []*model.OrderEvent `json:"events"`
}
