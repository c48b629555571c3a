package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"storefront-backend/internal/client"
	"storefront-backend/internal/dto"
	"storefront-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type WebhookHandler struct {
	paymentService service.PaymentService
	webhookSecret  string
	logger         *slog.Logger
}

// NewWebhookHandler builds the MercadoPago webhook endpoint. Signatures are only checked when
// webhookSecret is set.
func NewWebhookHandler(paymentService service.PaymentService, webhookSecret string, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		paymentService: paymentService,
		webhookSecret:  webhookSecret,
		logger:         logger,
	}
}

func (h *WebhookHandler) MercadoPagoWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return h.invalid(c, []dto.ValidationIssue{{Field: "body", Message: "unreadable body"}})
	}

	var notification dto.WebhookNotification
	if issues := decodeNotification(body, &notification); issues != nil {
		return h.invalid(c, issues)
	}
	if err := c.Validate(&notification); err != nil {
		return h.invalid(c, validationIssues(err))
	}

	if h.webhookSecret != "" {
		dataID := c.QueryParam("data.id")
		if dataID == "" {
			dataID = notification.Data.ID
		}
		err := client.VerifyMercadoPagoSignature(h.webhookSecret,
			c.Request().Header.Get("x-signature"), c.Request().Header.Get("x-request-id"), dataID)
		if err != nil {
			h.logger.Warn("webhook signature rejected", "payment_id", notification.Data.ID, "error", err)
			return c.JSON(http.StatusUnauthorized, dto.NewWebhookResponse("Invalid signature"))
		}
	}

	result, err := h.paymentService.HandleNotification(ctx, &notification)
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		resp := dto.NewWebhookResponse("Order not found")
		resp.PaymentID = notification.Data.ID
		return c.JSON(http.StatusNotFound, resp)
	case err != nil:
		h.logger.Error("webhook processing failed", "payment_id", notification.Data.ID, "error", err)
		resp := dto.NewWebhookResponse("Internal server error")
		resp.Error = err.Error()
		return c.JSON(http.StatusInternalServerError, resp)
	}

	var resp *dto.WebhookResponse
	switch result.Outcome {
	case service.OutcomeIgnored:
		return c.JSON(http.StatusOK, dto.NewWebhookResponse(fmt.Sprintf("Notification type %s ignored", notification.Type)))
	case service.OutcomeUnchanged:
		resp = dto.NewWebhookResponse("Order status unchanged")
	default:
		resp = dto.NewWebhookResponse("Webhook processed successfully")
	}
	resp.PaymentID = result.PaymentID
	return c.JSON(http.StatusOK, resp)
}

func (h *WebhookHandler) invalid(c echo.Context, issues []dto.ValidationIssue) error {
	resp := dto.NewWebhookResponse("Invalid webhook payload")
	resp.Details = issues
	return c.JSON(http.StatusBadRequest, resp)
}

// decodeNotification reports JSON that does not fit the notification shape as field issues.
func decodeNotification(body []byte, notification *dto.WebhookNotification) []dto.ValidationIssue {
	dec := json.NewDecoder(bytes.NewReader(body))
	err := dec.Decode(notification)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return []dto.ValidationIssue{{
			Field:   field,
			Message: fmt.Sprintf("must be %s, got %s", jsonKind(typeErr.Type.Kind().String()), typeErr.Value),
		}}
	}
	return []dto.ValidationIssue{{Field: "body", Message: "malformed JSON"}}
}

func jsonKind(goKind string) string {
	switch goKind {
	case "int64", "int", "int32", "float64":
		return "number"
	case "bool":
		return "boolean"
	case "struct", "map":
		return "object"
	default:
		return goKind
	}
}
