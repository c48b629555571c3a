package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront-backend/internal/dto"
	"storefront-backend/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPaymentService struct {
	mock.Mock
}

func (m *mockPaymentService) HandleNotification(ctx context.Context, n *dto.WebhookNotification) (*service.ReconcileResult, error) {
	args := m.Called(ctx, n)
	result, _ := args.Get(0).(*service.ReconcileResult)
	return result, args.Error(1)
}

func (m *mockPaymentService) Reconcile(ctx context.Context, notificationID, paymentID string) (*service.ReconcileResult, error) {
	args := m.Called(ctx, notificationID, paymentID)
	result, _ := args.Get(0).(*service.ReconcileResult)
	return result, args.Error(1)
}

const validBody = `{"id":12345,"live_mode":false,"type":"payment","date_created":"2024-05-01T12:00:00Z","action":"payment.updated","data":{"id":"777"}}`

func postWebhook(t *testing.T, h *WebhookHandler, body string, headers map[string]string) (*httptest.ResponseRecorder, dto.WebhookResponse) {
	t.Helper()

	e := echo.New()
	e.Validator = NewRequestValidator()
	e.POST("/webhook", h.MercadoPagoWebhook)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var resp dto.WebhookResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func newWebhookHandler(svc service.PaymentService, secret string) *WebhookHandler {
	return NewWebhookHandler(svc, secret, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestWebhookProcessed(t *testing.T) {
	svc := &mockPaymentService{}
	svc.On("HandleNotification", mock.Anything, mock.MatchedBy(func(n *dto.WebhookNotification) bool {
		return n.Data.ID == "777" && *n.ID == 12345 && n.Type == "payment"
	})).Return(&service.ReconcileResult{Outcome: service.OutcomeUpdated, PaymentID: "777"}, nil)

	rec, resp := postWebhook(t, newWebhookHandler(svc, ""), validBody, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "777", resp.PaymentID)
	assert.NotEmpty(t, resp.Message)
	assert.NotEmpty(t, resp.Timestamp)
	svc.AssertExpectations(t)
}

func TestWebhookUnchangedStillOK(t *testing.T) {
	svc := &mockPaymentService{}
	svc.On("HandleNotification", mock.Anything, mock.Anything).
		Return(&service.ReconcileResult{Outcome: service.OutcomeUnchanged, PaymentID: "777"}, nil)

	rec, resp := postWebhook(t, newWebhookHandler(svc, ""), validBody, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Order status unchanged", resp.Message)
}

func TestWebhookIgnoredType(t *testing.T) {
	svc := &mockPaymentService{}
	svc.On("HandleNotification", mock.Anything, mock.Anything).
		Return(&service.ReconcileResult{Outcome: service.OutcomeIgnored}, nil)

	body := strings.Replace(validBody, `"type":"payment"`, `"type":"plan"`, 1)
	rec, resp := postWebhook(t, newWebhookHandler(svc, ""), body, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, resp.Message, "plan")
	assert.Empty(t, resp.PaymentID)
}

func TestWebhookValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "missing data id", body: `{"id":1,"live_mode":true,"type":"payment","date_created":"x","action":"a","data":{}}`, field: "data.id"},
		{name: "missing live mode", body: `{"id":1,"type":"payment","date_created":"x","action":"a","data":{"id":"1"}}`, field: "live_mode"},
		{name: "missing type", body: `{"id":1,"live_mode":true,"date_created":"x","action":"a","data":{"id":"1"}}`, field: "type"},
		{name: "id not a number", body: `{"id":"abc","live_mode":true,"type":"payment","date_created":"x","action":"a","data":{"id":"1"}}`, field: "id"},
		{name: "malformed", body: `{"id":`, field: "body"},
		{name: "empty", body: ``, field: "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockPaymentService{}

			rec, resp := postWebhook(t, newWebhookHandler(svc, ""), tt.body, nil)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			require.NotEmpty(t, resp.Details)
			fields := make([]string, 0, len(resp.Details))
			for _, d := range resp.Details {
				fields = append(fields, d.Field)
			}
			assert.Contains(t, fields, tt.field)
			svc.AssertNotCalled(t, "HandleNotification", mock.Anything, mock.Anything)
		})
	}
}

func TestWebhookLiveModeFalseIsPresent(t *testing.T) {
	svc := &mockPaymentService{}
	svc.On("HandleNotification", mock.Anything, mock.Anything).
		Return(&service.ReconcileResult{Outcome: service.OutcomeUpdated, PaymentID: "777"}, nil)

	rec, _ := postWebhook(t, newWebhookHandler(svc, ""), validBody, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookOrderNotFound(t *testing.T) {
	svc := &mockPaymentService{}
	svc.On("HandleNotification", mock.Anything, mock.Anything).Return(nil, service.ErrOrderNotFound)

	rec, resp := postWebhook(t, newWebhookHandler(svc, ""), validBody, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Order not found", resp.Message)
}

func TestWebhookInternalError(t *testing.T) {
	svc := &mockPaymentService{}
	svc.On("HandleNotification", mock.Anything, mock.Anything).
		Return(nil, errors.Join(service.ErrPaymentLookup, errors.New("mercadopago error 500")))

	rec, resp := postWebhook(t, newWebhookHandler(svc, ""), validBody, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, resp.Error, "mercadopago error 500")
	assert.NotEmpty(t, resp.Timestamp)
}

func signature(secret, dataID, requestID, ts string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("id:" + dataID + ";request-id:" + requestID + ";ts:" + ts + ";"))
	return "ts=" + ts + ",v1=" + hex.EncodeToString(mac.Sum(nil))
}

func TestWebhookSignature(t *testing.T) {
	svc := &mockPaymentService{}
	svc.On("HandleNotification", mock.Anything, mock.Anything).
		Return(&service.ReconcileResult{Outcome: service.OutcomeUpdated, PaymentID: "777"}, nil)
	h := newWebhookHandler(svc, "whsec")

	rec, _ := postWebhook(t, h, validBody, map[string]string{
		"x-signature":  signature("whsec", "777", "req-1", "1714564800"),
		"x-request-id": "req-1",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, resp := postWebhook(t, h, validBody, map[string]string{
		"x-signature":  signature("other", "777", "req-1", "1714564800"),
		"x-request-id": "req-1",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid signature", resp.Message)

	svc.AssertNumberOfCalls(t, "HandleNotification", 1)
}
