package client

import (
	"testing"

	"storefront-backend/internal/model"

	"github.com/braintree-go/braintree-go"
	"github.com/stretchr/testify/assert"
)

func TestBraintreeStatus(t *testing.T) {
	tests := map[string]string{
		"settled":                  model.PaymentApproved,
		"submitted_for_settlement": model.PaymentApproved,
		"authorized":               model.PaymentInProcess,
		"settling":                 model.PaymentInProcess,
		"processor_declined":       model.PaymentRejected,
		"gateway_rejected":         model.PaymentRejected,
		"voided":                   model.PaymentCancelled,
		"authorization_expired":    model.PaymentCancelled,
		"unrecognized":             "unrecognized",
	}

	for in, want := range tests {
		assert.Equal(t, want, braintreeStatus(in), in)
	}
}

func TestBraintreePayment(t *testing.T) {
	payment := braintreePayment(&braintree.Transaction{
		Id:                    "bt-1",
		Status:                braintree.TransactionStatusSettled,
		OrderId:               "TEST-ORDER-001",
		PaymentInstrumentType: braintree.PaymentInstrumentType("credit_card"),
		ProcessorResponseText: "Approved",
	})

	assert.Equal(t, "bt-1", payment.ID)
	assert.Equal(t, model.PaymentApproved, payment.Status)
	assert.Equal(t, "Approved", payment.StatusDetail)
	assert.Equal(t, "TEST-ORDER-001", payment.ExternalReference)
	assert.Equal(t, "credit_card", payment.PaymentMethodID)
}

func TestBraintreePaymentDetailFallsBackToStatus(t *testing.T) {
	payment := braintreePayment(&braintree.Transaction{
		Id:     "bt-2",
		Status: braintree.TransactionStatusVoided,
	})

	assert.Equal(t, model.PaymentCancelled, payment.Status)
	assert.Equal(t, "voided", payment.StatusDetail)
	assert.Empty(t, payment.PaymentMethodID)
}
