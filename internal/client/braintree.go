package client

import (
	"context"
	"fmt"

	"storefront-backend/internal/config"
	"storefront-backend/internal/model"

	"github.com/braintree-go/braintree-go"
)

type braintreePaymentLookup struct {
	gateway *braintree.Braintree
}

// NewBraintreePaymentLookup initializes the Braintree SDK gateway and exposes transactions
// in the processor status vocabulary the reconciler understands.
func NewBraintreePaymentLookup(cfg *config.Braintree) PaymentLookup {
	env := braintree.Sandbox
	if cfg.Environment == "production" {
		env = braintree.Production
	}

	gateway := braintree.New(
		env,
		cfg.MerchantID,
		cfg.PublicKey,
		cfg.PrivateKey,
	)

	return &braintreePaymentLookup{
		gateway: gateway,
	}
}

func (c *braintreePaymentLookup) GetPayment(ctx context.Context, transactionID string) (*model.Payment, error) {
	tx, err := c.gateway.Transaction().Find(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("find braintree transaction: %w", err)
	}

	return braintreePayment(tx), nil
}

func braintreePayment(tx *braintree.Transaction) *model.Payment {
	detail := tx.ProcessorResponseText
	if detail == "" {
		detail = string(tx.Status)
	}

	return &model.Payment{
		ID:                tx.Id,
		Status:            braintreeStatus(string(tx.Status)),
		StatusDetail:      detail,
		ExternalReference: tx.OrderId,
		PaymentMethodID:   string(tx.PaymentInstrumentType),
	}
}

// braintreeStatus translates a Braintree transaction status into the processor statuses
// used by the status mapping.
func braintreeStatus(status string) string {
	switch status {
	case "settled", "settlement_confirmed", "submitted_for_settlement":
		return model.PaymentApproved
	case "authorizing", "authorized", "settling", "settlement_pending":
		return model.PaymentInProcess
	case "processor_declined", "gateway_rejected", "failed", "settlement_declined":
		return model.PaymentRejected
	case "voided", "authorization_expired":
		return model.PaymentCancelled
	default:
		return status
	}
}
