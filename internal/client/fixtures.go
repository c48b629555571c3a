package client

import (
	"context"
	"fmt"

	"storefront-backend/internal/model"
)

// Payment ids answered from fixtures when the processor runs in test mode.
const (
	FixturePaymentID    = "12345678901"
	FixturePaymentIDAlt = "12345678902"
)

// DefaultPaymentFixtures returns the approved payments served in test mode. Their external
// references match the orders created by `storefrontctl seed`.
func DefaultPaymentFixtures() map[string]model.Payment {
	return map[string]model.Payment{
		FixturePaymentID: {
			ID:                FixturePaymentID,
			Status:            model.PaymentApproved,
			StatusDetail:      "accredited",
			ExternalReference: "TEST-ORDER-001",
			PaymentMethodID:   "visa",
			Payer:             model.Payer{Email: "test_user_001@testuser.com"},
		},
		FixturePaymentIDAlt: {
			ID:                FixturePaymentIDAlt,
			Status:            model.PaymentApproved,
			StatusDetail:      "accredited",
			ExternalReference: "TEST-ORDER-002",
			PaymentMethodID:   "master",
			Payer:             model.Payer{Email: "test_user_002@testuser.com"},
		},
	}
}

type fixturePaymentLookup struct {
	fixtures map[string]model.Payment
	next     PaymentLookup
}

// NewFixturePaymentLookup serves fixture ids locally and hands every other id to next.
// next may be nil, in which case unknown ids are an error.
func NewFixturePaymentLookup(fixtures map[string]model.Payment, next PaymentLookup) PaymentLookup {
	return &fixturePaymentLookup{
		fixtures: fixtures,
		next:     next,
	}
}

func (l *fixturePaymentLookup) GetPayment(ctx context.Context, paymentID string) (*model.Payment, error) {
	if p, ok := l.fixtures[paymentID]; ok {
		return &p, nil
	}
	if l.next == nil {
		return nil, fmt.Errorf("payment %s has no fixture", paymentID)
	}
	return l.next.GetPayment(ctx, paymentID)
}
