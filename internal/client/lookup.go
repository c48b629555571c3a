package client

import (
	"fmt"

	"storefront-backend/internal/config"
)

// NewPaymentLookup picks the processor client from config. In MercadoPago test mode the
// fixture payments are answered locally and everything else still reaches the API.
func NewPaymentLookup(cfg *config.Config) (PaymentLookup, error) {
	switch cfg.PaymentProvider {
	case "mercadopago", "":
		token := cfg.MercadoPago.Token(cfg.Environment)
		var lookup PaymentLookup = NewMercadoPagoClient(cfg.MercadoPago.BaseApiURL, token)
		if cfg.MercadoPago.TestMode {
			lookup = NewFixturePaymentLookup(DefaultPaymentFixtures(), lookup)
		}
		return lookup, nil
	case "braintree":
		return NewBraintreePaymentLookup(&cfg.Braintree), nil
	default:
		return nil, fmt.Errorf("unsupported payment provider %q", cfg.PaymentProvider)
	}
}
