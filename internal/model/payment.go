package model

// Payment statuses as reported by the processor.
const (
	PaymentApproved  = "approved"
	PaymentPending   = "pending"
	PaymentInProcess = "in_process"
	PaymentRejected  = "rejected"
	PaymentCancelled = "cancelled"
)

type Payer struct {
	Email string `json:"email"`
}

// Payment is the processor's view of a transaction. It is never stored; the fields the
// storefront cares about are copied onto Order.
type Payment struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	StatusDetail      string `json:"status_detail"`
	ExternalReference string `json:"external_reference"`
	PaymentMethodID   string `json:"payment_method_id"`
	Payer             Payer  `json:"payer"`
}
