package service

import "storefront-backend/internal/model"

// MapPaymentStatus translates a processor payment status into the order status it implies.
// Unknown statuses leave the order pending.
func MapPaymentStatus(paymentStatus string) model.OrderStatus {
	switch paymentStatus {
	case model.PaymentApproved:
		return model.OrderStatusPaid
	case model.PaymentPending, model.PaymentInProcess:
		return model.OrderStatusPending
	case model.PaymentRejected, model.PaymentCancelled:
		return model.OrderStatusCancelled
	default:
		return model.OrderStatusPending
	}
}
