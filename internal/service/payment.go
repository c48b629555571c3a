package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"storefront-backend/internal/client"
	"storefront-backend/internal/dispatch"
	"storefront-backend/internal/dto"
	"storefront-backend/internal/model"
	"storefront-backend/internal/repository"

	"gorm.io/gorm"
)

const paymentNotificationType = "payment"

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrPaymentLookup  = errors.New("payment lookup failed")
	ErrStatusConflict = errors.New("order status changed concurrently")
)

type Outcome string

const (
	// OutcomeIgnored means the notification was not about a payment.
	OutcomeIgnored Outcome = "ignored"
	// OutcomeUnchanged means the order already had the status the payment implies.
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeUpdated   Outcome = "updated"
)

type ReconcileResult struct {
	Outcome        Outcome
	PaymentID      string
	OrderID        string
	PreviousStatus model.OrderStatus
	NewStatus      model.OrderStatus
}

type PaymentService interface {
	// HandleNotification reconciles the payment a webhook notification points at.
	HandleNotification(ctx context.Context, notification *dto.WebhookNotification) (*ReconcileResult, error)
	// Reconcile brings the order paid by paymentID in line with the processor's current view.
	// notificationID scopes the audit event's idempotency key.
	Reconcile(ctx context.Context, notificationID, paymentID string) (*ReconcileResult, error)
}

type paymentServiceImpl struct {
	db         *gorm.DB
	payments   client.PaymentLookup
	confirmer  *confirmationSender
	dispatcher dispatch.Dispatcher
	orderRepo  repository.OrderRepository
	eventRepo  repository.OrderEventRepository
	stockRepo  repository.StockRepository
	logger     *slog.Logger
}

func NewPaymentService(
	db *gorm.DB,
	payments client.PaymentLookup,
	mailer client.Mailer,
	dispatcher dispatch.Dispatcher,
	orderRepo repository.OrderRepository,
	eventRepo repository.OrderEventRepository,
	stockRepo repository.StockRepository,
	logger *slog.Logger,
) PaymentService {
	return &paymentServiceImpl{
		db:         db,
		payments:   payments,
		confirmer:  newConfirmationSender(orderRepo, mailer, logger),
		dispatcher: dispatcher,
		orderRepo:  orderRepo,
		eventRepo:  eventRepo,
		stockRepo:  stockRepo,
		logger:     logger,
	}
}

func (s *paymentServiceImpl) HandleNotification(ctx context.Context, notification *dto.WebhookNotification) (*ReconcileResult, error) {
	if notification.Type != paymentNotificationType {
		s.logger.Info("notification ignored", "type", notification.Type, "action", notification.Action)
		return &ReconcileResult{Outcome: OutcomeIgnored}, nil
	}

	notificationID := ""
	if notification.ID != nil {
		notificationID = strconv.FormatInt(*notification.ID, 10)
	}
	return s.Reconcile(ctx, notificationID, notification.Data.ID)
}

func (s *paymentServiceImpl) Reconcile(ctx context.Context, notificationID, paymentID string) (*ReconcileResult, error) {
	logger := s.logger.With("payment_id", paymentID, "notification_id", notificationID)

	payment, err := s.payments.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPaymentLookup, err)
	}

	order, err := s.orderRepo.FindByExternalReference(ctx, payment.ExternalReference)
	if errors.Is(err, repository.ErrNotFound) {
		logger.Warn("no order for payment", "external_reference", payment.ExternalReference)
		return nil, fmt.Errorf("%w: external reference %q", ErrOrderNotFound, payment.ExternalReference)
	}
	if err != nil {
		return nil, fmt.Errorf("find order by external reference: %w", err)
	}

	result := &ReconcileResult{
		Outcome:        OutcomeUnchanged,
		PaymentID:      payment.ID,
		OrderID:        order.ID,
		PreviousStatus: order.Status,
		NewStatus:      MapPaymentStatus(payment.Status),
	}
	logger = logger.With("order_id", order.ID)

	if result.NewStatus == result.PreviousStatus {
		logger.Info("order status unchanged", "status", order.Status)
		return result, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := s.orderRepo.UpdatePayment(ctx, tx, order.ID, result.PreviousStatus, repository.PaymentUpdate{
			Status:        result.NewStatus,
			PaymentID:     payment.ID,
			PaymentStatus: payment.Status,
			PaymentMethod: payment.PaymentMethodID,
		})
		if err != nil {
			return fmt.Errorf("update order payment: %w", err)
		}

		if result.NewStatus != model.OrderStatusPaid {
			return nil
		}

		items, err := s.orderRepo.GetOrderItems(ctx, tx, order.ID)
		if err != nil {
			return fmt.Errorf("get order items: %w", err)
		}
		for _, item := range items {
			found, err := s.stockRepo.Decrement(ctx, tx, item.VariantID, item.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock for variant %s: %w", item.VariantID, err)
			}
			if !found {
				logger.Warn("variant missing, stock not decremented", "variant_id", item.VariantID, "quantity", item.Quantity)
			}
		}
		return nil
	})
	if errors.Is(err, repository.ErrStatusChanged) {
		return nil, fmt.Errorf("%w: %w", ErrStatusConflict, err)
	}
	if err != nil {
		return nil, err
	}

	result.Outcome = OutcomeUpdated
	logger.Info("order status updated", "previous_status", result.PreviousStatus, "new_status", result.NewStatus)

	event := paymentEvent(notificationID, payment, result)
	s.dispatcher.Dispatch("append order event", func(ctx context.Context) error {
		_, err := s.eventRepo.Append(ctx, event)
		return err
	}, "order_id", order.ID, "event_type", event.EventType)

	if result.NewStatus == model.OrderStatusPaid && result.PreviousStatus == model.OrderStatusPending {
		payerEmail := payment.Payer.Email
		s.dispatcher.Dispatch("send confirmation email", func(ctx context.Context) error {
			_, err := s.confirmer.send(ctx, order.ID, payerEmail)
			return err
		}, "order_id", order.ID)
	}

	return result, nil
}

func paymentEvent(notificationID string, payment *model.Payment, result *ReconcileResult) *model.OrderEvent {
	eventType := model.EventStatusChanged
	description := fmt.Sprintf("Estado actualizado de %s a %s", result.PreviousStatus, result.NewStatus)
	if result.NewStatus == model.OrderStatusPaid {
		eventType = model.EventPaymentConfirmed
		description = "Pago confirmado por MercadoPago"
	}

	return &model.OrderEvent{
		OrderID:     result.OrderID,
		EventType:   eventType,
		Description: description,
		Metadata: model.Metadata{
			"payment_id":      payment.ID,
			"payment_status":  payment.Status,
			"status_detail":   payment.StatusDetail,
			"payment_method":  payment.PaymentMethodID,
			"previous_status": string(result.PreviousStatus),
			"new_status":      string(result.NewStatus),
			"notification_id": notificationID,
		},
		IdempotencyKey: fmt.Sprintf("mp-%s-%s-%s", notificationID, result.OrderID, result.NewStatus),
	}
}
