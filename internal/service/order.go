package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"storefront-backend/internal/client"
	"storefront-backend/internal/model"
	"storefront-backend/internal/repository"
)

// ErrNotConfirmable is returned when a confirmation is requested for an order that was never paid.
var ErrNotConfirmable = errors.New("order has not been paid")

type OrderService interface {
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
	ListEvents(ctx context.Context, orderID string) ([]*model.OrderEvent, error)
	// ResendConfirmation mails the confirmation again and records an email_sent event.
	ResendConfirmation(ctx context.Context, orderID string) (string, error)
}

type orderServiceImpl struct {
	orderRepo repository.OrderRepository
	eventRepo repository.OrderEventRepository
	confirmer *confirmationSender
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	eventRepo repository.OrderEventRepository,
	mailer client.Mailer,
	logger *slog.Logger,
) OrderService {
	return &orderServiceImpl{
		orderRepo: orderRepo,
		eventRepo: eventRepo,
		confirmer: newConfirmationSender(orderRepo, mailer, logger),
	}
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

func (s *orderServiceImpl) ListEvents(ctx context.Context, orderID string) ([]*model.OrderEvent, error) {
	if _, err := s.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return s.eventRepo.ListByOrder(ctx, orderID)
}

func (s *orderServiceImpl) ResendConfirmation(ctx context.Context, orderID string) (string, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	switch order.Status {
	case model.OrderStatusPending, model.OrderStatusCancelled:
		return "", fmt.Errorf("%w: status %s", ErrNotConfirmable, order.Status)
	}

	messageID, err := s.confirmer.send(ctx, orderID, "")
	if err != nil {
		return "", err
	}

	_, err = s.eventRepo.Append(ctx, &model.OrderEvent{
		OrderID:     orderID,
		EventType:   model.EventEmailSent,
		Description: "Email de confirmación reenviado",
		Metadata: model.Metadata{
			"message_id": messageID,
		},
		IdempotencyKey: fmt.Sprintf("email-%s-%s", orderID, messageID),
	})
	if err != nil {
		return messageID, fmt.Errorf("record email event: %w", err)
	}
	return messageID, nil
}
