package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"storefront-backend/internal/client"
	"storefront-backend/internal/dispatch"
	"storefront-backend/internal/model"
	"storefront-backend/internal/repository"
)

// BuildConfirmationEmail assembles the confirmation for an order loaded with its profile and
// item details. The recipient is the profile email, then the checkout email, then fallback.
func BuildConfirmationEmail(order *model.Order, fallbackEmail string) *model.ConfirmationEmail {
	email := &model.ConfirmationEmail{
		OrderID:      order.ID,
		OrderNumber:  order.OrderNumber,
		Total:        order.Total,
		TrackingCode: order.TrackingCode,
		Items:        make([]model.ConfirmationItem, 0, len(order.Items)),
	}

	if order.Profile != nil {
		email.CustomerName = order.Profile.FullName
		email.CustomerEmail = order.Profile.Email
	}
	if email.CustomerEmail == "" {
		email.CustomerEmail = order.CustomerEmail
	}
	if email.CustomerEmail == "" {
		email.CustomerEmail = fallbackEmail
	}
	if email.CustomerName == "" {
		email.CustomerName = "cliente"
	}

	for _, item := range order.Items {
		name := item.ProductName
		size, color := item.Size, item.Color
		if item.Variant != nil {
			if item.Variant.Product != nil && name == "" {
				name = item.Variant.Product.Name
			}
			if size == "" {
				size = item.Variant.Size
			}
			if color == "" {
				color = item.Variant.Color
			}
		}

		email.Items = append(email.Items, model.ConfirmationItem{
			ProductName:  name,
			VariantLabel: variantLabel(size, color),
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
		})
	}

	return email
}

func variantLabel(size, color string) string {
	parts := make([]string, 0, 2)
	if size != "" {
		parts = append(parts, size)
	}
	if color != "" {
		parts = append(parts, color)
	}
	return strings.Join(parts, " / ")
}

type confirmationSender struct {
	orderRepo repository.OrderRepository
	mailer    client.Mailer
	logger    *slog.Logger
}

func newConfirmationSender(orderRepo repository.OrderRepository, mailer client.Mailer, logger *slog.Logger) *confirmationSender {
	return &confirmationSender{
		orderRepo: orderRepo,
		mailer:    mailer,
		logger:    logger,
	}
}

func (c *confirmationSender) send(ctx context.Context, orderID, fallbackEmail string) (string, error) {
	order, err := c.orderRepo.FindWithDetails(ctx, orderID)
	if err != nil {
		return "", fmt.Errorf("load order details: %w", err)
	}

	email := BuildConfirmationEmail(order, fallbackEmail)
	if email.CustomerEmail == "" {
		return "", dispatch.Permanent(fmt.Errorf("order %s has no customer email", orderID))
	}

	messageID, err := c.mailer.SendConfirmation(ctx, email)
	if err != nil {
		return "", fmt.Errorf("send confirmation: %w", err)
	}

	c.logger.Info("confirmation email sent", "order_id", orderID, "message_id", messageID)
	return messageID, nil
}
