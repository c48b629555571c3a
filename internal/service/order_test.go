package service

import (
	"context"
	"testing"

	"storefront-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOrderServiceGetOrder(t *testing.T) {
	h := newHarness(t)
	svc := NewOrderService(h.orderRepo, h.eventRepo, h.mailer, h.logger)
	order := testdbOrder(t, h, model.OrderStatusPending, testdbVariant(t, h, 1))

	got, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ExternalReference, got.ExternalReference)
	assert.Len(t, got.Items, 1)

	_, err = svc.GetOrder(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = svc.ListEvents(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderServiceResendConfirmation(t *testing.T) {
	h := newHarness(t)
	svc := NewOrderService(h.orderRepo, h.eventRepo, h.mailer, h.logger)
	order := testdbOrder(t, h, model.OrderStatusShipped, testdbVariant(t, h, 1))
	h.mailer.On("SendConfirmation", mock.Anything, mock.Anything).Return("msg-9", nil)

	messageID, err := svc.ResendConfirmation(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "msg-9", messageID)

	events, err := svc.ListEvents(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventEmailSent, events[0].EventType)
	assert.Equal(t, "msg-9", events[0].Metadata["message_id"])
	assert.Equal(t, "buyer@example.com", h.mailer.sent(t).CustomerEmail)
}

func TestOrderServiceResendConfirmationRequiresPayment(t *testing.T) {
	h := newHarness(t)
	svc := NewOrderService(h.orderRepo, h.eventRepo, h.mailer, h.logger)
	order := testdbOrder(t, h, model.OrderStatusPending)

	_, err := svc.ResendConfirmation(context.Background(), order.ID)
	assert.ErrorIs(t, err, ErrNotConfirmable)
	h.mailer.AssertNotCalled(t, "SendConfirmation", mock.Anything, mock.Anything)
}
