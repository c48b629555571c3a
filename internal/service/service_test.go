package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"storefront-backend/internal/client"
	"storefront-backend/internal/config"
	"storefront-backend/internal/dispatch"
	"storefront-backend/internal/model"
	"storefront-backend/internal/repository"
	"storefront-backend/internal/testdb"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendConfirmation(ctx context.Context, email *model.ConfirmationEmail) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *mockMailer) sent(t *testing.T) *model.ConfirmationEmail {
	t.Helper()
	require.NotEmpty(t, m.Calls)
	return m.Calls[0].Arguments.Get(1).(*model.ConfirmationEmail)
}

type lookupFunc func(ctx context.Context, paymentID string) (*model.Payment, error)

func (f lookupFunc) GetPayment(ctx context.Context, paymentID string) (*model.Payment, error) {
	return f(ctx, paymentID)
}

type harness struct {
	db         *gorm.DB
	mailer     *mockMailer
	dispatcher dispatch.Dispatcher
	orderRepo  repository.OrderRepository
	eventRepo  repository.OrderEventRepository
	stockRepo  repository.StockRepository
	logger     *slog.Logger
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db := testdb.Open(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &harness{
		db:     db,
		mailer: &mockMailer{},
		dispatcher: dispatch.NewDispatcher(config.Retry{
			InitialInterval: time.Millisecond,
			MaxInterval:     2 * time.Millisecond,
			Multiplier:      2,
			MaxAttempts:     3,
			TaskTimeout:     time.Second,
		}, logger),
		orderRepo: repository.NewOrderRepository(db),
		eventRepo: repository.NewOrderEventRepository(db),
		stockRepo: repository.NewStockRepository(db),
		logger:    logger,
	}
}

func (h *harness) paymentService(payments client.PaymentLookup) PaymentService {
	return NewPaymentService(h.db, payments, h.mailer, h.dispatcher, h.orderRepo, h.eventRepo, h.stockRepo, h.logger)
}

// paymentFor answers paymentID with a payment in status for the given order.
func paymentFor(paymentID, status string, order *model.Order) client.PaymentLookup {
	return client.NewFixturePaymentLookup(map[string]model.Payment{
		paymentID: {
			ID:                paymentID,
			Status:            status,
			StatusDetail:      "accredited",
			ExternalReference: order.ExternalReference,
			PaymentMethodID:   "visa",
			Payer:             model.Payer{Email: "payer@example.com"},
		},
	}, nil)
}

func (h *harness) reload(t *testing.T, orderID string) *model.Order {
	t.Helper()
	order, err := h.orderRepo.FindByID(context.Background(), orderID)
	require.NoError(t, err)
	return order
}

func (h *harness) events(t *testing.T, orderID string) []*model.OrderEvent {
	t.Helper()
	events, err := h.eventRepo.ListByOrder(context.Background(), orderID)
	require.NoError(t, err)
	return events
}

func (h *harness) stock(t *testing.T, variantID string) int32 {
	t.Helper()
	variant, err := h.stockRepo.Get(context.Background(), variantID)
	require.NoError(t, err)
	return variant.Stock
}

func testdbVariant(t *testing.T, h *harness, stock int32) *model.ProductVariant {
	return testdb.Variant(t, h.db, stock)
}

// testdbOrder creates an order with two units of every variant.
func testdbOrder(t *testing.T, h *harness, status model.OrderStatus, variants ...*model.ProductVariant) *model.Order {
	return testdb.Order(t, h.db, status, 2, variants...)
}
