package server

import (
	"context"
	"log/slog"
	"net/http"

	"storefront-backend/internal/dto"
	"storefront-backend/internal/handler"
	authmw "storefront-backend/internal/middleware"
	"storefront-backend/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Options struct {
	WebhookSecret  string
	AdminJWTSecret string
}

type Server struct {
	echo           *echo.Echo
	webhookHandler *handler.WebhookHandler
	orderHandler   *handler.OrderHandler
	adminSecret    string
}

func NewServer(paymentService service.PaymentService, orderService service.OrderService, opts Options, logger *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				logger.Error("request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			logger.Info("request", attrs...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:           e,
		webhookHandler: handler.NewWebhookHandler(paymentService, opts.WebhookSecret, logger),
		orderHandler:   handler.NewOrderHandler(orderService),
		adminSecret:    opts.AdminJWTSecret,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
	})

	// -------- payment processor webhooks --------
	webhooks := api.Group("/webhooks")
	webhooks.POST("/mercadopago", s.webhookHandler.MercadoPagoWebhook)

	// -------- back office --------
	admin := api.Group("/admin", authmw.AdminAuth(s.adminSecret))
	admin.GET("/orders/:id", s.orderHandler.GetOrder)
	admin.GET("/orders/:id/events", s.orderHandler.ListOrderEvents)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
