package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	Database    Database `envPrefix:"DATABASE_"`

	// PaymentProvider selects the payment lookup: mercadopago or braintree.
	PaymentProvider string `env:"PAYMENT_PROVIDER" envDefault:"mercadopago"`

	MercadoPago MercadoPago `envPrefix:"MERCADOPAGO_"`
	Braintree   Braintree   `envPrefix:"BRAINTREE_"`
	Email       Email       `envPrefix:"EMAIL_"`
	Admin       Admin       `envPrefix:"ADMIN_"`
	Retry       Retry       `envPrefix:"RETRY_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

func (e Environment) IsProduction() bool {
	return e.Name == "production"
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

type Database struct {
	Driver string `env:"DRIVER" envDefault:"mysql"` // mysql, postgres, sqlite
	URL    string `env:"URL"`

	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"50"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"1h"`
}

type MercadoPago struct {
	BaseApiURL      string `env:"BASE_API_URL" envDefault:"https://api.mercadopago.com"`
	AccessToken     string `env:"ACCESS_TOKEN"`
	TestAccessToken string `env:"TEST_ACCESS_TOKEN"`
	WebhookSecret   string `env:"WEBHOOK_SECRET"`
	TestMode        bool   `env:"TEST_MODE" envDefault:"false"`
}

// Token returns the production token in production and the test token everywhere else.
func (m MercadoPago) Token(env Environment) string {
	if env.IsProduction() {
		return m.AccessToken
	}
	return m.TestAccessToken
}

type Braintree struct {
	Environment string `env:"ENVIRONMENT"`
	MerchantID  string `env:"MERCHANT_ID"`
	PublicKey   string `env:"PUBLIC_KEY"`
	PrivateKey  string `env:"PRIVATE_KEY"`
}

type Email struct {
	Provider       string `env:"PROVIDER" envDefault:"log"` // sendgrid, log
	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
	FromAddress    string `env:"FROM_ADDRESS" envDefault:"pedidos@example.com"`
	FromName       string `env:"FROM_NAME" envDefault:"Storefront"`
}

type Admin struct {
	JWTSecret string `env:"JWT_SECRET"`
}

type Retry struct {
	InitialInterval time.Duration `env:"INITIAL_INTERVAL" envDefault:"500ms"`
	MaxInterval     time.Duration `env:"MAX_INTERVAL" envDefault:"10s"`
	Multiplier      float64       `env:"MULTIPLIER" envDefault:"2"`
	MaxAttempts     uint64        `env:"MAX_ATTEMPTS" envDefault:"5"`
	TaskTimeout     time.Duration `env:"TASK_TIMEOUT" envDefault:"30s"`
}
