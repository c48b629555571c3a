package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type Order struct {
	ID                string          `gorm:"primaryKey;size:64;not null" json:"id"`
	OrderNumber       string          `gorm:"size:32;uniqueIndex;not null" json:"order_number"`
	UserID            string          `gorm:"size:64;index" json:"user_id"`
	CustomerEmail     string          `gorm:"size:255" json:"customer_email"`
	Status            OrderStatus     `gorm:"size:32;index;not null" json:"status"`
	Subtotal          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	ShippingCost      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"shipping_cost"`
	Discount          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount"`
	Total             decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	CouponCode        string          `gorm:"size:64" json:"coupon_code,omitempty"`
	ShippingMethod    string          `gorm:"size:64" json:"shipping_method,omitempty"`
	PaymentID         string          `gorm:"size:64;index" json:"payment_id,omitempty"`
	PaymentMethod     string          `gorm:"size:64" json:"payment_method,omitempty"`
	PaymentStatus     string          `gorm:"size:64" json:"payment_status,omitempty"`
	ExternalReference string          `gorm:"size:128;uniqueIndex;not null" json:"external_reference"`
	TrackingCode      string          `gorm:"size:128" json:"tracking_code,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	Profile *Profile    `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	Items   []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// OrderItem is written once at checkout and never updated; name, size, color and sku are
// snapshots of the catalog at purchase time.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderID     string          `gorm:"size:64;index;not null" json:"order_id"`
	ProductID   string          `gorm:"size:64;index;not null" json:"product_id"`
	VariantID   string          `gorm:"size:64;index;not null" json:"variant_id"`
	Quantity    int32           `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	ProductName string          `gorm:"size:255" json:"product_name"`
	Size        string          `gorm:"size:32" json:"size,omitempty"`
	Color       string          `gorm:"size:64" json:"color,omitempty"`
	SKU         string          `gorm:"size:64" json:"sku,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`

	Variant *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
}

type EventType string

const (
	EventStatusChanged    EventType = "status_changed"
	EventPaymentConfirmed EventType = "payment_confirmed"
	EventEmailSent        EventType = "email_sent"
)

// OrderEvent is an append-only audit entry.
type OrderEvent struct {
	ID             string    `gorm:"primaryKey;size:64;not null" json:"id"`
	OrderID        string    `gorm:"size:64;index;not null" json:"order_id"`
	EventType      EventType `gorm:"size:32;index;not null" json:"event_type"`
	Description    string    `gorm:"size:512" json:"description"`
	Metadata       Metadata  `gorm:"type:text" json:"metadata"`
	IdempotencyKey string    `gorm:"size:128;uniqueIndex" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// Metadata is stored as a JSON object.
type Metadata map[string]string

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *Metadata) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*m = Metadata{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("scan metadata: unsupported type %T", value)
	}

	out := Metadata{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return fmt.Errorf("scan metadata: %w", err)
		}
	}
	*m = out
	return nil
}
