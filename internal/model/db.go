package model

import "time"

type Profile struct {
	ID        string `gorm:"primaryKey;size:64;not null" json:"id"`
	FullName  string `gorm:"size:255" json:"full_name"`
	Email     string `gorm:"size:255;index" json:"email"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Product struct {
	ID        string `gorm:"primaryKey;size:64;not null" json:"id"`
	Name      string `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ProductVariant struct {
	ID        string `gorm:"primaryKey;size:64;not null" json:"id"`
	ProductID string `gorm:"size:64;index;not null" json:"product_id"`
	Size      string `gorm:"size:32" json:"size"`
	Color     string `gorm:"size:64" json:"color"`
	SKU       string `gorm:"size:64;uniqueIndex" json:"sku"`
	Stock     int32  `gorm:"not null" json:"stock"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// Tables lists every record migrated at startup.
func Tables() []any {
	return []any{
		&Profile{},
		&Product{},
		&ProductVariant{},
		&Order{},
		&OrderItem{},
		&OrderEvent{},
	}
}
