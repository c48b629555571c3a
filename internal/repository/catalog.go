package repository

import (
	"context"
	"fmt"

	"storefront-backend/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedData is a consistent set of catalog, customer and order rows.
type SeedData struct {
	Profiles []*model.Profile
	Products []*model.Product
	Variants []*model.ProductVariant
	Orders   []*model.Order
}

type CatalogRepository interface {
	// Seed inserts every row of data, leaving rows whose primary key already exists untouched.
	Seed(ctx context.Context, data *SeedData) error
	FindVariant(ctx context.Context, variantID string) (*model.ProductVariant, error)
}

type catalogRepoImpl struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepoImpl{db: db}
}

func (r *catalogRepoImpl) Seed(ctx context.Context, data *SeedData) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ignore := func() *gorm.DB { return tx.Clauses(clause.OnConflict{DoNothing: true}) }

		for _, p := range data.Profiles {
			if err := ignore().Create(p).Error; err != nil {
				return fmt.Errorf("seed profile %s: %w", p.ID, err)
			}
		}
		for _, p := range data.Products {
			if err := ignore().Create(p).Error; err != nil {
				return fmt.Errorf("seed product %s: %w", p.ID, err)
			}
		}
		for _, v := range data.Variants {
			if err := ignore().Create(v).Error; err != nil {
				return fmt.Errorf("seed variant %s: %w", v.ID, err)
			}
		}
		for _, o := range data.Orders {
			items := o.Items
			o.Items = nil
			res := ignore().Create(o)
			o.Items = items
			if res.Error != nil {
				return fmt.Errorf("seed order %s: %w", o.ID, res.Error)
			}
			// items only go in with a freshly created order
			if res.RowsAffected == 0 || len(items) == 0 {
				continue
			}
			for i := range items {
				items[i].OrderID = o.ID
			}
			if err := tx.Create(&items).Error; err != nil {
				return fmt.Errorf("seed order items %s: %w", o.ID, err)
			}
		}
		return nil
	})
}

func (r *catalogRepoImpl) FindVariant(ctx context.Context, variantID string) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("id = ?", variantID).
		First(&variant).Error
	if err != nil {
		return nil, translate(err)
	}

	return &variant, nil
}

// DemoSeed returns the demo storefront: one customer, two products with sized variants and a
// pending order for each processor fixture reference.
func DemoSeed() *SeedData {
	price := decimal.RequireFromString("89.90")
	shipping := decimal.RequireFromString("10.00")

	return &SeedData{
		Profiles: []*model.Profile{
			{ID: "demo-customer", FullName: "Lucía Fernández", Email: "lucia@example.com"},
		},
		Products: []*model.Product{
			{ID: "prod-lace-bralette", Name: "Bralette de encaje"},
			{ID: "prod-silk-robe", Name: "Bata de seda"},
		},
		Variants: []*model.ProductVariant{
			{ID: "var-lace-s-black", ProductID: "prod-lace-bralette", Size: "S", Color: "Negro", SKU: "LACE-S-BLK", Stock: 12},
			{ID: "var-lace-m-black", ProductID: "prod-lace-bralette", Size: "M", Color: "Negro", SKU: "LACE-M-BLK", Stock: 8},
			{ID: "var-robe-u-ivory", ProductID: "prod-silk-robe", Size: "U", Color: "Marfil", SKU: "ROBE-U-IVR", Stock: 4},
		},
		Orders: []*model.Order{
			{
				ID:                "demo-order-001",
				OrderNumber:       "1001",
				UserID:            "demo-customer",
				CustomerEmail:     "lucia@example.com",
				Status:            model.OrderStatusPending,
				Subtotal:          price.Mul(decimal.NewFromInt(2)),
				ShippingCost:      shipping,
				Discount:          decimal.Zero,
				Total:             price.Mul(decimal.NewFromInt(2)).Add(shipping),
				ShippingMethod:    "standard",
				ExternalReference: "TEST-ORDER-001",
				Items: []model.OrderItem{
					{ProductID: "prod-lace-bralette", VariantID: "var-lace-m-black", Quantity: 2, UnitPrice: price, ProductName: "Bralette de encaje", Size: "M", Color: "Negro", SKU: "LACE-M-BLK"},
				},
			},
			{
				ID:                "demo-order-002",
				OrderNumber:       "1002",
				UserID:            "demo-customer",
				CustomerEmail:     "lucia@example.com",
				Status:            model.OrderStatusPending,
				Subtotal:          decimal.RequireFromString("149.00"),
				ShippingCost:      decimal.Zero,
				Discount:          decimal.Zero,
				Total:             decimal.RequireFromString("149.00"),
				ShippingMethod:    "pickup",
				ExternalReference: "TEST-ORDER-002",
				Items: []model.OrderItem{
					{ProductID: "prod-silk-robe", VariantID: "var-robe-u-ivory", Quantity: 1, UnitPrice: decimal.RequireFromString("149.00"), ProductName: "Bata de seda", Size: "U", Color: "Marfil", SKU: "ROBE-U-IVR"},
				},
			},
		},
	}
}
