package model

import "github.com/shopspring/decimal"

type ConfirmationEmail struct {
	OrderID       string
	OrderNumber   string
	CustomerName  string
	CustomerEmail string
	Total         decimal.Decimal
	TrackingCode  string
	Items         []ConfirmationItem
}

type ConfirmationItem struct {
	ProductName  string
	VariantLabel string // "M / Negro"
	Quantity     int32
	UnitPrice    decimal.Decimal
}
