package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a retail item in the catalogue.
type Product struct {
	ID          string           `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"`
	Description string           `json:"description" db:"description"`
	Brand       string           `json:"brand" db:"brand"`
	Category    string           `json:"category" db:"category"`
	Price       decimal.Decimal  `json:"price" db:"price"`
	SalePrice   *decimal.Decimal `json:"salePrice,omitempty" db:"sale_price"`
	Images      []string         `json:"images" db:"images"`
	InStock     bool             `json:"inStock" db:"in_stock"`
	Quantity    int              `json:"quantity" db:"quantity"`
	SKU         string           `json:"sku" db:"sku"`
	Featured    bool             `json:"featured" db:"featured"`
	CreatedAt   time.Time        `json:"createdAt" db:"created_at"`
}

// EffectivePrice is the sale price when one is set, otherwise the list price.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice != nil && p.SalePrice.IsPositive() {
		return *p.SalePrice
	}
	return p.Price
}

// PrimaryImage returns the first image or an empty string.
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// ProductFilter narrows a catalogue listing.
type ProductFilter struct {
	Category string
	Featured bool
	Limit    int
	Offset   int
}

// ToMinorUnits converts a decimal currency amount to integer cents, rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// FromMinorUnits converts integer cents back to a decimal currency amount.
func FromMinorUnits(amount int64) decimal.Decimal {
	return decimal.New(amount, -2)
}
