package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalonService is a bookable salon treatment.
type SalonService struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Category    string          `json:"category" db:"category"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Duration    int             `json:"duration" db:"duration"`
	Featured    bool            `json:"featured" db:"featured"`
	Images      []string        `json:"images" db:"images"`
	Stylist     *string         `json:"stylist,omitempty" db:"stylist"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// SalonServiceCategories lists the accepted service categories.
var SalonServiceCategories = []string{"hair", "makeup", "skincare", "nails", "spa"}

// SalonServiceFilter narrows a service listing.
type SalonServiceFilter struct {
	Category string
	Featured bool
}
