package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is a single product line in a cart.
type CartItem struct {
	ProductID string       `json:"productId" db:"product_id" bson:"product_id"`
	Quantity  int          `json:"quantity" db:"quantity" bson:"quantity"`
	Product   *ProductView `json:"product,omitempty" db:"-" bson:"-"`
}

// ProductView is the live product detail attached to a cart line.
type ProductView struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Brand     string           `json:"brand"`
	Price     decimal.Decimal  `json:"price"`
	SalePrice *decimal.Decimal `json:"salePrice,omitempty"`
	Image     string           `json:"image,omitempty"`
	InStock   bool             `json:"inStock"`
}

// NewProductView builds a cart-facing view of a product.
func NewProductView(p *Product) *ProductView {
	return &ProductView{
		ID:        p.ID,
		Name:      p.Name,
		Brand:     p.Brand,
		Price:     p.Price,
		SalePrice: p.SalePrice,
		Image:     p.PrimaryImage(),
		InStock:   p.InStock,
	}
}

// Cart is the server-side cart owned by one user.
type Cart struct {
	UserID    string     `json:"userId" db:"user_id" bson:"user_id"`
	Items     []CartItem `json:"items" db:"-" bson:"items"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at" bson:"updated_at"`
}

// AddItemRequest is the payload for adding a product to the cart.
type AddItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  *int   `json:"quantity,omitempty"`
}

// UpdateQuantityRequest is the payload for setting a line quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// MergeCartRequest carries guest cart lines to fold into the server cart.
type MergeCartRequest struct {
	Items []CartLine `json:"items"`
}

// CartLine is a bare (productId, quantity) pair.
type CartLine struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1"`
}

// MergeResult reports the outcome of a guest cart merge.
type MergeResult struct {
	Cart    *Cart    `json:"cart"`
	Skipped []string `json:"skipped,omitempty"`
}
