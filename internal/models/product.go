package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yasinhessnawi1/storefront/internal/constants"
)

// Product is a catalog item owned by exactly one category.
type Product struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Image       string          `json:"image" db:"image"`
	Price       decimal.Decimal `json:"price" db:"price"`
	CategoryID  int64           `json:"category" db:"category_id"`
	Description string          `json:"description" db:"description"`
	CreatedAt   time.Time       `json:"-" db:"created_at"`
}

// TableName returns the database table name for the Product model.
func (p *Product) TableName() string {
	return constants.TableProducts
}

// MarshalJSON renders the price with exactly two decimal places, "12.50" rather than "12.5".
func (p Product) MarshalJSON() ([]byte, error) {
	type alias Product
	return json.Marshal(struct {
		alias
		Price string `json:"price"`
	}{
		alias: alias(p),
		Price: p.Price.StringFixed(constants.PriceDecimalPlaces),
	})
}

// ProductCreate is the body of POST and PUT on products.
type ProductCreate struct {
	Name        string           `json:"name" validate:"required,max=200"`
	Image       string           `json:"image" validate:"required,max=255"`
	Price       *decimal.Decimal `json:"price" validate:"required,money"`
	Category    *int64           `json:"category" validate:"required"`
	Description *string          `json:"description"`
}

// Apply copies every field onto p. A missing description becomes "".
func (in *ProductCreate) Apply(p *Product) {
	p.Name = in.Name
	p.Image = in.Image
	p.Price = *in.Price
	p.CategoryID = *in.Category
	p.Description = ""
	if in.Description != nil {
		p.Description = *in.Description
	}
}

// ProductPatch is the body of PATCH on a product. Nil fields are left unchanged.
type ProductPatch struct {
	Name        *string          `json:"name" validate:"omitnil,min=1,max=200"`
	Image       *string          `json:"image" validate:"omitnil,min=1,max=255"`
	Price       *decimal.Decimal `json:"price" validate:"omitnil,money"`
	Category    *int64           `json:"category"`
	Description *string          `json:"description"`
}

// Apply copies the supplied fields onto p.
func (in *ProductPatch) Apply(p *Product) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Image != nil {
		p.Image = *in.Image
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Category != nil {
		p.CategoryID = *in.Category
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
}
