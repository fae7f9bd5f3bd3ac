package models

import (
	"time"

	"github.com/yasinhessnawi1/storefront/internal/constants"
)

// Category groups products in the catalog. Products is populated on reads
// and ignored on writes.
type Category struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Image     string    `json:"image" db:"image"`
	Products  []Product `json:"products"`
	CreatedAt time.Time `json:"-" db:"created_at"`
}

// TableName returns the database table name for the Category model.
func (c *Category) TableName() string {
	return constants.TableCategories
}

// CategoryCreate is the body of POST and PUT on categories.
type CategoryCreate struct {
	Name  string `json:"name" validate:"required,max=100"`
	Image string `json:"image" validate:"required,max=255"`
}

// CategoryPatch is the body of PATCH on a category. Nil fields are left unchanged.
type CategoryPatch struct {
	Name  *string `json:"name" validate:"omitnil,min=1,max=100"`
	Image *string `json:"image" validate:"omitnil,min=1,max=255"`
}

// Apply copies the supplied fields onto c.
func (p *CategoryPatch) Apply(c *Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Image != nil {
		c.Image = *p.Image
	}
}

// Apply copies every field onto c.
func (in *CategoryCreate) Apply(c *Category) {
	c.Name = in.Name
	c.Image = in.Image
}
