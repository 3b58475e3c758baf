package catalog

import (
	"math"
	"time"
)

type Product struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	PriceCents         int64     `json:"price_cents"`
	DiscountPercentage float64   `json:"discount_percentage"`
	Rating             float64   `json:"rating"`
	Stock              int       `json:"stock"`
	Thumbnail          string    `json:"thumbnail"`
	IsActive           bool      `json:"is_active"`
	Slug               string    `json:"slug"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// DiscountedPriceCents applies the discount percentage, rounded to the
// nearest cent.
func (p Product) DiscountedPriceCents() int64 {
	if p.DiscountPercentage <= 0 {
		return p.PriceCents
	}
	return int64(math.Round(float64(p.PriceCents) * (1 - p.DiscountPercentage/100)))
}

// ProductInput carries the writable fields for create and update. Update is a
// full replace of these fields, matching the admin edit form.
type ProductInput struct {
	Title              string
	Description        string
	PriceCents         int64
	DiscountPercentage float64
	Rating             float64
	Stock              int
	Thumbnail          string
	IsActive           bool
	Slug               string
}
