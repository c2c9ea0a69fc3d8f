package dto

import "time"

type ProductRequest struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	CategoryID      string            `json:"category_id"`
	BrandID         string            `json:"brand_id"`
	MRP             float64           `json:"mrp"`
	DiscountedPrice float64           `json:"discounted_price"`
	Price           float64           `json:"price"`
	Stock           int64             `json:"stock"`
	Images          []string          `json:"images"`
	Specifications  map[string]string `json:"specifications"`
	Keywords        []string          `json:"keywords"`
}

type RatingRequest struct {
	Rating float64 `json:"rating"`
	Review string  `json:"review"`
}

type StockRequest struct {
	Stock int64 `json:"stock"`
}

type DiscountRequest struct {
	Percentage float64    `json:"percentage"`
	ValidTill  *time.Time `json:"valid_till"`
}

// FilterRequest carries the optional criteria of the generic filter endpoint.
// Brand here is matched against the specifications brand text, not the brand
// reference.
type FilterRequest struct {
	Category string `query:"category"`
	Brand    string `query:"brand"`
}

type BrandFilterRequest struct {
	Brands StringList `json:"brands"`
}

type CategoryFilterRequest struct {
	Categories StringList `json:"categories"`
}

type SizeFilterRequest struct {
	Sizes StringList `json:"sizes"`
}

type ColorFilterRequest struct {
	Colors StringList `json:"colors"`
}
