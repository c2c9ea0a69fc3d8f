package dto

import (
	"time"

	"github.com/shopsphere/catalog-service/internal/domain"
)

type ProductResponse struct {
	ID              string                   `json:"id"`
	Name            string                   `json:"name"`
	Description     string                   `json:"description"`
	CategoryID      string                   `json:"category_id"`
	CategoryName    string                   `json:"category_name,omitempty"`
	BrandID         string                   `json:"brand_id,omitempty"`
	BrandName       string                   `json:"brand_name,omitempty"`
	MRP             float64                  `json:"mrp"`
	DiscountedPrice float64                  `json:"discounted_price"`
	Price           float64                  `json:"price"`
	Stock           int64                    `json:"stock"`
	Images          []string                 `json:"images"`
	Discount        domain.Discount          `json:"discount"`
	IsActive        bool                     `json:"is_active"`
	Specifications  map[string]string        `json:"specifications"`
	Ratings         map[string]domain.Rating `json:"ratings,omitempty"`
	OverallRating   float64                  `json:"overall_rating"`
	Keywords        []string                 `json:"keywords"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SearchResponse is the combined search result: category name matches and
// product text matches, returned together.
type SearchResponse struct {
	Categories []CategoryResponse `json:"categories"`
	Products   []ProductResponse  `json:"products"`
}

type RatingResponse struct {
	OverallRating float64 `json:"overall_rating"`
}
