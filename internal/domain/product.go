package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Specification keys the filter endpoints know about. Anything else in the
// specifications map is carried but never filtered on.
const (
	SpecSize  = "size"
	SpecColor = "color"
	SpecBrand = "brand"
)

// Rating is a single user's score for a product. Ratings are embedded in the
// product document keyed by the rater's user ID, so a user can never hold more
// than one entry per product.
type Rating struct {
	Rating float64 `bson:"rating" json:"rating"`
	Review string  `bson:"review,omitempty" json:"review,omitempty"`
}

type Discount struct {
	Percentage float64    `bson:"percentage" json:"percentage"`
	ValidTill  *time.Time `bson:"valid_till,omitempty" json:"valid_till,omitempty"`
}

type Product struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name            string              `bson:"name" json:"name"`
	Description     string              `bson:"description" json:"description"`
	Category        primitive.ObjectID  `bson:"category" json:"category"`
	Brand           *primitive.ObjectID `bson:"brand,omitempty" json:"brand,omitempty"`
	MRP             float64             `bson:"mrp" json:"mrp"`
	DiscountedPrice float64             `bson:"discounted_price" json:"discounted_price"`
	Price           float64             `bson:"price" json:"price"`
	Stock           int64               `bson:"stock" json:"stock"`
	Images          []string            `bson:"images" json:"images"`
	Discount        Discount            `bson:"discount" json:"discount"`
	IsActive        bool                `bson:"is_active" json:"is_active"`
	Specifications  map[string]string   `bson:"specifications" json:"specifications"`
	Ratings         map[string]Rating   `bson:"ratings" json:"ratings"`
	OverallRating   float64             `bson:"overall_rating" json:"overall_rating"`
	Keywords        []string            `bson:"keywords" json:"keywords"`
	CreatedAt       time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time           `bson:"updated_at" json:"updated_at"`
}

type Category struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

type Brand struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Image     string             `bson:"image" json:"image"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
