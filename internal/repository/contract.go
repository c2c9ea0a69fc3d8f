package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopsphere/catalog-service/internal/domain"
	pkgdto "github.com/shopsphere/catalog-service/pkg/dto"
)

type MongoDBProductRepository interface {
	AddProduct(ctx context.Context, data domain.Product) (id primitive.ObjectID, err error)
	GetProducts(ctx context.Context, param pkgdto.Filter) (data []domain.Product, err error)
	GetActiveProducts(ctx context.Context) (data []domain.Product, err error)
	GetProductByID(ctx context.Context, id string) (product domain.Product, err error)
	GetProductsByName(ctx context.Context, fragment string) (data []domain.Product, err error)
	SearchProducts(ctx context.Context, query string) (data []domain.Product, err error)
	GetProductsByCategory(ctx context.Context, categoryID primitive.ObjectID) (data []domain.Product, err error)
	GetProductsByBrand(ctx context.Context, brandID primitive.ObjectID) (data []domain.Product, err error)
	FilterProducts(ctx context.Context, categoryID *primitive.ObjectID, brandText string) (data []domain.Product, err error)
	GetProductsByBrandIDs(ctx context.Context, ids []primitive.ObjectID) (data []domain.Product, err error)
	GetProductsByCategoryIDs(ctx context.Context, ids []primitive.ObjectID) (data []domain.Product, err error)
	GetProductsBySpec(ctx context.Context, key string, values []string) (data []domain.Product, err error)
	GetSimilarProducts(ctx context.Context, ref domain.Product, limit int64) (data []domain.Product, err error)
	ReplaceProduct(ctx context.Context, data domain.Product) (err error)
	UpdateProduct(ctx context.Context, data domain.Product) (err error)
	SetProductStock(ctx context.Context, id primitive.ObjectID, stock int64) (err error)
	IncrementProductStock(ctx context.Context, id primitive.ObjectID, delta int64) (err error)
	SetProductDiscount(ctx context.Context, id primitive.ObjectID, discount domain.Discount) (err error)
	SetProductActive(ctx context.Context, id primitive.ObjectID, active bool) (err error)
	DeleteProduct(ctx context.Context, id string) (err error)
	SearchCategories(ctx context.Context, query string) (data []domain.Category, err error)
	GetCategoriesByIDs(ctx context.Context, ids []primitive.ObjectID) (data []domain.Category, err error)
	GetBrandsByIDs(ctx context.Context, ids []primitive.ObjectID) (data []domain.Brand, err error)
	HandleTrx(ctx context.Context, fn func(ctx context.Context) error) error
}
