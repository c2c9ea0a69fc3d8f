package service

import (
	"context"

	"github.com/shopsphere/catalog-service/internal/dto"
	pkgdto "github.com/shopsphere/catalog-service/pkg/dto"
)

type ProductService interface {
	GetProducts(ctx context.Context) (data []dto.ProductResponse, err error)
	GetProductByID(ctx context.Context, id string) (data dto.ProductResponse, err error)
	GetProductsByName(ctx context.Context, name string) (data []dto.ProductResponse, err error)
	SearchProducts(ctx context.Context, query string) (data []dto.ProductResponse, err error)
	SearchEcommerce(ctx context.Context, query string) (data dto.SearchResponse, err error)
	GetProductsByCategory(ctx context.Context, categoryID string) (data []dto.ProductResponse, err error)
	GetProductsByBrand(ctx context.Context, brandID string) (data []dto.ProductResponse, err error)
	FilterProducts(ctx context.Context, req dto.FilterRequest) (data []dto.ProductResponse, err error)
	FilterByBrands(ctx context.Context, brands dto.StringList) (data []dto.ProductResponse, err error)
	FilterByCategories(ctx context.Context, categories dto.StringList) (data []dto.ProductResponse, err error)
	FilterBySizes(ctx context.Context, sizes dto.StringList) (data []dto.ProductResponse, err error)
	FilterByColors(ctx context.Context, colors dto.StringList) (data []dto.ProductResponse, err error)
	GetSimilarProducts(ctx context.Context, id string) (data []dto.ProductResponse, err error)
	RateProduct(ctx context.Context, productID string, userID string, req dto.RatingRequest) (overallRating float64, err error)
	GetOverallRating(ctx context.Context, id string) (overallRating float64, err error)

	AddProduct(ctx context.Context, req dto.ProductRequest) (id string, err error)
	UpdateProduct(ctx context.Context, req dto.ProductRequest) (err error)
	DeleteProduct(ctx context.Context, id string) (err error)
	SetProductStock(ctx context.Context, id string, req dto.StockRequest) (err error)
	AssignDiscount(ctx context.Context, id string, req dto.DiscountRequest) (err error)
	MarkProductUnavailable(ctx context.Context, id string) (err error)
	GetAllProductsAdmin(ctx context.Context, param pkgdto.Filter) (data []dto.ProductResponse, err error)

	ConsumeEvent()
}
