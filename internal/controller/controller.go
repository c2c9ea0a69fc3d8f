package controller

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/shopsphere/catalog-service/internal/dto"
	"github.com/shopsphere/catalog-service/internal/service"
	pkgdto "github.com/shopsphere/catalog-service/pkg/dto"
	"github.com/shopsphere/catalog-service/pkg/response"
	"github.com/shopsphere/catalog-service/pkg/utils"
)

type Controller struct {
	service service.ProductService
}

func CreateProductController(e *echo.Group, service service.ProductService, isLoggedIn echo.MiddlewareFunc) {
	c := Controller{
		service: service,
	}

	products := e.Group("/products")
	products.GET("/all", c.GetProducts)
	products.GET("/id/:id", c.GetProductByID)
	products.GET("/name/:name", c.GetProductsByName)
	products.GET("/search", c.SearchProducts)
	products.GET("/search-ecommerce", c.SearchEcommerce)
	products.GET("/category/:categoryId", c.GetProductsByCategory)
	products.GET("/brand/:brandId", c.GetProductsByBrand)
	products.GET("/filter", c.FilterProducts)
	products.GET("/rating/:id", c.GetOverallRating)
	products.GET("/similar/:id", c.GetSimilarProducts)
	products.POST("/filter/brand", c.FilterByBrands)
	products.POST("/filter/category", c.FilterByCategories)
	products.POST("/filter/size", c.FilterBySizes)
	products.POST("/filter/color", c.FilterByColors)
	products.POST("/rate/:id", c.RateProduct, isLoggedIn)

	admin := e.Group("/admin/products", isLoggedIn)
	admin.POST("", c.AddProduct)
	admin.PUT("/:id", c.UpdateProduct)
	admin.DELETE("/:id", c.DeleteProduct)
	admin.PATCH("/:id/stock", c.SetProductStock)
	admin.PATCH("/:id/discount", c.AssignDiscount)
	admin.PATCH("/:id/unavailable", c.MarkProductUnavailable)
	admin.GET("/all", c.GetAllProductsAdmin)
}

func (c *Controller) GetProducts(e echo.Context) error {
	data, err := c.service.GetProducts(e.Request().Context())
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Products fetched successfully.", data)
}

func (c *Controller) GetProductByID(e echo.Context) error {
	id := e.Param("id")

	data, err := c.service.GetProductByID(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Product fetched successfully.", data)
}

func (c *Controller) GetProductsByName(e echo.Context) error {
	name := e.Param("name")

	data, err := c.service.GetProductsByName(e.Request().Context(), name)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Products fetched successfully.", data)
}

func (c *Controller) SearchProducts(e echo.Context) error {
	query := e.QueryParam("query")

	data, err := c.service.SearchProducts(e.Request().Context(), query)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Products fetched successfully.", data)
}

func (c *Controller) SearchEcommerce(e echo.Context) error {
	query := e.QueryParam("query")

	data, err := c.service.SearchEcommerce(e.Request().Context(), query)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Search results retrieved successfully", data)
}

func (c *Controller) GetProductsByCategory(e echo.Context) error {
	categoryID := e.Param("categoryId")

	data, err := c.service.GetProductsByCategory(e.Request().Context(), categoryID)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Products fetched successfully.", data)
}

func (c *Controller) GetProductsByBrand(e echo.Context) error {
	brandID := e.Param("brandId")

	data, err := c.service.GetProductsByBrand(e.Request().Context(), brandID)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Products retrieved successfully", data)
}

func (c *Controller) FilterProducts(e echo.Context) error {
	payload := dto.FilterRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "FilterProducts").Msg("")
	}

	data, err := c.service.FilterProducts(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Products fetched successfully.", data)
}

func (c *Controller) GetOverallRating(e echo.Context) error {
	id := e.Param("id")

	overallRating, err := c.service.GetOverallRating(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Overall rating fetched successfully", dto.RatingResponse{OverallRating: overallRating})
}

func (c *Controller) GetSimilarProducts(e echo.Context) error {
	id := e.Param("id")

	data, err := c.service.GetSimilarProducts(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Similar products fetched successfully.", data)
}

func (c *Controller) FilterByBrands(e echo.Context) error {
	payload := dto.BrandFilterRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "FilterByBrands").Msg("")
	}

	data, err := c.service.FilterByBrands(e.Request().Context(), payload.Brands)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Filtered products by brand", data)
}

func (c *Controller) FilterByCategories(e echo.Context) error {
	payload := dto.CategoryFilterRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "FilterByCategories").Msg("")
	}

	data, err := c.service.FilterByCategories(e.Request().Context(), payload.Categories)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Filtered products by category", data)
}

func (c *Controller) FilterBySizes(e echo.Context) error {
	payload := dto.SizeFilterRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "FilterBySizes").Msg("")
	}

	data, err := c.service.FilterBySizes(e.Request().Context(), payload.Sizes)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Filtered products by size", data)
}

func (c *Controller) FilterByColors(e echo.Context) error {
	payload := dto.ColorFilterRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "FilterByColors").Msg("")
	}

	data, err := c.service.FilterByColors(e.Request().Context(), payload.Colors)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Filtered products by color", data)
}

func (c *Controller) RateProduct(e echo.Context) error {
	id := e.Param("id")
	userID, _ := utils.ExtractTokenUser(e)

	payload := dto.RatingRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "RateProduct").Msg("")
	}

	overallRating, err := c.service.RateProduct(e.Request().Context(), id, userID, payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Product rated successfully", dto.RatingResponse{OverallRating: overallRating})
}

func (c *Controller) AddProduct(e echo.Context) error {
	payload := dto.ProductRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "AddProduct").Msg("")
	}

	id, err := c.service.AddProduct(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Product added successfully.", map[string]string{"id": id})
}

func (c *Controller) UpdateProduct(e echo.Context) error {
	id := e.Param("id")
	payload := dto.ProductRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateProduct").Msg("")
	}

	payload.ID = id
	err = c.service.UpdateProduct(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Product updated successfully.", nil)
}

func (c *Controller) DeleteProduct(e echo.Context) error {
	id := e.Param("id")

	err := c.service.DeleteProduct(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Product deleted successfully.", nil)
}

func (c *Controller) SetProductStock(e echo.Context) error {
	id := e.Param("id")
	payload := dto.StockRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "SetProductStock").Msg("")
	}

	err = c.service.SetProductStock(e.Request().Context(), id, payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Stock updated successfully.", nil)
}

func (c *Controller) AssignDiscount(e echo.Context) error {
	id := e.Param("id")
	payload := dto.DiscountRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "AssignDiscount").Msg("")
	}

	err = c.service.AssignDiscount(e.Request().Context(), id, payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Discount assigned successfully.", nil)
}

func (c *Controller) MarkProductUnavailable(e echo.Context) error {
	id := e.Param("id")

	err := c.service.MarkProductUnavailable(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Product marked unavailable.", nil)
}

func (c *Controller) GetAllProductsAdmin(e echo.Context) error {
	param := pkgdto.Filter{}
	err := e.Bind(&param)
	if err != nil {
		log.Error().Err(err).Str("component", "GetAllProductsAdmin").Msg("")
	}

	data, err := c.service.GetAllProductsAdmin(e.Request().Context(), param)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Products fetched successfully.", data)
}
