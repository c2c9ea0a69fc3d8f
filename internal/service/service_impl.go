package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopsphere/catalog-service/config"
	"github.com/shopsphere/catalog-service/internal/domain"
	"github.com/shopsphere/catalog-service/internal/dto"
	"github.com/shopsphere/catalog-service/internal/repository"
	pkgdto "github.com/shopsphere/catalog-service/pkg/dto"
	"github.com/shopsphere/catalog-service/pkg/errs"
)

const similarProductsLimit = 10

// KafkaWriter is satisfied by *kafka.Conn.
type KafkaWriter interface {
	WriteMessages(msgs ...kafka.Message) (int, error)
}

type ProductServiceImpl struct {
	mongoDBRepo   repository.MongoDBProductRepository
	config        config.Config
	kafkaReader   *kafka.Reader
	kafkaProducer KafkaWriter
}

func CreateProductService(mongoDBRepo repository.MongoDBProductRepository, config config.Config, kafkaReader *kafka.Reader, kafkaProducer KafkaWriter) ProductService {
	return &ProductServiceImpl{mongoDBRepo: mongoDBRepo, config: config, kafkaReader: kafkaReader, kafkaProducer: kafkaProducer}
}

// computeOverallRating derives the mean of all embedded ratings rounded to one
// decimal place, or 0 when there are none. The stored value is always
// recomputed wholesale, never patched incrementally.
func computeOverallRating(ratings map[string]domain.Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}

	var total float64
	for _, rating := range ratings {
		total += rating.Rating
	}

	return math.Round(total/float64(len(ratings))*10) / 10
}

func toProductResponse(product domain.Product) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:              product.ID.Hex(),
		Name:            product.Name,
		Description:     product.Description,
		CategoryID:      product.Category.Hex(),
		MRP:             product.MRP,
		DiscountedPrice: product.DiscountedPrice,
		Price:           product.Price,
		Stock:           product.Stock,
		Images:          product.Images,
		Discount:        product.Discount,
		IsActive:        product.IsActive,
		Specifications:  product.Specifications,
		Ratings:         product.Ratings,
		OverallRating:   product.OverallRating,
		Keywords:        product.Keywords,
		CreatedAt:       product.CreatedAt,
		UpdatedAt:       product.UpdatedAt,
	}

	if product.Brand != nil {
		resp.BrandID = product.Brand.Hex()
	}

	return resp
}

func toProductResponses(products []domain.Product) []dto.ProductResponse {
	data := make([]dto.ProductResponse, 0, len(products))
	for _, product := range products {
		data = append(data, toProductResponse(product))
	}
	return data
}

// expandProductResponses resolves the category and brand references of the
// result set so responses carry names instead of bare identifiers.
func (s *ProductServiceImpl) expandProductResponses(ctx context.Context, products []domain.Product) (data []dto.ProductResponse, err error) {
	categoryIDSet := make(map[primitive.ObjectID]struct{})
	brandIDSet := make(map[primitive.ObjectID]struct{})
	for _, product := range products {
		categoryIDSet[product.Category] = struct{}{}
		if product.Brand != nil {
			brandIDSet[*product.Brand] = struct{}{}
		}
	}

	categoryIDs := make([]primitive.ObjectID, 0, len(categoryIDSet))
	for id := range categoryIDSet {
		categoryIDs = append(categoryIDs, id)
	}

	brandIDs := make([]primitive.ObjectID, 0, len(brandIDSet))
	for id := range brandIDSet {
		brandIDs = append(brandIDs, id)
	}

	categories, err := s.mongoDBRepo.GetCategoriesByIDs(ctx, categoryIDs)
	if err != nil {
		return
	}

	brands, err := s.mongoDBRepo.GetBrandsByIDs(ctx, brandIDs)
	if err != nil {
		return
	}

	categoryNames := make(map[primitive.ObjectID]string, len(categories))
	for _, category := range categories {
		categoryNames[category.ID] = category.Name
	}

	brandNames := make(map[primitive.ObjectID]string, len(brands))
	for _, brand := range brands {
		brandNames[brand.ID] = brand.Name
	}

	data = make([]dto.ProductResponse, 0, len(products))
	for _, product := range products {
		resp := toProductResponse(product)
		resp.CategoryName = categoryNames[product.Category]
		if product.Brand != nil {
			resp.BrandName = brandNames[*product.Brand]
		}
		data = append(data, resp)
	}

	return data, nil
}

func (s *ProductServiceImpl) GetProducts(ctx context.Context) (data []dto.ProductResponse, err error) {
	products, err := s.mongoDBRepo.GetActiveProducts(ctx)
	if err != nil {
		return
	}

	return s.expandProductResponses(ctx, products)
}

func (s *ProductServiceImpl) GetProductByID(ctx context.Context, id string) (data dto.ProductResponse, err error) {
	product, err := s.mongoDBRepo.GetProductByID(ctx, id)
	if err != nil {
		return
	}

	expanded, err := s.expandProductResponses(ctx, []domain.Product{product})
	if err != nil {
		return
	}

	return expanded[0], nil
}

func (s *ProductServiceImpl) GetProductsByName(ctx context.Context, name string) (data []dto.ProductResponse, err error) {
	products, err := s.mongoDBRepo.GetProductsByName(ctx, name)
	if err != nil {
		return
	}

	return toProductResponses(products), nil
}

func (s *ProductServiceImpl) SearchProducts(ctx context.Context, query string) (data []dto.ProductResponse, err error) {
	products, err := s.mongoDBRepo.SearchProducts(ctx, query)
	if err != nil {
		return
	}

	return toProductResponses(products), nil
}

// SearchEcommerce runs the category-name search and the product text search
// concurrently and joins on completion. Either sub-query failing fails the
// whole operation.
func (s *ProductServiceImpl) SearchEcommerce(ctx context.Context, query string) (data dto.SearchResponse, err error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return data, errs.ErrClient
	}

	type categoryResult struct {
		data []domain.Category
		err  error
	}

	categoryCh := make(chan categoryResult, 1)
	go func() {
		categories, categoryErr := s.mongoDBRepo.SearchCategories(ctx, query)
		categoryCh <- categoryResult{data: categories, err: categoryErr}
	}()

	products, err := s.mongoDBRepo.SearchProducts(ctx, query)
	categories := <-categoryCh
	if err != nil {
		return data, err
	}
	if categories.err != nil {
		return data, categories.err
	}

	data.Categories = make([]dto.CategoryResponse, 0, len(categories.data))
	for _, category := range categories.data {
		data.Categories = append(data.Categories, dto.CategoryResponse{ID: category.ID.Hex(), Name: category.Name})
	}
	data.Products = toProductResponses(products)

	return data, nil
}

func (s *ProductServiceImpl) GetProductsByCategory(ctx context.Context, categoryID string) (data []dto.ProductResponse, err error) {
	id, err := primitive.ObjectIDFromHex(categoryID)
	if err != nil {
		return nil, errs.ErrNotFound
	}

	products, err := s.mongoDBRepo.GetProductsByCategory(ctx, id)
	if err != nil {
		return
	}

	return s.expandProductResponses(ctx, products)
}

func (s *ProductServiceImpl) GetProductsByBrand(ctx context.Context, brandID string) (data []dto.ProductResponse, err error) {
	id, err := primitive.ObjectIDFromHex(brandID)
	if err != nil {
		return nil, errs.ErrNotFound
	}

	products, err := s.mongoDBRepo.GetProductsByBrand(ctx, id)
	if err != nil {
		return
	}

	// An empty result set here is a miss, not an empty listing.
	if len(products) == 0 {
		return nil, errs.ErrNotFound
	}

	return s.expandProductResponses(ctx, products)
}

func (s *ProductServiceImpl) FilterProducts(ctx context.Context, req dto.FilterRequest) (data []dto.ProductResponse, err error) {
	var categoryID *primitive.ObjectID
	if req.Category != "" {
		id, idErr := primitive.ObjectIDFromHex(req.Category)
		if idErr != nil {
			return nil, errs.ErrClient
		}
		categoryID = &id
	}

	products, err := s.mongoDBRepo.FilterProducts(ctx, categoryID, req.Brand)
	if err != nil {
		return
	}

	return toProductResponses(products), nil
}

func parseObjectIDs(values dto.StringList) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(values))
	for _, value := range values {
		id, err := primitive.ObjectIDFromHex(value)
		if err != nil {
			return nil, errs.ErrClient
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *ProductServiceImpl) FilterByBrands(ctx context.Context, brands dto.StringList) (data []dto.ProductResponse, err error) {
	ids, err := parseObjectIDs(brands)
	if err != nil {
		return
	}

	products, err := s.mongoDBRepo.GetProductsByBrandIDs(ctx, ids)
	if err != nil {
		return
	}

	return s.expandProductResponses(ctx, products)
}

func (s *ProductServiceImpl) FilterByCategories(ctx context.Context, categories dto.StringList) (data []dto.ProductResponse, err error) {
	ids, err := parseObjectIDs(categories)
	if err != nil {
		return
	}

	products, err := s.mongoDBRepo.GetProductsByCategoryIDs(ctx, ids)
	if err != nil {
		return
	}

	return s.expandProductResponses(ctx, products)
}

func (s *ProductServiceImpl) FilterBySizes(ctx context.Context, sizes dto.StringList) (data []dto.ProductResponse, err error) {
	products, err := s.mongoDBRepo.GetProductsBySpec(ctx, domain.SpecSize, sizes)
	if err != nil {
		return
	}

	return s.expandProductResponses(ctx, products)
}

func (s *ProductServiceImpl) FilterByColors(ctx context.Context, colors dto.StringList) (data []dto.ProductResponse, err error) {
	products, err := s.mongoDBRepo.GetProductsBySpec(ctx, domain.SpecColor, colors)
	if err != nil {
		return
	}

	return s.expandProductResponses(ctx, products)
}

func (s *ProductServiceImpl) GetSimilarProducts(ctx context.Context, id string) (data []dto.ProductResponse, err error) {
	ref, err := s.mongoDBRepo.GetProductByID(ctx, id)
	if err != nil {
		return
	}

	// No keywords means no possible overlap, and $or must not be empty.
	if len(ref.Keywords) == 0 {
		return []dto.ProductResponse{}, nil
	}

	products, err := s.mongoDBRepo.GetSimilarProducts(ctx, ref, similarProductsLimit)
	if err != nil {
		return
	}

	return toProductResponses(products), nil
}

// RateProduct records or overwrites the caller's rating and recomputes the
// overall rating inside a store transaction, so concurrent submissions for the
// same product cannot lose updates.
func (s *ProductServiceImpl) RateProduct(ctx context.Context, productID string, userID string, req dto.RatingRequest) (overallRating float64, err error) {
	if userID == "" {
		return 0, errs.ErrNotLoggedIn
	}

	if req.Rating < 1 || req.Rating > 5 {
		return 0, errs.ErrClient
	}

	err = s.mongoDBRepo.HandleTrx(ctx, func(trxCtx context.Context) error {
		product, trxErr := s.mongoDBRepo.GetProductByID(trxCtx, productID)
		if trxErr != nil {
			return trxErr
		}

		if product.Ratings == nil {
			product.Ratings = make(map[string]domain.Rating)
		}

		product.Ratings[userID] = domain.Rating{Rating: req.Rating, Review: req.Review}
		product.OverallRating = computeOverallRating(product.Ratings)
		product.UpdatedAt = time.Now()
		overallRating = product.OverallRating

		return s.mongoDBRepo.ReplaceProduct(trxCtx, product)
	})
	if err != nil {
		return 0, err
	}

	err = s.publishEvent("product_rated", dto.ProductRatedEvent{ProductID: productID, OverallRating: overallRating})
	if err != nil {
		return 0, err
	}

	return overallRating, nil
}

func (s *ProductServiceImpl) GetOverallRating(ctx context.Context, id string) (overallRating float64, err error) {
	product, err := s.mongoDBRepo.GetProductByID(ctx, id)
	if err != nil {
		return
	}

	return product.OverallRating, nil
}

func (s *ProductServiceImpl) AddProduct(ctx context.Context, req dto.ProductRequest) (id string, err error) {
	categoryID, err := primitive.ObjectIDFromHex(req.CategoryID)
	if err != nil {
		return "", errs.ErrClient
	}

	var brandID *primitive.ObjectID
	if req.BrandID != "" {
		parsed, idErr := primitive.ObjectIDFromHex(req.BrandID)
		if idErr != nil {
			return "", errs.ErrClient
		}
		brandID = &parsed
	}

	specifications := req.Specifications
	if specifications == nil {
		specifications = make(map[string]string)
	}

	keywords := req.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	now := time.Now()
	product := domain.Product{
		Name:            req.Name,
		Description:     req.Description,
		Category:        categoryID,
		Brand:           brandID,
		MRP:             req.MRP,
		DiscountedPrice: req.DiscountedPrice,
		Price:           req.Price,
		Stock:           req.Stock,
		Images:          req.Images,
		IsActive:        true,
		Specifications:  specifications,
		Ratings:         make(map[string]domain.Rating),
		Keywords:        keywords,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	productID, err := s.mongoDBRepo.AddProduct(ctx, product)
	if err != nil {
		return
	}

	product.ID = productID
	err = s.publishEvent("product_added", toProductResponse(product))
	if err != nil {
		return "", err
	}

	return productID.Hex(), nil
}

func (s *ProductServiceImpl) UpdateProduct(ctx context.Context, req dto.ProductRequest) (err error) {
	productID, err := primitive.ObjectIDFromHex(req.ID)
	if err != nil {
		return errs.ErrNotFound
	}

	categoryID, err := primitive.ObjectIDFromHex(req.CategoryID)
	if err != nil {
		return errs.ErrClient
	}

	var brandID *primitive.ObjectID
	if req.BrandID != "" {
		parsed, idErr := primitive.ObjectIDFromHex(req.BrandID)
		if idErr != nil {
			return errs.ErrClient
		}
		brandID = &parsed
	}

	product := domain.Product{
		ID:              productID,
		Name:            req.Name,
		Description:     req.Description,
		Category:        categoryID,
		Brand:           brandID,
		MRP:             req.MRP,
		DiscountedPrice: req.DiscountedPrice,
		Price:           req.Price,
		Images:          req.Images,
		Specifications:  req.Specifications,
		Keywords:        req.Keywords,
		UpdatedAt:       time.Now(),
	}

	err = s.mongoDBRepo.UpdateProduct(ctx, product)
	if err != nil {
		return
	}

	return s.publishEvent("product_updated", toProductResponse(product))
}

func (s *ProductServiceImpl) DeleteProduct(ctx context.Context, id string) (err error) {
	err = s.mongoDBRepo.DeleteProduct(ctx, id)
	if err != nil {
		return
	}

	return s.publishEvent("product_deleted", dto.ProductDeletedEvent{ProductID: id})
}

func (s *ProductServiceImpl) SetProductStock(ctx context.Context, id string, req dto.StockRequest) (err error) {
	productID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errs.ErrNotFound
	}

	if req.Stock < 0 {
		return errs.ErrClient
	}

	err = s.mongoDBRepo.SetProductStock(ctx, productID, req.Stock)
	if err != nil {
		return
	}

	return s.publishEvent("stock_set", dto.StockSetEvent{ProductID: id, Stock: req.Stock})
}

func (s *ProductServiceImpl) AssignDiscount(ctx context.Context, id string, req dto.DiscountRequest) (err error) {
	productID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errs.ErrNotFound
	}

	return s.mongoDBRepo.SetProductDiscount(ctx, productID, domain.Discount{
		Percentage: req.Percentage,
		ValidTill:  req.ValidTill,
	})
}

func (s *ProductServiceImpl) MarkProductUnavailable(ctx context.Context, id string) (err error) {
	productID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errs.ErrNotFound
	}

	return s.mongoDBRepo.SetProductActive(ctx, productID, false)
}

func (s *ProductServiceImpl) GetAllProductsAdmin(ctx context.Context, param pkgdto.Filter) (data []dto.ProductResponse, err error) {
	products, err := s.mongoDBRepo.GetProducts(ctx, param)
	if err != nil {
		return
	}

	return toProductResponses(products), nil
}

func (s *ProductServiceImpl) writeKafkaMessage(msg []byte) error {
	_, err := s.kafkaProducer.WriteMessages(
		kafka.Message{
			Value: msg,
		},
	)
	return err
}

func (s *ProductServiceImpl) writeKafkaMessageWithKey(msg []byte, key string) error {
	_, err := s.kafkaProducer.WriteMessages(
		kafka.Message{
			Key:   []byte(key),
			Value: msg,
		},
	)
	return err
}

func (s *ProductServiceImpl) publishEvent(eventType string, data interface{}) error {
	jsonMsg, err := json.Marshal(dto.KafkaMessage{EventType: eventType, Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal Kafka message: %w", err)
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		err = s.writeKafkaMessage(jsonMsg)
		if err == nil {
			break
		}
		log.Error().Err(err).Str("component", "publishEvent").Msg("")
		time.Sleep(time.Second * time.Duration(i+1)) // Exponential backoff
	}

	if err != nil {
		return fmt.Errorf("failed to write Kafka message after %d attempts: %w", maxRetries, err)
	}

	return nil
}

func (s *ProductServiceImpl) publishEventWithKey(key string, eventType string, data interface{}) error {
	jsonMsg, err := json.Marshal(dto.KafkaMessage{EventType: eventType, Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal Kafka message: %w", err)
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		err = s.writeKafkaMessageWithKey(jsonMsg, key)
		if err == nil {
			break
		}
		log.Error().Err(err).Str("component", "publishEventWithKey").Msg("")
		time.Sleep(time.Second * time.Duration(i+1)) // Exponential backoff
	}

	if err != nil {
		return fmt.Errorf("failed to write Kafka message after %d attempts: %w", maxRetries, err)
	}

	return nil
}

func (s *ProductServiceImpl) ConsumeEvent() {
	for {
		msg, err := s.kafkaReader.ReadMessage(context.Background())
		if err != nil {
			log.Error().Err(err).Str("component", "ConsumeEvent").Msg("")
			continue
		}

		var receivedMsg dto.KafkaMessage
		if err := json.Unmarshal(msg.Value, &receivedMsg); err != nil {
			log.Error().Err(err).Str("component", "ConsumeEvent").Msg("")
			continue
		}

		switch receivedMsg.EventType {
		case "order_created":
			var orderRequest dto.OrderRequest
			if err := decodeEventData(receivedMsg.Data, &orderRequest); err != nil {
				log.Error().Err(err).Str("component", "ConsumeEvent").Msg("")
				continue
			}

			stockUpdate := dto.StockUpdate{
				TransactionNumber: orderRequest.TransactionNumber,
				Status:            true,
			}

			if err := s.reduceProductsStock(context.Background(), orderRequest); err != nil {
				stockUpdate.Status = false
			}

			if err := s.publishEventWithKey(orderRequest.TransactionNumber, "stock_updated", stockUpdate); err != nil {
				log.Error().Err(err).Str("component", "ConsumeEvent").Msg("")
			}
		case "restore_product_stock":
			var orderRequest dto.OrderRequest
			if err := decodeEventData(receivedMsg.Data, &orderRequest); err != nil {
				log.Error().Err(err).Str("component", "ConsumeEvent").Msg("")
				continue
			}

			if err := s.restoreProductsStock(context.Background(), orderRequest); err != nil {
				log.Error().Err(err).Str("component", "ConsumeEvent").Msg("")
			}
		default:
			log.Info().Str("component", "ConsumeEvent").Str("event_type", receivedMsg.EventType).Msg("Unknown event type")
		}
	}
}

func decodeEventData(data interface{}, target interface{}) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return err
	}

	return json.Unmarshal(dataBytes, target)
}

func (s *ProductServiceImpl) reduceProductsStock(ctx context.Context, req dto.OrderRequest) error {
	return s.mongoDBRepo.HandleTrx(ctx, func(trxCtx context.Context) error {
		for _, orderItem := range req.OrderItems {
			product, err := s.mongoDBRepo.GetProductByID(trxCtx, orderItem.ProductID)
			if err != nil {
				return err
			}

			if product.Stock < orderItem.Quantity {
				return errs.ErrConflict
			}

			if err := s.mongoDBRepo.SetProductStock(trxCtx, product.ID, product.Stock-orderItem.Quantity); err != nil {
				return err
			}
		}

		return nil
	})
}

func (s *ProductServiceImpl) restoreProductsStock(ctx context.Context, req dto.OrderRequest) error {
	for _, orderItem := range req.OrderItems {
		productID, err := primitive.ObjectIDFromHex(orderItem.ProductID)
		if err != nil {
			return err
		}

		if err := s.mongoDBRepo.IncrementProductStock(ctx, productID, orderItem.Quantity); err != nil {
			return err
		}
	}

	return nil
}
