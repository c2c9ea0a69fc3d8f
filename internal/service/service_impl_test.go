package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopsphere/catalog-service/config"
	"github.com/shopsphere/catalog-service/internal/domain"
	"github.com/shopsphere/catalog-service/internal/dto"
	pkgdto "github.com/shopsphere/catalog-service/pkg/dto"
	"github.com/shopsphere/catalog-service/pkg/errs"
)

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) AddProduct(ctx context.Context, data domain.Product) (primitive.ObjectID, error) {
	args := m.Called(ctx, data)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *mockProductRepository) GetProducts(ctx context.Context, param pkgdto.Filter) ([]domain.Product, error) {
	args := m.Called(ctx, param)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepository) GetActiveProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepository) GetProductByID(ctx context.Context, id string) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *mockProductRepository) GetProductsByName(ctx context.Context, fragment string) ([]domain.Product, error) {
	args := m.Called(ctx, fragment)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepository) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepository) GetProductsByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]domain.Product, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepository) GetProductsByBrand(ctx context.Context, brandID primitive.ObjectID) ([]domain.Product, error) {
	args := m.Called(ctx, brandID)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepository) FilterProducts(ctx context.Context, categoryID *primitive.ObjectID, brandText string) ([]domain.Product, error) {
	args := m.Called(ctx, categoryID, brandText)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepository) GetProductsByBrandIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepository) GetProductsByCategoryIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepository) GetProductsBySpec(ctx context.Context, key string, values []string) ([]domain.Product, error) {
	args := m.Called(ctx, key, values)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepository) GetSimilarProducts(ctx context.Context, ref domain.Product, limit int64) ([]domain.Product, error) {
	args := m.Called(ctx, ref, limit)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepository) ReplaceProduct(ctx context.Context, data domain.Product) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *mockProductRepository) UpdateProduct(ctx context.Context, data domain.Product) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *mockProductRepository) SetProductStock(ctx context.Context, id primitive.ObjectID, stock int64) error {
	args := m.Called(ctx, id, stock)
	return args.Error(0)
}

func (m *mockProductRepository) IncrementProductStock(ctx context.Context, id primitive.ObjectID, delta int64) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *mockProductRepository) SetProductDiscount(ctx context.Context, id primitive.ObjectID, discount domain.Discount) error {
	args := m.Called(ctx, id, discount)
	return args.Error(0)
}

func (m *mockProductRepository) SetProductActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *mockProductRepository) DeleteProduct(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProductRepository) SearchCategories(ctx context.Context, query string) ([]domain.Category, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *mockProductRepository) GetCategoriesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Category, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *mockProductRepository) GetBrandsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Brand, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Brand), args.Error(1)
}

func (m *mockProductRepository) HandleTrx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

type fakeKafkaWriter struct {
	messages []kafka.Message
}

func (w *fakeKafkaWriter) WriteMessages(msgs ...kafka.Message) (int, error) {
	w.messages = append(w.messages, msgs...)
	return len(msgs), nil
}

func newTestService(repo *mockProductRepository) (*ProductServiceImpl, *fakeKafkaWriter) {
	writer := &fakeKafkaWriter{}
	svc := CreateProductService(repo, config.Config{}, nil, writer)
	return svc.(*ProductServiceImpl), writer
}

func TestComputeOverallRating(t *testing.T) {
	testCases := []struct {
		name     string
		ratings  map[string]domain.Rating
		expected float64
	}{
		{
			name:     "no ratings",
			ratings:  map[string]domain.Rating{},
			expected: 0,
		},
		{
			name:     "nil ratings",
			ratings:  nil,
			expected: 0,
		},
		{
			name:     "single rating",
			ratings:  map[string]domain.Rating{"u1": {Rating: 4}},
			expected: 4,
		},
		{
			name:     "mean rounded to one decimal",
			ratings:  map[string]domain.Rating{"u1": {Rating: 4}, "u2": {Rating: 3}, "u3": {Rating: 3}},
			expected: 3.3,
		},
		{
			name:     "rounds up",
			ratings:  map[string]domain.Rating{"u1": {Rating: 5}, "u2": {Rating: 5}, "u3": {Rating: 4}},
			expected: 4.7,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, computeOverallRating(tc.ratings))
		})
	}
}

func TestRateProductFirstRating(t *testing.T) {
	productID := primitive.NewObjectID()
	repo := &mockProductRepository{}
	svc, writer := newTestService(repo)

	product := domain.Product{
		ID:       productID,
		Category: primitive.NewObjectID(),
		IsActive: true,
	}

	var saved domain.Product
	repo.On("HandleTrx", mock.Anything, mock.Anything).Return(nil)
	repo.On("GetProductByID", mock.Anything, productID.Hex()).Return(product, nil)
	repo.On("ReplaceProduct", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(domain.Product)
	}).Return(nil)

	overallRating, err := svc.RateProduct(context.Background(), productID.Hex(), "user-1", dto.RatingRequest{Rating: 4, Review: "good"})

	require.NoError(t, err)
	assert.Equal(t, 4.0, overallRating)
	assert.Len(t, saved.Ratings, 1)
	assert.Equal(t, domain.Rating{Rating: 4, Review: "good"}, saved.Ratings["user-1"])
	assert.Equal(t, 4.0, saved.OverallRating)
	assert.Len(t, writer.messages, 1)
}

func TestRateProductSecondSubmissionOverwrites(t *testing.T) {
	productID := primitive.NewObjectID()
	repo := &mockProductRepository{}
	svc, _ := newTestService(repo)

	product := domain.Product{
		ID:       productID,
		IsActive: true,
		Ratings: map[string]domain.Rating{
			"user-1": {Rating: 4, Review: "good"},
		},
		OverallRating: 4,
	}

	var saved domain.Product
	repo.On("HandleTrx", mock.Anything, mock.Anything).Return(nil)
	repo.On("GetProductByID", mock.Anything, productID.Hex()).Return(product, nil)
	repo.On("ReplaceProduct", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(domain.Product)
	}).Return(nil)

	overallRating, err := svc.RateProduct(context.Background(), productID.Hex(), "user-1", dto.RatingRequest{Rating: 2})

	require.NoError(t, err)
	assert.Equal(t, 2.0, overallRating)
	assert.Len(t, saved.Ratings, 1)
	assert.Equal(t, 2.0, saved.Ratings["user-1"].Rating)
}

func TestRateProductDistinctUsers(t *testing.T) {
	productID := primitive.NewObjectID()
	repo := &mockProductRepository{}
	svc, _ := newTestService(repo)

	product := domain.Product{
		ID:       productID,
		IsActive: true,
		Ratings: map[string]domain.Rating{
			"user-1": {Rating: 5},
			"user-2": {Rating: 4},
		},
	}

	var saved domain.Product
	repo.On("HandleTrx", mock.Anything, mock.Anything).Return(nil)
	repo.On("GetProductByID", mock.Anything, productID.Hex()).Return(product, nil)
	repo.On("ReplaceProduct", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(domain.Product)
	}).Return(nil)

	overallRating, err := svc.RateProduct(context.Background(), productID.Hex(), "user-3", dto.RatingRequest{Rating: 3})

	require.NoError(t, err)
	assert.Len(t, saved.Ratings, 3)
	assert.Equal(t, 4.0, overallRating)
}

func TestRateProductRejectsOutOfBounds(t *testing.T) {
	repo := &mockProductRepository{}
	svc, _ := newTestService(repo)

	testCases := []float64{0, 0.5, 5.5, -1, 6}

	for _, rating := range testCases {
		_, err := svc.RateProduct(context.Background(), primitive.NewObjectID().Hex(), "user-1", dto.RatingRequest{Rating: rating})
		assert.ErrorIs(t, err, errs.ErrClient)
	}

	repo.AssertNotCalled(t, "HandleTrx")
}

func TestRateProductMissingUser(t *testing.T) {
	repo := &mockProductRepository{}
	svc, _ := newTestService(repo)

	_, err := svc.RateProduct(context.Background(), primitive.NewObjectID().Hex(), "", dto.RatingRequest{Rating: 3})

	assert.ErrorIs(t, err, errs.ErrNotLoggedIn)
}

func TestRateProductNotFound(t *testing.T) {
	productID := primitive.NewObjectID()
	repo := &mockProductRepository{}
	svc, _ := newTestService(repo)

	repo.On("HandleTrx", mock.Anything, mock.Anything).Return(nil)
	repo.On("GetProductByID", mock.Anything, productID.Hex()).Return(domain.Product{}, errs.ErrNotFound)

	_, err := svc.RateProduct(context.Background(), productID.Hex(), "user-1", dto.RatingRequest{Rating: 3})

	assert.ErrorIs(t, err, errs.ErrNotFound)
	repo.AssertNotCalled(t, "ReplaceProduct")
}

func TestGetOverallRating(t *testing.T) {
	productID := primitive.NewObjectID()
	repo := &mockProductRepository{}
	svc, _ := newTestService(repo)

	repo.On("GetProductByID", mock.Anything, productID.Hex()).Return(domain.Product{ID: productID, OverallRating: 4.2}, nil)

	overallRating, err := svc.GetOverallRating(context.Background(), productID.Hex())

	require.NoError(t, err)
	assert.Equal(t, 4.2, overallRating)
}

func TestGetOverallRatingNotFound(t *testing.T) {
	repo := &mockProductRepository{}
	svc, _ := newTestService(repo)

	repo.On("GetProductByID", mock.Anything, "missing").Return(domain.Product{}, errs.ErrNotFound)

	_, err := svc.GetOverallRating(context.Background(), "missing")

	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestSearchEcommerceBlankQuery(t *testing.T) {
	repo := &mockProductRepository{}
	svc, _ := newTestService(repo)

	for _, query := range []string{"", "   ", "\t\n"} {
		_, err := svc.SearchEcommerce(context.Background(), query)
		assert.ErrorIs(t, err, errs.ErrClient)
	}

	repo.AssertNotCalled(t, "SearchProducts")
	repo.AssertNotCalled(t, "SearchCategories")
}

func TestSearchEcommerce(t *testing.T) {
	repo := &mockProductRepository{}
	svc, _ := newTestService(repo)

	categoryID := primitive.NewObjectID()
	productID := primitive.NewObjectID()

	repo.On("SearchCategories", mock.Anything, "shoe").Return([]domain.Category{{ID: categoryID, Name: "Shoes"}}, nil)
	repo.On("SearchProducts", mock.Anything, "shoe").Return([]domain.Product{{ID: productID, Name: "Running shoe", Category: categoryID}}, nil)

	data, err := svc.SearchEcommerce(context.Background(), "  shoe  ")

	require.NoError(t, err)
	require.Len(t, data.Categories, 1)
	assert.Equal(t, "Shoes", data.Categories[0].Name)
	require.Len(t, data.Products, 1)
	assert.Equal(t, "Running shoe", data.Products[0].Name)
}

func TestSearchEcommerceProductQueryFails(t *testing.T) {
	repo := &mockProductRepository{}
	svc, _ := newTestService(repo)

	repo.On("SearchCategories", mock.Anything, "shoe").Return([]domain.Category{}, nil)
	repo.On("SearchProducts", mock.Anything, "shoe").Return([]domain.Product{}, errors.New("cursor error"))

	_, err := svc.SearchEcommerce(context.Background(), "shoe")

	assert.Error(t, err)
}

func TestSearchEcommerceCategoryQueryFails(t *testing.T) {
	repo := &mockProductRepository{}
	svc, _ := newTestService(repo)

	repo.On("SearchCategories", mock.Anything, "shoe").Return([]domain.Category{}, errors.New("cursor error"))
	repo.On("SearchProducts", mock.Anything, "shoe").Return([]domain.Product{}, nil)

	_, err := svc.SearchEcommerce(context.Background(), "shoe")

	assert.Error(t, err)
}

func TestGetSimilarProducts(t *testing.T) {
	refID := primitive.NewObjectID()
	repo := &mockProductRepository{}
	svc, _ := newTestService(repo)

	ref := domain.Product{
		ID:       refID,
		Category: primitive.NewObjectID(),
		Keywords: []string{"red", "shoe"},
		IsActive: true,
	}
	similar := domain.Product{ID: primitive.NewObjectID(), Category: ref.Category, Keywords: []string{"shoe"}}

	repo.On("GetProductByID", mock.Anything, refID.Hex()).Return(ref, nil)
	repo.On("GetSimilarProducts", mock.Anything, ref, int64(10)).Return([]domain.Product{similar}, nil)

	data, err := svc.GetSimilarProducts(context.Background(), refID.Hex())

	require.NoError(t, err)
	require.Len(t, data, 1)
	assert.Equal(t, similar.ID.Hex(), data[0].ID)
}

func TestGetSimilarProductsNoKeywords(t *testing.T) {
	refID := primitive.NewObjectID()
	repo := &mockProductRepository{}
	svc, _ := newTestService(repo)

	repo.On("GetProductByID", mock.Anything, refID.Hex()).Return(domain.Product{ID: refID, IsActive: true}, nil)

	data, err := svc.GetSimilarProducts(context.Background(), refID.Hex())

	require.NoError(t, err)
	assert.Empty(t, data)
	repo.AssertNotCalled(t, "GetSimilarProducts")
}

func TestGetProductsByBrandEmptyResultIsNotFound(t *testing.T) {
	brandID := primitive.NewObjectID()
	repo := &mockProductRepository{}
	svc, _ := newTestService(repo)

	repo.On("GetProductsByBrand", mock.Anything, brandID).Return([]domain.Product{}, nil)

	_, err := svc.GetProductsByBrand(context.Background(), brandID.Hex())

	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestGetProductsByBrandExpandsReferences(t *testing.T) {
	brandID := primitive.NewObjectID()
	categoryID := primitive.NewObjectID()
	repo := &mockProductRepository{}
	svc, _ := newTestService(repo)

	product := domain.Product{
		ID:       primitive.NewObjectID(),
		Name:     "Sneaker",
		Category: categoryID,
		Brand:    &brandID,
		IsActive: true,
	}

	repo.On("GetProductsByBrand", mock.Anything, brandID).Return([]domain.Product{product}, nil)
	repo.On("GetCategoriesByIDs", mock.Anything, []primitive.ObjectID{categoryID}).Return([]domain.Category{{ID: categoryID, Name: "Shoes"}}, nil)
	repo.On("GetBrandsByIDs", mock.Anything, []primitive.ObjectID{brandID}).Return([]domain.Brand{{ID: brandID, Name: "Nike"}}, nil)

	data, err := svc.GetProductsByBrand(context.Background(), brandID.Hex())

	require.NoError(t, err)
	require.Len(t, data, 1)
	assert.Equal(t, "Shoes", data[0].CategoryName)
	assert.Equal(t, "Nike", data[0].BrandName)
}

func TestFilterByBrandsInvalidID(t *testing.T) {
	repo := &mockProductRepository{}
	svc, _ := newTestService(repo)

	_, err := svc.FilterByBrands(context.Background(), dto.StringList{"not-an-id"})

	assert.ErrorIs(t, err, errs.ErrClient)
	repo.AssertNotCalled(t, "GetProductsByBrandIDs")
}

func TestFilterBySizesUsesSpecKey(t *testing.T) {
	repo := &mockProductRepository{}
	svc, _ := newTestService(repo)

	repo.On("GetProductsBySpec", mock.Anything, domain.SpecSize, []string{"M"}).Return([]domain.Product{}, nil)
	repo.On("GetCategoriesByIDs", mock.Anything, []primitive.ObjectID{}).Return([]domain.Category{}, nil)
	repo.On("GetBrandsByIDs", mock.Anything, []primitive.ObjectID{}).Return([]domain.Brand{}, nil)

	data, err := svc.FilterBySizes(context.Background(), dto.StringList{"M"})

	require.NoError(t, err)
	assert.Empty(t, data)
	repo.AssertExpectations(t)
}

func TestAddProductDefaults(t *testing.T) {
	categoryID := primitive.NewObjectID()
	newID := primitive.NewObjectID()
	repo := &mockProductRepository{}
	svc, writer := newTestService(repo)

	var inserted domain.Product
	repo.On("AddProduct", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		inserted = args.Get(1).(domain.Product)
	}).Return(newID, nil)

	id, err := svc.AddProduct(context.Background(), dto.ProductRequest{
		Name:       "Sneaker",
		CategoryID: categoryID.Hex(),
		Price:      59.99,
	})

	require.NoError(t, err)
	assert.Equal(t, newID.Hex(), id)
	assert.True(t, inserted.IsActive)
	assert.NotNil(t, inserted.Ratings)
	assert.Empty(t, inserted.Ratings)
	assert.Equal(t, 0.0, inserted.OverallRating)

	require.Len(t, writer.messages, 1)
	var event dto.KafkaMessage
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &event))
	assert.Equal(t, "product_added", event.EventType)
}

func TestAddProductInvalidCategory(t *testing.T) {
	repo := &mockProductRepository{}
	svc, _ := newTestService(repo)

	_, err := svc.AddProduct(context.Background(), dto.ProductRequest{Name: "Sneaker", CategoryID: "nope"})

	assert.ErrorIs(t, err, errs.ErrClient)
	repo.AssertNotCalled(t, "AddProduct")
}

func TestReduceProductsStockInsufficient(t *testing.T) {
	productID := primitive.NewObjectID()
	repo := &mockProductRepository{}
	svc, _ := newTestService(repo)

	repo.On("HandleTrx", mock.Anything, mock.Anything).Return(nil)
	repo.On("GetProductByID", mock.Anything, productID.Hex()).Return(domain.Product{ID: productID, Stock: 1}, nil)

	err := svc.reduceProductsStock(context.Background(), dto.OrderRequest{
		TransactionNumber: "trx-1",
		OrderItems:        []dto.OrderItem{{ProductID: productID.Hex(), Quantity: 5}},
	})

	assert.ErrorIs(t, err, errs.ErrConflict)
	repo.AssertNotCalled(t, "SetProductStock")
}

func TestReduceProductsStock(t *testing.T) {
	productID := primitive.NewObjectID()
	repo := &mockProductRepository{}
	svc, _ := newTestService(repo)

	repo.On("HandleTrx", mock.Anything, mock.Anything).Return(nil)
	repo.On("GetProductByID", mock.Anything, productID.Hex()).Return(domain.Product{ID: productID, Stock: 5}, nil)
	repo.On("SetProductStock", mock.Anything, productID, int64(3)).Return(nil)

	err := svc.reduceProductsStock(context.Background(), dto.OrderRequest{
		TransactionNumber: "trx-1",
		OrderItems:        []dto.OrderItem{{ProductID: productID.Hex(), Quantity: 2}},
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
