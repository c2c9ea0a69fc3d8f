package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopsphere/catalog-service/internal/domain"
	"github.com/shopsphere/catalog-service/pkg/dto"
	"github.com/shopsphere/catalog-service/pkg/errs"
)

type MongoDBProductRepositoryImpl struct {
	db *mongo.Database
}

func CreateNewMongoDBRepository(db *mongo.Database) MongoDBProductRepository {
	return &MongoDBProductRepositoryImpl{db: db}
}

func (r *MongoDBProductRepositoryImpl) AddProduct(ctx context.Context, data domain.Product) (id primitive.ObjectID, err error) {
	result, err := r.db.Collection("products").InsertOne(ctx, data)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "AddProduct").Msg("")
		return
	}

	return result.InsertedID.(primitive.ObjectID), err
}

func (r *MongoDBProductRepositoryImpl) findProducts(ctx context.Context, component string, filter bson.M, opts ...*options.FindOptions) (data []domain.Product, err error) {
	cursor, err := r.db.Collection("products").Find(ctx, filter, opts...)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", component).Msg("")
		return
	}

	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", component).Msg("")
		return
	}

	return data, nil
}

func (r *MongoDBProductRepositoryImpl) GetProducts(ctx context.Context, param dto.Filter) (data []domain.Product, err error) {
	var opts *options.FindOptions

	if param.Limit != 0 && param.Page != 0 {
		opts = options.Find().SetSkip((int64(param.Page) - 1) * int64(param.Limit)).SetLimit(int64(param.Limit))
	}

	if opts != nil {
		return r.findProducts(ctx, "GetProducts", bson.M{}, opts)
	}

	return r.findProducts(ctx, "GetProducts", bson.M{})
}

func (r *MongoDBProductRepositoryImpl) GetActiveProducts(ctx context.Context) (data []domain.Product, err error) {
	return r.findProducts(ctx, "GetActiveProducts", activeOnly())
}

func (r *MongoDBProductRepositoryImpl) GetProductByID(ctx context.Context, id string) (product domain.Product, err error) {
	productID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetProductByID").Msg("")
		return product, errs.ErrNotFound
	}

	filter := bson.D{{Key: "_id", Value: productID}}

	err = r.db.Collection("products").FindOne(ctx, filter).Decode(&product)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetProductByID").Msg("")
		if err == mongo.ErrNoDocuments {
			return product, errs.ErrNotFound
		}

		return product, err
	}
	return product, nil
}

func (r *MongoDBProductRepositoryImpl) GetProductsByName(ctx context.Context, fragment string) (data []domain.Product, err error) {
	return r.findProducts(ctx, "GetProductsByName", nameContains(fragment))
}

func (r *MongoDBProductRepositoryImpl) SearchProducts(ctx context.Context, query string) (data []domain.Product, err error) {
	return r.findProducts(ctx, "SearchProducts", textSearch(query))
}

func (r *MongoDBProductRepositoryImpl) GetProductsByCategory(ctx context.Context, categoryID primitive.ObjectID) (data []domain.Product, err error) {
	return r.findProducts(ctx, "GetProductsByCategory", categoryEquals(categoryID))
}

func (r *MongoDBProductRepositoryImpl) GetProductsByBrand(ctx context.Context, brandID primitive.ObjectID) (data []domain.Product, err error) {
	return r.findProducts(ctx, "GetProductsByBrand", brandEquals(brandID))
}

func (r *MongoDBProductRepositoryImpl) FilterProducts(ctx context.Context, categoryID *primitive.ObjectID, brandText string) (data []domain.Product, err error) {
	return r.findProducts(ctx, "FilterProducts", criteriaFilter(categoryID, brandText))
}

func (r *MongoDBProductRepositoryImpl) GetProductsByBrandIDs(ctx context.Context, ids []primitive.ObjectID) (data []domain.Product, err error) {
	return r.findProducts(ctx, "GetProductsByBrandIDs", brandIn(ids))
}

func (r *MongoDBProductRepositoryImpl) GetProductsByCategoryIDs(ctx context.Context, ids []primitive.ObjectID) (data []domain.Product, err error) {
	return r.findProducts(ctx, "GetProductsByCategoryIDs", categoryIn(ids))
}

func (r *MongoDBProductRepositoryImpl) GetProductsBySpec(ctx context.Context, key string, values []string) (data []domain.Product, err error) {
	return r.findProducts(ctx, "GetProductsBySpec", specIn(key, values))
}

func (r *MongoDBProductRepositoryImpl) GetSimilarProducts(ctx context.Context, ref domain.Product, limit int64) (data []domain.Product, err error) {
	opts := options.Find().SetLimit(limit)
	return r.findProducts(ctx, "GetSimilarProducts", similarTo(ref), opts)
}

// ReplaceProduct overwrites the whole product document. The rating path uses
// this inside a session transaction so concurrent submissions serialize at the
// store instead of losing updates.
func (r *MongoDBProductRepositoryImpl) ReplaceProduct(ctx context.Context, data domain.Product) (err error) {
	filter := bson.D{{Key: "_id", Value: data.ID}}

	result, err := r.db.Collection("products").ReplaceOne(ctx, filter, data)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "ReplaceProduct").Msg("Failed to replace product")
		return
	}

	if result.MatchedCount == 0 {
		return errs.ErrNotFound
	}

	return nil
}

func (r *MongoDBProductRepositoryImpl) UpdateProduct(ctx context.Context, data domain.Product) (err error) {
	filter := bson.D{{Key: "_id", Value: data.ID}}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: data.Name},
		{Key: "description", Value: data.Description},
		{Key: "category", Value: data.Category},
		{Key: "brand", Value: data.Brand},
		{Key: "mrp", Value: data.MRP},
		{Key: "discounted_price", Value: data.DiscountedPrice},
		{Key: "price", Value: data.Price},
		{Key: "images", Value: data.Images},
		{Key: "specifications", Value: data.Specifications},
		{Key: "keywords", Value: data.Keywords},
		{Key: "updated_at", Value: data.UpdatedAt},
	}}}

	result, err := r.db.Collection("products").UpdateOne(ctx, filter, update)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "UpdateProduct").Msg("Failed to update product")
		return
	}

	if result.MatchedCount == 0 {
		return errs.ErrNotFound
	}

	return nil
}

func (r *MongoDBProductRepositoryImpl) setProductField(ctx context.Context, component string, id primitive.ObjectID, update bson.D) (err error) {
	filter := bson.D{{Key: "_id", Value: id}}

	result, err := r.db.Collection("products").UpdateOne(ctx, filter, update)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", component).Msg("Failed to update product")
		return
	}

	if result.MatchedCount == 0 {
		return errs.ErrNotFound
	}

	return
}

func (r *MongoDBProductRepositoryImpl) SetProductStock(ctx context.Context, id primitive.ObjectID, stock int64) (err error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "stock", Value: stock},
		{Key: "updated_at", Value: time.Now()},
	}}}
	return r.setProductField(ctx, "SetProductStock", id, update)
}

func (r *MongoDBProductRepositoryImpl) IncrementProductStock(ctx context.Context, id primitive.ObjectID, delta int64) (err error) {
	update := bson.D{{Key: "$inc", Value: bson.D{{Key: "stock", Value: delta}}}}
	return r.setProductField(ctx, "IncrementProductStock", id, update)
}

func (r *MongoDBProductRepositoryImpl) SetProductDiscount(ctx context.Context, id primitive.ObjectID, discount domain.Discount) (err error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "discount", Value: discount},
		{Key: "updated_at", Value: time.Now()},
	}}}
	return r.setProductField(ctx, "SetProductDiscount", id, update)
}

func (r *MongoDBProductRepositoryImpl) SetProductActive(ctx context.Context, id primitive.ObjectID, active bool) (err error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "is_active", Value: active},
		{Key: "updated_at", Value: time.Now()},
	}}}
	return r.setProductField(ctx, "SetProductActive", id, update)
}

func (r *MongoDBProductRepositoryImpl) DeleteProduct(ctx context.Context, id string) (err error) {
	productID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "DeleteProduct").Msg("")
		return errs.ErrNotFound
	}

	filter := bson.D{{Key: "_id", Value: productID}}

	_, err = r.db.Collection("products").DeleteOne(ctx, filter)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "DeleteProduct").Msg("")
		return
	}

	return
}

func (r *MongoDBProductRepositoryImpl) SearchCategories(ctx context.Context, query string) (data []domain.Category, err error) {
	cursor, err := r.db.Collection("categories").Find(ctx, categoryNameContains(query))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "SearchCategories").Msg("")
		return
	}

	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "SearchCategories").Msg("")
		return
	}

	return data, nil
}

func (r *MongoDBProductRepositoryImpl) GetCategoriesByIDs(ctx context.Context, ids []primitive.ObjectID) (data []domain.Category, err error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.db.Collection("categories").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetCategoriesByIDs").Msg("")
		return
	}

	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetCategoriesByIDs").Msg("")
		return
	}

	return data, nil
}

func (r *MongoDBProductRepositoryImpl) GetBrandsByIDs(ctx context.Context, ids []primitive.ObjectID) (data []domain.Brand, err error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.db.Collection("brands").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetBrandsByIDs").Msg("")
		return
	}

	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetBrandsByIDs").Msg("")
		return
	}

	return data, nil
}

func (r *MongoDBProductRepositoryImpl) HandleTrx(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.db.Client().StartSession()
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "HandleTrx").Msg("")
		return err
	}

	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessionCtx mongo.SessionContext) (interface{}, error) {
		err := fn(sessionCtx)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("component", "HandleTrx").Msg("")
		}
		return nil, err
	})

	return err
}
