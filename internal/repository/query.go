package repository

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopsphere/catalog-service/internal/domain"
)

// contains builds an unanchored case-insensitive substring matcher. The
// fragment is quoted so caller input can never inject regex syntax into the
// query.
func contains(fragment string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(fragment), Options: "i"}
}

func activeOnly() bson.M {
	return bson.M{"is_active": true}
}

func nameContains(fragment string) bson.M {
	return bson.M{"name": contains(fragment), "is_active": true}
}

// textSearch matches the query against any of name, description or keywords.
func textSearch(query string) bson.M {
	return bson.M{
		"$or": []bson.M{
			{"name": contains(query)},
			{"description": contains(query)},
			{"keywords": contains(query)},
		},
		"is_active": true,
	}
}

func categoryEquals(id primitive.ObjectID) bson.M {
	return bson.M{"category": id, "is_active": true}
}

func brandEquals(id primitive.ObjectID) bson.M {
	return bson.M{"brand": id, "is_active": true}
}

// criteriaFilter conjoins only the criteria that are present. The brand text
// matches the free-form specifications entry, not the brand reference.
func criteriaFilter(categoryID *primitive.ObjectID, brandText string) bson.M {
	filter := activeOnly()
	if categoryID != nil {
		filter["category"] = *categoryID
	}
	if brandText != "" {
		filter["specifications."+domain.SpecBrand] = contains(brandText)
	}
	return filter
}

// An empty id set means the criterion was omitted, which matches every active
// product.
func brandIn(ids []primitive.ObjectID) bson.M {
	filter := activeOnly()
	if len(ids) > 0 {
		filter["brand"] = bson.M{"$in": ids}
	}
	return filter
}

func categoryIn(ids []primitive.ObjectID) bson.M {
	filter := activeOnly()
	if len(ids) > 0 {
		filter["category"] = bson.M{"$in": ids}
	}
	return filter
}

func specIn(key string, values []string) bson.M {
	filter := activeOnly()
	if len(values) > 0 {
		filter["specifications."+key] = bson.M{"$in": values}
	}
	return filter
}

// similarTo matches products in the reference's category, excluding the
// reference itself, whose keywords overlap any of the reference's keywords.
// Callers must not pass a reference without keywords: an empty $or is not a
// valid MongoDB query.
func similarTo(ref domain.Product) bson.M {
	or := make([]bson.M, 0, len(ref.Keywords))
	for _, keyword := range ref.Keywords {
		or = append(or, bson.M{"keywords": contains(keyword)})
	}

	return bson.M{
		"_id":       bson.M{"$ne": ref.ID},
		"category":  ref.Category,
		"$or":       or,
		"is_active": true,
	}
}

func categoryNameContains(query string) bson.M {
	return bson.M{"name": contains(query)}
}
