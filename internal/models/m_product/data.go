package m_product

import (
	"math/big"
	"time"

	"cloud.google.com/go/spanner"
)

// InsertMutation builds a spanner.Insert mutation for a product using a map of values.
// expected keys are the column names declared in fields.go
func InsertMutation(values map[string]interface{}) *spanner.Mutation {
	cols := make([]string, 0, len(values))
	vals := make([]interface{}, 0, len(values))
	for col, v := range values {
		cols = append(cols, col)
		vals = append(vals, v)
	}
	return spanner.Insert(TableName, cols, vals)
}

// UpdateMutation builds a spanner.Update mutation for a product.
// The values map should NOT include the product_id key (we accept productID separately).
func UpdateMutation(productID int64, values map[string]interface{}) *spanner.Mutation {
	cols := []string{ColProductID}
	vals := []interface{}{productID}

	for col, v := range values {
		cols = append(cols, col)
		vals = append(vals, v)
	}

	return spanner.Update(TableName, cols, vals)
}

// DeleteMutation removes one product row.
func DeleteMutation(productID int64) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{productID})
}

// BuildInsertMap prepares the canonical fields for insertion.
func BuildInsertMap(productID int64, name string, description *string, price *big.Rat,
	stockQuantity int64, imageURL *string, categoryID int64, createdAt time.Time, version int64) map[string]interface{} {

	m := BuildReplaceMap(name, description, price, stockQuantity, imageURL, categoryID, version)
	m[ColProductID] = productID
	m[ColCreatedAt] = createdAt
	return m
}

// BuildReplaceMap builds the full-field update map. product_id and created_at
// are immutable and never part of it.
func BuildReplaceMap(name string, description *string, price *big.Rat,
	stockQuantity int64, imageURL *string, categoryID int64, version int64) map[string]interface{} {

	m := map[string]interface{}{
		ColName:          name,
		ColPrice:         price,
		ColStockQuantity: stockQuantity,
		ColCategoryID:    categoryID,
		ColVersion:       version,
	}

	if description != nil {
		m[ColDescription] = *description
	} else {
		m[ColDescription] = nil
	}

	if imageURL != nil {
		m[ColImageURL] = *imageURL
	} else {
		m[ColImageURL] = nil
	}

	return m
}
