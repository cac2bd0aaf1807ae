package m_category

import (
	"time"

	"cloud.google.com/go/spanner"
)

// InsertMutation builds the insert for one category row.
func InsertMutation(categoryID int64, name string, createdAt time.Time) *spanner.Mutation {
	return spanner.Insert(TableName,
		[]string{ColCategoryID, ColName, ColCreatedAt},
		[]interface{}{categoryID, name, createdAt},
	)
}
