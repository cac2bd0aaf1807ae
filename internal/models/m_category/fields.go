package m_category

// Field constants for the categories table.
const (
	TableName = "categories"

	ColCategoryID = "category_id"
	ColName       = "name"
	ColCreatedAt  = "created_at"

	SequenceName = "categories"
)
