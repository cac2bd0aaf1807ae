package m_product

// Field constants for the products table.
const (
	TableName = "products"

	ColProductID     = "product_id"
	ColName          = "name"
	ColDescription   = "description"
	ColPrice         = "price"
	ColStockQuantity = "stock_quantity"
	ColImageURL      = "image_url"
	ColCategoryID    = "category_id"
	ColCreatedAt     = "created_at"
	ColVersion       = "version"

	// SequenceName is the catalog_sequences row that allocates product ids.
	SequenceName = "products"
)

// AllColumns is the canonical read order used by row decoders.
var AllColumns = []string{
	ColProductID,
	ColName,
	ColDescription,
	ColPrice,
	ColStockQuantity,
	ColImageURL,
	ColCategoryID,
	ColCreatedAt,
	ColVersion,
}
