package get_product

// Query addresses one product by id.
type Query struct {
	ProductID int64
}
