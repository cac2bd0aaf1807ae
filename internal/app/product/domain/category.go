package domain

// NoCategoryLabel is shown for products whose category cannot be resolved.
const NoCategoryLabel = "No Category"

// Category is a read-only reference record. Products point at it by id;
// there is no back-reference from a category to its products.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DefaultCategories is the reference set seeded into an empty store.
var DefaultCategories = []string{"Electronics", "Home Office", "Clothing"}
