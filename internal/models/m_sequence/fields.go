package m_sequence

// Field constants for the catalog_sequences table.
const (
	TableName = "catalog_sequences"

	ColName      = "name"
	ColNextValue = "next_value"
)
