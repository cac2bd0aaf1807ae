package m_sequence

import "cloud.google.com/go/spanner"

// UpsertMutation stores the next value a sequence hands out.
func UpsertMutation(name string, nextValue int64) *spanner.Mutation {
	return spanner.InsertOrUpdate(TableName,
		[]string{ColName, ColNextValue},
		[]interface{}{name, nextValue},
	)
}
