package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"

	"github.com/murkotick/ecommerce-catalog/internal/models/m_sequence"
)

// allocateIDs reserves n consecutive ids from a named sequence inside tx and
// returns the first one plus the mutation that advances the sequence.
// Values only ever grow, so a removed id is never handed out again.
func allocateIDs(ctx context.Context, tx *spanner.ReadWriteTransaction, name string, n int64) (int64, *spanner.Mutation, error) {
	next := int64(1)
	row, err := tx.ReadRow(ctx, m_sequence.TableName, spanner.Key{name}, []string{m_sequence.ColNextValue})
	switch {
	case spanner.ErrCode(err) == codes.NotFound:
	case err != nil:
		return 0, nil, fmt.Errorf("read sequence %s: %w", name, err)
	default:
		if err := row.Column(0, &next); err != nil {
			return 0, nil, fmt.Errorf("decode sequence %s: %w", name, err)
		}
	}
	return next, m_sequence.UpsertMutation(name, next+n), nil
}
