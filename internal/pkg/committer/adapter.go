package committer

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
)

type Adapter struct {
	client *spanner.Client
}

func NewAdapter(client *spanner.Client) *Adapter {
	return &Adapter{client: client}
}

// Apply runs the plan's steps and writes all mutations in one read-write transaction.
// Errors returned by a step abort the commit and are returned unchanged.
func (a *Adapter) Apply(ctx context.Context, plan *Plan) error {
	if plan == nil || plan.IsEmpty() {
		return nil
	}

	if a.client == nil {
		return fmt.Errorf("committer: spanner client is nil")
	}

	_, err := a.client.ReadWriteTransaction(ctx, func(ctx context.Context, tx *spanner.ReadWriteTransaction) error {
		// Rebuilt on every attempt, the transaction may be retried.
		muts := make([]*spanner.Mutation, 0, len(plan.Mutations()))
		for _, step := range plan.Steps() {
			extra, err := step(ctx, tx)
			if err != nil {
				return err
			}
			muts = append(muts, extra...)
		}
		muts = append(muts, plan.Mutations()...)
		if len(muts) == 0 {
			return nil
		}
		return tx.BufferWrite(muts)
	})
	return err
}
