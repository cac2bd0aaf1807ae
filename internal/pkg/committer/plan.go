package committer

import (
	"context"

	"cloud.google.com/go/spanner"
)

// Step runs inside the read-write transaction before the buffered mutations are
// written. It may read, reject the commit by returning an error, or contribute
// mutations that depend on what it read. Steps must be safe to re-run because
// aborted transactions are retried.
type Step func(ctx context.Context, tx *spanner.ReadWriteTransaction) ([]*spanner.Mutation, error)

type Plan struct {
	steps     []Step
	mutations []*spanner.Mutation
}

func NewPlan() *Plan {
	return &Plan{
		mutations: make([]*spanner.Mutation, 0),
	}
}

func (p *Plan) Add(m *spanner.Mutation) {
	if m == nil {
		return
	}
	p.mutations = append(p.mutations, m)
}

// Then appends a transactional step. Steps run in registration order.
func (p *Plan) Then(s Step) {
	if s == nil {
		return
	}
	p.steps = append(p.steps, s)
}

func (p *Plan) IsEmpty() bool {
	return len(p.mutations) == 0 && len(p.steps) == 0
}

func (p *Plan) Mutations() []*spanner.Mutation {
	return p.mutations
}

func (p *Plan) Steps() []Step {
	return p.steps
}
