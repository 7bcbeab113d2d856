package split

import (
	"context"

	"github.com/ezoic/treeforge/core/parallel"
	"github.com/ezoic/treeforge/sklearn/tree/data"
)

// Better reports whether a beats b: higher gain wins, then the lower
// attribute index. A nil candidate never beats a non-nil one.
func Better(a, b Candidate) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	case a.Gain() != b.Gain():
		return a.Gain() > b.Gain()
	}
	return a.Column().AttributeIndex() < b.Column().AttributeIndex()
}

func best(a, b Candidate) Candidate {
	if Better(b, a) {
		return b
	}
	return a
}

// BestSplit searches every column of td for the node described by m and
// returns the overall winner, or nil when no column can be split.
// Columns are searched on up to cfg.Workers() goroutines; the result does
// not depend on the worker count.
func (e *Engine) BestSplit(ctx context.Context, td *data.TreeData, m *data.Membership, priors data.Priors) (Candidate, error) {
	columns := td.Columns()
	return parallel.MapReduce(ctx, len(columns), e.cfg.Workers(),
		func(_ context.Context, i int) (Candidate, error) {
			return e.BestSplitForColumn(td, columns[i], m, priors)
		}, best)
}

// Ranked returns the best candidate of every column, in attribute order.
// Columns without an acceptable split have a nil entry.
func (e *Engine) Ranked(ctx context.Context, td *data.TreeData, m *data.Membership, priors data.Priors) ([]Candidate, error) {
	columns := td.Columns()
	out := make([]Candidate, len(columns))
	_, err := parallel.MapReduce(ctx, len(columns), e.cfg.Workers(),
		func(_ context.Context, i int) (struct{}, error) {
			c, err := e.BestSplitForColumn(td, columns[i], m, priors)
			out[i] = c
			return struct{}{}, err
		}, func(a, _ struct{}) struct{} { return a })
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Children derives the membership of every child of c.
func Children(c Candidate, m *data.Membership) ([]*data.Membership, error) {
	childWeights := c.ChildWeights(m.Weights())
	children := make([]*data.Membership, len(childWeights))
	for i, w := range childWeights {
		child, err := m.Child(w)
		if err != nil {
			return nil, err
		}
		children[i] = child
	}
	return children, nil
}
