package data

import (
	"gonum.org/v1/gonum/floats"

	tfErrors "github.com/ezoic/treeforge/pkg/errors"
)

// Membership is a node's view of the dataset: its row weights plus one
// Tracker per column.
type Membership struct {
	weights  []float64
	trackers []*Tracker
}

// NewMembership builds trackers for every column of td.
func NewMembership(td *TreeData, weights []float64) (*Membership, error) {
	if len(weights) != td.RowCount() {
		return nil, tfErrors.NewDimensionError("NewMembership", td.RowCount(), len(weights), 0)
	}
	m := &Membership{weights: weights, trackers: make([]*Tracker, len(td.columns))}
	for i, col := range td.columns {
		tr, err := NewTracker(col, weights)
		if err != nil {
			return nil, err
		}
		m.trackers[i] = tr
	}
	return m, nil
}

// Child derives the membership of a child node from its weight vector.
func (m *Membership) Child(weights []float64) (*Membership, error) {
	if len(weights) != len(m.weights) {
		return nil, tfErrors.NewDimensionError("Membership.Child", len(m.weights), len(weights), 0)
	}
	child := &Membership{weights: weights, trackers: make([]*Tracker, len(m.trackers))}
	for i, tr := range m.trackers {
		ct, err := tr.Restrict(weights)
		if err != nil {
			return nil, err
		}
		child.trackers[i] = ct
	}
	return child, nil
}

// Weights is the row weight vector. It must not be modified.
func (m *Membership) Weights() []float64 { return m.weights }

// Tracker returns the tracker of the column with the given attribute index.
func (m *Membership) Tracker(attributeIndex int) *Tracker {
	if attributeIndex < 0 || attributeIndex >= len(m.trackers) {
		panic(tfErrors.NewIndexError("Membership.Tracker", attributeIndex, len(m.trackers)))
	}
	return m.trackers[attributeIndex]
}

// ActiveRows is the number of rows with weight above Epsilon.
func (m *Membership) ActiveRows() int {
	if len(m.trackers) == 0 {
		return 0
	}
	return m.trackers[0].Len()
}

// TotalWeight is the sum of all row weights.
func (m *Membership) TotalWeight() float64 { return floats.Sum(m.weights) }
