package split_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/treeforge/sklearn/tree/data"
	"github.com/ezoic/treeforge/sklearn/tree/split"
)

func TestNominalMultiwayClassification(t *testing.T) {
	f := newFixture(t, classification(), nominalTarget(t, "A", "A", "B", "B", "A", "B"),
		nominalColumn(t, 0, "a", "a", "b", "b", "c", "c"))
	root := f.root(t)
	c := f.best(t, 0, root)
	require.NotNil(t, c)

	mw := c.(*split.NominalMultiwayCandidate)
	assert.InDelta(t, 1.0/3.0, mw.Gain(), 1e-12)
	assert.Equal(t, []float64{2, 2, 2}, mw.PartitionWeights())
	assert.Equal(t, []int{0, 1, 2}, mw.Codes())
	requireConservation(t, c, root.Weights())

	conds := mw.ChildConditions()
	require.Len(t, conds, 3)
	assert.Equal(t, "n = b", conds[1].String())
	assert.True(t, conds[1].Matches(split.Value{Code: 1}))
	assert.False(t, conds[1].Matches(split.Value{Code: 2}))

	children := mw.ChildWeights(root.Weights())
	assert.Equal(t, []float64{0, 0, 0, 0, 1, 1}, children[2])
}

func TestNominalMultiwaySkipsAbsentCodes(t *testing.T) {
	f := newFixture(t, classification(), nominalTarget(t, "A", "A", "B", "B", "A", "B"),
		nominalColumn(t, 0, "a", "a", "b", "b", "c", "c"))
	m, err := data.NewMembership(f.td, []float64{1, 1, 0, 0, 1, 1})
	require.NoError(t, err)
	c := f.best(t, 0, m)
	require.NotNil(t, c)
	assert.Equal(t, []int{0, 2}, c.(*split.NominalMultiwayCandidate).Codes())
	assert.Len(t, c.ChildWeights(m.Weights()), 2)

	single, err := data.NewMembership(f.td, []float64{1, 1, 0, 0, 0, 0})
	require.NoError(t, err)
	assert.Nil(t, f.best(t, 0, single), "one code present")
}

func TestNominalMultiwayRegression(t *testing.T) {
	f := newFixture(t, regression(), data.NewNumericTarget("y", []float64{1, 3, 10, 12}),
		nominalColumn(t, 0, "a", "a", "b", "b"))
	c := f.best(t, 0, f.root(t))
	require.NotNil(t, c)
	assert.InDelta(t, 16.0/2+484.0/2-26.0*26.0/4, c.Gain(), 1e-9)
}

func TestNominalMultiwayNoImprovement(t *testing.T) {
	f := newFixture(t, classification(), nominalTarget(t, "A", "B", "A", "B"),
		nominalColumn(t, 0, "a", "a", "b", "b"))
	assert.Nil(t, f.best(t, 0, f.root(t)))
}

func TestNominalBinaryTwoClass(t *testing.T) {
	f := newFixture(t, classification(data.WithBinaryNominalSplits(true)),
		nominalTarget(t, "A", "A", "B", "B", "A", "A", "B"),
		nominalColumn(t, 0, "a", "a", "b", "b", "c", "c", "c"))
	root := f.root(t)
	c := f.best(t, 0, root)
	require.NotNil(t, c)

	bc := c.(*split.NominalBinaryCandidate)
	assert.InDelta(t, 24.0/49.0-8.0/35.0, bc.Gain(), 1e-12)
	assert.True(t, bc.LeftCodes().Contains(1))
	assert.Equal(t, 1, bc.LeftCodes().Size())
	requireConservation(t, c, root.Weights())

	conds := bc.ChildConditions()
	assert.Equal(t, "n = b", conds[0].String())
	assert.Equal(t, "n in {a, c}", conds[1].String())
}

func TestNominalBinaryMulticlassExhaustive(t *testing.T) {
	f := newFixture(t, classification(data.WithBinaryNominalSplits(true)),
		nominalTarget(t, "A", "A", "A", "B", "B", "C", "C"),
		nominalColumn(t, 0, "a", "a", "a", "b", "b", "c", "c"))
	c := f.best(t, 0, f.root(t))
	require.NotNil(t, c)

	bc := c.(*split.NominalBinaryCandidate)
	assert.InDelta(t, 18.0/49.0, bc.Gain(), 1e-12)
	assert.True(t, bc.LeftCodes().Contains(0))
	assert.Equal(t, 1, bc.LeftCodes().Size())
}

func TestNominalBinaryMulticlassManyCodes(t *testing.T) {
	var labels, classes []string
	for code := 0; code < 12; code++ {
		for r := 0; r < 2; r++ {
			labels = append(labels, fmt.Sprintf("v%02d", code))
			classes = append(classes, []string{"A", "B", "C"}[code%3])
		}
	}
	f := newFixture(t, classification(data.WithBinaryNominalSplits(true), data.WithMinChildSize(2)),
		nominalTarget(t, classes...), nominalColumn(t, 0, labels...))
	root := f.root(t)
	c := f.best(t, 0, root)
	require.NotNil(t, c)

	bc := c.(*split.NominalBinaryCandidate)
	assert.Greater(t, bc.Gain(), 0.0)
	assert.False(t, bc.LeftCodes().Contains(11), "highest code goes right")
	assert.False(t, bc.LeftCodes().Empty())
	requireConservation(t, c, root.Weights())
}

func TestNominalBinaryRegressionBreiman(t *testing.T) {
	f := newFixture(t, regression(data.WithBinaryNominalSplits(true)),
		data.NewNumericTarget("y", []float64{10, 12, 1, 3, 5, 7}),
		nominalColumn(t, 0, "a", "a", "b", "b", "c", "c"))
	root := f.root(t)
	c := f.best(t, 0, root)
	require.NotNil(t, c)

	bc := c.(*split.NominalBinaryCandidate)
	assert.InDelta(t, 306-38.0*38.0/6, bc.Gain(), 1e-9)
	// best partition is {b, c} | {a}; flipped so code 2 stays right
	assert.True(t, bc.LeftCodes().Contains(0))
	assert.Equal(t, 1, bc.LeftCodes().Size())

	children := bc.ChildWeights(root.Weights())
	assert.Equal(t, []float64{1, 1, 0, 0, 0, 0}, children[0])
	assert.Equal(t, []float64{0, 0, 1, 1, 1, 1}, children[1])
}

func TestNominalBinaryMinChildSize(t *testing.T) {
	f := newFixture(t, classification(data.WithBinaryNominalSplits(true), data.WithMinChildSize(3)),
		nominalTarget(t, "A", "A", "B", "B"),
		nominalColumn(t, 0, "a", "a", "b", "b"))
	assert.Nil(t, f.best(t, 0, f.root(t)))
}
