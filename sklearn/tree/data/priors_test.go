package data_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	tfErrors "github.com/ezoic/treeforge/pkg/errors"
	"github.com/ezoic/treeforge/sklearn/tree/data"
	"github.com/ezoic/treeforge/sklearn/tree/impurity"
)

func TestMajorityTieBreak(t *testing.T) {
	gini := impurity.GiniCriterion{}
	assert.Equal(t, 2, data.NewClassificationPriors([]float64{3, 3, 5}, gini).MajorityCode())
	assert.Equal(t, 0, data.NewClassificationPriors([]float64{5, 5}, gini).MajorityCode())
	assert.Equal(t, 1, data.NewClassificationPriors([]float64{1, 4, 4}, gini).MajorityCode())
}

func nominalTarget(t *testing.T, labels ...string) *data.NominalTarget {
	t.Helper()
	cr := data.NewNominalTargetCreator("class")
	for _, l := range labels {
		require.NoError(t, cr.Add(l, data.LabelCell(l)))
	}
	tgt, err := cr.CreateTarget()
	require.NoError(t, err)
	return tgt.(*data.NominalTarget)
}

func TestClassificationPriors(t *testing.T) {
	tgt := nominalTarget(t, "A", "B", "A", "C", "B", "B")
	weights := []float64{1, 2, 0, 1, 0.5, 1e-12}

	p, err := data.ComputePriors(tgt, weights, data.DefaultConfig())
	require.NoError(t, err)
	cp := p.(*data.ClassificationPriors)

	assert.Equal(t, []float64{1, 2.5, 1}, cp.Distribution())
	assert.InDelta(t, 4.5, cp.TotalWeight(), 1e-12)
	assert.Equal(t, 1, cp.MajorityCode())
	want := 1 - (1.0/4.5)*(1.0/4.5) - (2.5/4.5)*(2.5/4.5) - (1.0/4.5)*(1.0/4.5)
	assert.InDelta(t, want, cp.Impurity(), 1e-12)
	assert.InDeltaSlice(t, []float64{1 / 4.5, 2.5 / 4.5, 1 / 4.5}, cp.Probabilities(), 1e-12)
}

func TestRegressionPriorsMatchTwoPass(t *testing.T) {
	ys := []float64{1, 5, 4, 4.3, 6.5, 6.5, 4, 3, 3, 4}
	weights := []float64{1, 2, 1, 0, 3, 1, 1, 2, 1, 1}
	tgt := data.NewNumericTarget("y", ys)

	p, err := data.ComputePriors(tgt, weights, data.Config{MinChildSize: 1, IsRegression: true, Criterion: impurity.Variance})
	require.NoError(t, err)
	rp := p.(*data.RegressionPriors)

	mean, variance := stat.PopMeanVariance(ys, weights)
	assert.InDelta(t, 13.0, rp.TotalWeight(), 1e-12)
	assert.InDelta(t, mean, rp.Mean(), 1e-12)
	assert.InDelta(t, variance, rp.Variance(), 1e-9)
	assert.InDelta(t, variance*13, rp.SumSquaredDeviation(), 1e-9)

	var ySum float64
	for i, y := range ys {
		ySum += weights[i] * y
	}
	assert.InDelta(t, ySum, rp.YSum(), 1e-12)
	assert.InDelta(t, ySum*ySum/13, rp.Criterion(), 1e-9)
}

func TestComputePriorsLengthMismatch(t *testing.T) {
	tgt := data.NewNumericTarget("y", []float64{1, 2, 3})
	_, err := data.ComputePriors(tgt, []float64{1, 1}, data.DefaultConfig())
	var dimErr *tfErrors.DimensionError
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, 3, dimErr.Expected)
}
