package impurity_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/treeforge/sklearn/tree/impurity"
)

func TestGini(t *testing.T) {
	c := impurity.GiniCriterion{}
	assert.InDelta(t, 0.5, c.PartitionImpurity([]float64{2, 2}, 4), 1e-12)
	assert.InDelta(t, 0.0, c.PartitionImpurity([]float64{4, 0}, 4), 1e-12)
	assert.InDelta(t, 0.42, c.PartitionImpurity([]float64{7, 3}, 10), 1e-12)
	assert.Equal(t, 0.0, c.PartitionImpurity([]float64{0, 0}, 0))
}

func TestEntropy(t *testing.T) {
	c := impurity.EntropyCriterion{}
	assert.InDelta(t, 1.0, c.PartitionImpurity([]float64{5, 5}, 10), 1e-12)
	assert.InDelta(t, 0.0, c.PartitionImpurity([]float64{0, 5}, 5), 1e-12)
	assert.InDelta(t, math.Log2(3), c.PartitionImpurity([]float64{1, 1, 1}, 3), 1e-12)
}

func TestPostSplitAndGain(t *testing.T) {
	c := impurity.GiniCriterion{}
	// left {2,1}, right {0,1}
	left := c.PartitionImpurity([]float64{2, 1}, 3)
	right := c.PartitionImpurity([]float64{0, 1}, 1)
	post := c.PostSplitImpurity([]float64{left, right}, []float64{3, 1}, 4)
	assert.InDelta(t, 1.0/3.0, post, 1e-12)
	assert.InDelta(t, 0.5-1.0/3.0, c.Gain(0.5, post, []float64{3, 1}, 4), 1e-12)
}

func TestGainRatio(t *testing.T) {
	c := impurity.GainRatioCriterion{}
	// even split: split info 1, so ratio equals plain gain
	assert.InDelta(t, 0.4, c.Gain(1.0, 0.6, []float64{5, 5}, 10), 1e-12)
	// uneven split: divided by entropy of (0.25, 0.75)
	splitInfo := -(0.25*math.Log2(0.25) + 0.75*math.Log2(0.75))
	assert.InDelta(t, 0.4/splitInfo, c.Gain(1.0, 0.6, []float64{1, 3}, 4), 1e-12)
	// degenerate split info
	assert.Equal(t, 0.0, c.Gain(1.0, 0.6, []float64{4, 0}, 4))
}

func TestPlainGain(t *testing.T) {
	assert.InDelta(t, 0.4, impurity.PlainGain(1.0, 0.6), 1e-12)
	assert.Equal(t, 0.0, impurity.PlainGain(0.5, 0.5))
	assert.Negative(t, impurity.PlainGain(0.5, 0.6))

	// selection quantity stays prior - post when the reported gain is a ratio
	ratio := impurity.GainRatioCriterion{}
	assert.NotEqual(t, impurity.PlainGain(1.0, 0.6), ratio.Gain(1.0, 0.6, []float64{1, 3}, 4))
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]impurity.Kind{
		"gini":       impurity.Gini,
		"Entropy":    impurity.InformationGain,
		"gain_ratio": impurity.InformationGainRatio,
		"variance":   impurity.Variance,
	} {
		got, err := impurity.ParseKind(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, want.String(), got.String())
	}
	_, err := impurity.ParseKind("chi2")
	assert.Error(t, err)

	var k impurity.Kind
	require.NoError(t, k.UnmarshalText([]byte("entropy")))
	assert.Equal(t, impurity.InformationGain, k)
	assert.False(t, impurity.Variance.IsClassification())
}

func TestNew(t *testing.T) {
	for _, k := range []impurity.Kind{impurity.Gini, impurity.InformationGain, impurity.InformationGainRatio, impurity.Variance} {
		c, err := impurity.New(k)
		require.NoError(t, err)
		assert.Equal(t, k, c.Kind())
	}
	_, err := impurity.New(impurity.Kind(42))
	assert.Error(t, err)
}
