package data_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tfErrors "github.com/ezoic/treeforge/pkg/errors"
	"github.com/ezoic/treeforge/sklearn/tree/data"
	"github.com/ezoic/treeforge/sklearn/tree/impurity"
)

func TestBuildAssignsAttributeIndices(t *testing.T) {
	num := data.NewNumericColumnCreator("x")
	nom := data.NewNominalColumnCreator("n")
	bits := data.NewBitVectorColumnCreator("b")
	target := data.NewNominalTargetCreator("y")
	rows := []struct {
		x    float64
		n    string
		bits []bool
		y    string
	}{
		{1, "u", []bool{true, false}, "A"},
		{3, "v", []bool{false, false}, "B"},
		{2, "u", []bool{true, true}, "A"},
	}
	for _, r := range rows {
		require.NoError(t, num.Add("", data.NumberCell(r.x)))
		require.NoError(t, nom.Add("", data.LabelCell(r.n)))
		require.NoError(t, bits.Add("", data.BitsCell(r.bits)))
		require.NoError(t, target.Add("", data.LabelCell(r.y)))
	}

	td, err := data.Build([]data.ColumnCreator{num, nom, bits}, target, data.DefaultConfig())
	require.NoError(t, err)
	require.Len(t, td.Columns(), 4)
	for i, c := range td.Columns() {
		assert.Equal(t, i, c.AttributeIndex())
	}
	assert.Equal(t, data.Mixed, td.TreeType())
	assert.Equal(t, 3, td.RowCount())
	assert.Equal(t, []float64{1, 1, 1}, td.UniformWeights())
	assert.Contains(t, td.String(), "b[1]")
	assert.False(t, td.IsRegression())
}

func TestNewTreeDataValidation(t *testing.T) {
	x := data.NewNumericColumn("x", 0, []float64{1, 2, 3})
	y := data.NewNumericTarget("y", []float64{1, 2, 3})
	regCfg := data.Config{MinChildSize: 1, IsRegression: true, Criterion: impurity.Variance}

	td, err := data.NewTreeData([]data.Column{x}, y, regCfg)
	require.NoError(t, err)
	assert.Equal(t, data.Ordinary, td.TreeType())
	assert.Equal(t, 2, td.Config().MinNodeSize)

	_, err = data.NewTreeData([]data.Column{x}, y, data.DefaultConfig())
	assert.ErrorIs(t, err, tfErrors.ErrInvalidConfiguration, "classification config with numeric target")

	short := data.NewNumericColumn("s", 0, []float64{1, 2})
	_, err = data.NewTreeData([]data.Column{short}, y, regCfg)
	var dimErr *tfErrors.DimensionError
	assert.ErrorAs(t, err, &dimErr)

	misnumbered := data.NewNumericColumn("m", 4, []float64{1, 2, 3})
	_, err = data.NewTreeData([]data.Column{misnumbered}, y, regCfg)
	assert.ErrorIs(t, err, tfErrors.ErrIndexOutOfRange)

	_, err = data.NewTreeData(nil, y, regCfg)
	assert.ErrorIs(t, err, tfErrors.ErrEmptyData)
}

func TestConfigValidate(t *testing.T) {
	cfg, err := data.NewConfig(data.WithMinChildSize(3))
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.MinNodeSize)
	assert.True(t, cfg.UseAverageSplitPoints)

	_, err = data.NewConfig(data.WithMinChildSize(0))
	assert.ErrorIs(t, err, tfErrors.ErrInvalidConfiguration)

	_, err = data.NewConfig(data.WithMinChildSize(3), data.WithMinNodeSize(5))
	assert.ErrorIs(t, err, tfErrors.ErrInvalidConfiguration)

	_, err = data.NewConfig(data.WithCriterion(impurity.Variance))
	assert.ErrorIs(t, err, tfErrors.ErrInvalidConfiguration)

	cfg, err = data.NewConfig(data.WithRegression())
	require.NoError(t, err)
	assert.Equal(t, impurity.Variance, cfg.Criterion)

	cfg, err = data.NewConfig(data.WithRegression(), data.WithCriterion(impurity.Gini))
	require.NoError(t, err, "regression overrides the classification criterion")
	assert.Equal(t, impurity.Variance, cfg.Criterion)

	raw := data.Config{MinChildSize: 1, IsRegression: true, Criterion: impurity.InformationGainRatio}
	require.NoError(t, raw.Validate())
	assert.Equal(t, impurity.Variance, raw.Criterion)

	_, err = data.NewConfig(data.WithMaxLevels(-1))
	assert.Error(t, err)

	cfg, err = data.NewConfig(data.WithNumWorkers(3))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers())
}
