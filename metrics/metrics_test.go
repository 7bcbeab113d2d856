package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/treeforge/metrics"
	tfErrors "github.com/ezoic/treeforge/pkg/errors"
)

func TestRegressionMetrics(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{1, 2, 3, 4})
	yPred := mat.NewVecDense(4, []float64{2, 2, 3, 2})

	mse, err := metrics.MSE(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 1.25, mse, 1e-12)

	rmse, err := metrics.RMSE(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 1.118033988749895, rmse, 1e-12)

	mae, err := metrics.MAE(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, mae, 1e-12)

	r2, err := metrics.R2Score(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, r2, 1e-12)
}

func TestMatrixVariants(t *testing.T) {
	yTrue := mat.NewDense(3, 1, []float64{0, 1, 1})
	yPred := mat.NewDense(3, 1, []float64{0, 1, 0})

	acc, err := metrics.AccuracyMatrix(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, acc, 1e-12)

	mse, err := metrics.MSEMatrix(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, mse, 1e-12)

	_, err = metrics.MSEMatrix(mat.NewDense(2, 2, nil), mat.NewDense(2, 2, nil))
	var dimErr *tfErrors.DimensionError
	assert.ErrorAs(t, err, &dimErr)
}

func TestMetricErrors(t *testing.T) {
	_, err := metrics.MSE(mat.NewVecDense(2, nil), mat.NewVecDense(3, nil))
	var dimErr *tfErrors.DimensionError
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, 2, dimErr.Expected)

	_, err = metrics.R2Score(mat.NewVecDense(2, []float64{1, 1}), mat.NewVecDense(2, []float64{1, 2}))
	assert.Error(t, err)

	_, err = metrics.AccuracyLabels(nil, nil)
	assert.ErrorIs(t, err, tfErrors.ErrEmptyData)

	_, err = metrics.Accuracy(nil, mat.NewVecDense(1, nil))
	assert.Error(t, err)
}
