// Package metrics provides evaluation metrics for fitted trees.
//
// Regression metrics:
//   - MSE, RMSE: mean squared error and its square root
//   - MAE: mean absolute error
//   - R2Score: coefficient of determination
//
// Classification metrics:
//   - Accuracy, ClassificationError: fraction of correct and incorrect labels
//   - AccuracyLabels: accuracy over string class labels
//
// Vector variants take *mat.VecDense. The Matrix variants accept n×1
// matrices as returned by Predict.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	tfErrors "github.com/ezoic/treeforge/pkg/errors"
)

func checkPair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yPred == nil {
		return 0, tfErrors.NewValueError(op, "input vectors cannot be nil")
	}
	n := yTrue.Len()
	if n == 0 {
		return 0, tfErrors.NewModelError(op, "empty vector", tfErrors.ErrEmptyData)
	}
	if yPred.Len() != n {
		return 0, tfErrors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// columnVector copies an n×1 matrix into a vector.
func columnVector(op string, m mat.Matrix) (*mat.VecDense, error) {
	r, c := m.Dims()
	if r == 0 {
		return nil, tfErrors.NewModelError(op, "empty matrix", tfErrors.ErrEmptyData)
	}
	if c != 1 {
		return nil, tfErrors.NewDimensionError(op, 1, c, 1)
	}
	return mat.NewVecDense(r, mat.Col(nil, 0, m)), nil
}

// MSE is the mean of the squared differences between yTrue and yPred.
//
// Example:
//
//	mse, err := metrics.MSE(yTrue, yPred)
//	if err != nil {
//	    log.Fatal(err)
//	}
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	var diff mat.VecDense
	diff.SubVec(yTrue, yPred)
	return mat.Dot(&diff, &diff) / float64(n), nil
}

// MSEMatrix is MSE for n×1 matrices.
func MSEMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	t, err := columnVector("MSEMatrix", yTrue)
	if err != nil {
		return 0, err
	}
	p, err := columnVector("MSEMatrix", yPred)
	if err != nil {
		return 0, err
	}
	return MSE(t, p)
}

// RMSE is the square root of MSE.
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE is the mean absolute difference between yTrue and yPred.
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// R2Score is 1 - RSS/TSS. It fails when yTrue is constant.
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	truth := mat.Col(nil, 0, yTrue)
	mean := stat.Mean(truth, nil)
	var tss, rss float64
	for i := 0; i < n; i++ {
		d := truth[i] - mean
		r := truth[i] - yPred.AtVec(i)
		tss += d * d
		rss += r * r
	}
	if tss == 0 {
		return 0, tfErrors.NewValueError("R2Score", "total sum of squares is zero (no variance in yTrue)")
	}
	return 1 - rss/tss, nil
}

// R2ScoreMatrix is R2Score for n×1 matrices.
func R2ScoreMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	t, err := columnVector("R2ScoreMatrix", yTrue)
	if err != nil {
		return 0, err
	}
	p, err := columnVector("R2ScoreMatrix", yPred)
	if err != nil {
		return 0, err
	}
	return R2Score(t, p)
}
