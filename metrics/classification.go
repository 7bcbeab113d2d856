package metrics

import (
	"gonum.org/v1/gonum/mat"

	tfErrors "github.com/ezoic/treeforge/pkg/errors"
)

// ClassificationError is the fraction of positions where yTrue and yPred differ.
//
// Example:
//
//	yTrue := mat.NewVecDense(5, []float64{0, 1, 2, 1, 0})
//	yPred := mat.NewVecDense(5, []float64{0, 1, 1, 1, 0})
//	rate, _ := metrics.ClassificationError(yTrue, yPred) // 0.2
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("ClassificationError", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	wrong := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) != yPred.AtVec(i) {
			wrong++
		}
	}
	return float64(wrong) / float64(n), nil
}

// Accuracy is 1 - ClassificationError.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	rate, err := ClassificationError(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - rate, nil
}

// AccuracyMatrix is Accuracy for n×1 matrices.
func AccuracyMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	t, err := columnVector("AccuracyMatrix", yTrue)
	if err != nil {
		return 0, err
	}
	p, err := columnVector("AccuracyMatrix", yPred)
	if err != nil {
		return 0, err
	}
	return Accuracy(t, p)
}

// AccuracyLabels compares class labels directly.
func AccuracyLabels(yTrue, yPred []string) (float64, error) {
	if len(yTrue) == 0 {
		return 0, tfErrors.NewModelError("AccuracyLabels", "empty labels", tfErrors.ErrEmptyData)
	}
	if len(yPred) != len(yTrue) {
		return 0, tfErrors.NewDimensionError("AccuracyLabels", len(yTrue), len(yPred), 0)
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue)), nil
}
