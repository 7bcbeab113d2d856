package tree

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/treeforge/metrics"
	"github.com/ezoic/treeforge/sklearn/tree/data"
)

// Score returns the accuracy of Predict(X) against y.
func (dt *DecisionTreeClassifier) Score(X, y mat.Matrix) (float64, error) {
	pred, err := dt.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.AccuracyMatrix(y, pred)
}

// ScoreTreeData returns the accuracy of the tree on the rows of td.
func (dt *DecisionTreeClassifier) ScoreTreeData(td *data.TreeData) (float64, error) {
	pred, err := dt.PredictTreeData(td)
	if err != nil {
		return 0, err
	}
	target := td.Target().(*data.NominalTarget)
	truth := make([]string, target.Len())
	for i := range truth {
		truth[i] = target.Values().Label(target.CodeFor(i))
	}
	return metrics.AccuracyLabels(truth, pred)
}

// Score returns the R² of Predict(X) against y.
func (dt *DecisionTreeRegressor) Score(X, y mat.Matrix) (float64, error) {
	pred, err := dt.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2ScoreMatrix(y, pred)
}

// ScoreTreeData returns the R² of the tree on the rows of td.
func (dt *DecisionTreeRegressor) ScoreTreeData(td *data.TreeData) (float64, error) {
	pred, err := dt.PredictTreeData(td)
	if err != nil {
		return 0, err
	}
	target := td.Target().(*data.NumericTarget)
	truth := make([]float64, target.Len())
	for i := range truth {
		truth[i] = target.ValueFor(i)
	}
	return metrics.R2Score(mat.NewVecDense(len(truth), truth), mat.NewVecDense(len(pred), pred))
}
