package tree

import (
	"context"
	"strconv"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/treeforge/core/model"
	"github.com/ezoic/treeforge/core/parallel"
	"github.com/ezoic/treeforge/pkg/dataset"
	tfErrors "github.com/ezoic/treeforge/pkg/errors"
	"github.com/ezoic/treeforge/pkg/log"
	"github.com/ezoic/treeforge/sklearn/tree/data"
	"github.com/ezoic/treeforge/sklearn/tree/impurity"
	"github.com/ezoic/treeforge/sklearn/tree/split"
)

type params struct {
	cfg      data.Config
	observer split.BoundaryObserver
}

// Option is a functional option for both estimators.
type Option func(*params)

// WithConfig replaces the whole configuration.
func WithConfig(cfg data.Config) Option {
	return func(p *params) { p.cfg = cfg }
}

// WithCriterion sets the classification impurity criterion.
func WithCriterion(k impurity.Kind) Option {
	return func(p *params) { p.cfg.Criterion = k }
}

// WithMaxLevels bounds tree depth. 0 means unlimited.
func WithMaxLevels(n int) Option {
	return func(p *params) { p.cfg.MaxLevels = n }
}

// WithMinChildSize sets the minimum weight of each child.
func WithMinChildSize(n int) Option {
	return func(p *params) { p.cfg.MinChildSize = n }
}

// WithMinNodeSize sets the minimum weight of a node that may be split.
func WithMinNodeSize(n int) Option {
	return func(p *params) { p.cfg.MinNodeSize = n }
}

// WithAverageSplitPoints places numeric thresholds between neighbouring values.
func WithAverageSplitPoints(b bool) Option {
	return func(p *params) { p.cfg.UseAverageSplitPoints = b }
}

// WithBinaryNominalSplits makes nominal attributes split two ways.
func WithBinaryNominalSplits(b bool) Option {
	return func(p *params) { p.cfg.UseBinaryNominalSplits = b }
}

// WithNumWorkers bounds the goroutines searching the columns of one node.
func WithNumWorkers(n int) Option {
	return func(p *params) { p.cfg.NumWorkers = n }
}

// WithObserver receives every scored numeric boundary during Fit.
func WithObserver(o split.BoundaryObserver) Option {
	return func(p *params) { p.observer = o }
}

func newParams(regression bool, opts []Option) params {
	p := params{cfg: data.DefaultConfig()}
	if regression {
		p.cfg.IsRegression = true
		p.cfg.Criterion = impurity.Variance
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func (p params) hyperparameters() map[string]interface{} {
	return map[string]interface{}{
		"min_child_size":            p.cfg.MinChildSize,
		"min_node_size":             p.cfg.MinNodeSize,
		"max_levels":                p.cfg.MaxLevels,
		"use_average_split_points":  p.cfg.UseAverageSplitPoints,
		"use_binary_nominal_splits": p.cfg.UseBinaryNominalSplits,
		"impurity_criterion":        p.cfg.Criterion.String(),
	}
}

// fit grows a tree on td with td's own configuration.
func fit(ctx context.Context, be *model.BaseEstimator, p params, td *data.TreeData) (*Tree, error) {
	start := time.Now()
	be.LogInfo("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, td.RowCount(),
		log.FeaturesKey, len(td.Columns()))

	opts := []split.EngineOption{}
	if p.observer != nil {
		opts = append(opts, split.WithObserver(p.observer))
	}
	if l := be.GetLogger(); l != nil {
		opts = append(opts, split.WithLogger(l))
	}
	engine, err := split.NewEngine(td.Config(), opts...)
	if err != nil {
		return nil, err
	}
	t, err := NewGrower(engine, be.GetLogger()).Grow(ctx, td)
	if err != nil {
		be.LogError("Training failed", log.ErrorKey, err)
		return nil, err
	}
	be.LogInfo("Training completed",
		log.OperationKey, log.OperationFit,
		log.NodeKey, t.NodeCount(),
		log.DurationMsKey, time.Since(start).Milliseconds())
	return t, nil
}

// denseTreeData wraps X and the single column of y.
func denseTreeData(op string, X, y mat.Matrix, cfg data.Config) (*data.TreeData, error) {
	rows, _ := X.Dims()
	yRows, yCols := y.Dims()
	if yCols != 1 {
		return nil, tfErrors.NewDimensionError(op, 1, yCols, 1)
	}
	if yRows != rows {
		return nil, tfErrors.NewDimensionError(op, rows, yRows, 0)
	}
	tbl, err := dataset.FromDense(X, mat.Col(nil, 0, y), nil, cfg.IsRegression)
	if err != nil {
		return nil, err
	}
	return tbl.TreeData(cfg)
}

// denseLeaves routes every row of X. Large matrices are routed in parallel.
func denseLeaves(op string, t *Tree, X mat.Matrix) ([]*Node, error) {
	if !t.NumericOnly() {
		return nil, tfErrors.NewModelError(op, "tree splits on non-numeric attributes, use the TreeData variant", tfErrors.ErrUnsupportedColumn)
	}
	rows, cols := X.Dims()
	if cols != len(t.Columns) {
		return nil, tfErrors.NewDimensionError(op, len(t.Columns), cols, 1)
	}
	leaves := make([]*Node, rows)
	parallel.ParallelizeWithThreshold(rows, parallel.DefaultThreshold, func(start, end int) {
		row := make([]split.Value, cols)
		for i := start; i < end; i++ {
			for j := range row {
				row[j] = split.Value{Number: X.At(i, j)}
			}
			leaves[i] = t.Leaf(row)
		}
	})
	return leaves, nil
}

func logPredicted(be *model.BaseEstimator, n int) {
	be.LogDebug("Prediction completed",
		log.OperationKey, log.OperationPredict,
		log.PhaseKey, log.PhaseInference,
		log.SamplesKey, n)
}

// PredictDense routes every row of the numeric matrix X. Regression trees
// yield the leaf mean; classification trees yield the leaf majority label,
// which must parse as a number.
func (t *Tree) PredictDense(X mat.Matrix) ([]float64, error) {
	leaves, err := denseLeaves("Tree.PredictDense", t, X)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(leaves))
	for i, n := range leaves {
		if t.Regression {
			out[i] = n.Mean
			continue
		}
		v, err := strconv.ParseFloat(n.Majority, 64)
		if err != nil {
			return nil, tfErrors.NewValueError("Tree.PredictDense", "class label "+strconv.Quote(n.Majority)+" is not numeric")
		}
		out[i] = v
	}
	return out, nil
}

// RowValues decodes every row of td into the values the tree routes on.
// Nominal codes are only meaningful for trees grown on the same value tables.
func RowValues(td *data.TreeData) [][]split.Value {
	rows := make([][]split.Value, td.RowCount())
	for i := range rows {
		rows[i] = make([]split.Value, len(td.Columns()))
	}
	for j, col := range td.Columns() {
		switch c := col.(type) {
		case *data.NumericColumn:
			for pos, row := range c.OriginalIndex() {
				rows[row][j].Number = c.ValueAt(pos)
			}
		case *data.NominalColumn:
			for pos, row := range c.OriginalIndex() {
				rows[row][j].Code = c.CodeAt(pos)
			}
		case *data.BitVectorColumn:
			for row := range rows {
				rows[row][j].Bit = c.IsSet(row)
			}
		}
	}
	return rows
}

// DecisionTreeClassifier grows a classification tree.
type DecisionTreeClassifier struct {
	model.BaseEstimator

	// Model is the grown tree. Exported for gob encoding.
	Model *Tree

	params params
}

// NewDecisionTreeClassifier creates a classifier with Gini impurity and
// averaged split points unless opts say otherwise.
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	dt := &DecisionTreeClassifier{params: newParams(false, opts)}
	dt.ModelType = "DecisionTreeClassifier"
	dt.Version = "1.0.0"
	dt.SetLogger(log.GetLoggerWithName("DecisionTreeClassifier"))
	_ = dt.SetParams(dt.params.hyperparameters())
	return dt
}

// Fit grows the tree on numeric features X and class values y (n×1).
func (dt *DecisionTreeClassifier) Fit(X, y mat.Matrix) (err error) {
	defer tfErrors.Recover(&err, "DecisionTreeClassifier.Fit")
	td, err := denseTreeData("DecisionTreeClassifier.Fit", X, y, dt.params.cfg)
	if err != nil {
		return err
	}
	return dt.FitTreeData(context.Background(), td)
}

// FitTreeData grows the tree on a prepared column store using td's configuration.
func (dt *DecisionTreeClassifier) FitTreeData(ctx context.Context, td *data.TreeData) (err error) {
	defer tfErrors.Recover(&err, "DecisionTreeClassifier.FitTreeData")
	if td.IsRegression() {
		return tfErrors.NewValidationError("is_regression", "classifier needs a nominal target", true)
	}
	t, err := fit(ctx, &dt.BaseEstimator, dt.params, td)
	if err != nil {
		return err
	}
	dt.Model = t
	dt.SetFitted()
	return nil
}

func (dt *DecisionTreeClassifier) leaves(op string, X mat.Matrix) ([]*Node, error) {
	if !dt.IsFitted() {
		return nil, tfErrors.NewNotFittedError("DecisionTreeClassifier", op)
	}
	return denseLeaves("DecisionTreeClassifier."+op, dt.Model, X)
}

// Predict returns the majority class of each row's leaf as an n×1 matrix.
// It requires a tree fitted with Fit, whose class labels are numbers.
func (dt *DecisionTreeClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !dt.IsFitted() {
		return nil, tfErrors.NewNotFittedError("DecisionTreeClassifier", "Predict")
	}
	pred, err := dt.Model.PredictDense(X)
	if err != nil {
		return nil, err
	}
	logPredicted(&dt.BaseEstimator, len(pred))
	return mat.NewDense(len(pred), 1, pred), nil
}

// PredictProba returns the leaf class distribution of each row, one column
// per class in Model.Classes order.
func (dt *DecisionTreeClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	leaves, err := dt.leaves("PredictProba", X)
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(len(leaves), len(dt.Model.Classes), nil)
	for i, n := range leaves {
		out.SetRow(i, n.Probabilities())
	}
	return out, nil
}

// PredictTreeData returns the predicted class label of every row of td.
func (dt *DecisionTreeClassifier) PredictTreeData(td *data.TreeData) ([]string, error) {
	if !dt.IsFitted() {
		return nil, tfErrors.NewNotFittedError("DecisionTreeClassifier", "PredictTreeData")
	}
	rows := RowValues(td)
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = dt.Model.Leaf(row).Majority
	}
	return out, nil
}

// Tree returns the grown tree, nil before Fit.
func (dt *DecisionTreeClassifier) Tree() *Tree { return dt.Model }

// DecisionTreeRegressor grows a regression tree.
type DecisionTreeRegressor struct {
	model.BaseEstimator

	// Model is the grown tree. Exported for gob encoding.
	Model *Tree

	params params
}

// NewDecisionTreeRegressor creates a regressor. Row weights must be integral.
func NewDecisionTreeRegressor(opts ...Option) *DecisionTreeRegressor {
	dt := &DecisionTreeRegressor{params: newParams(true, opts)}
	dt.ModelType = "DecisionTreeRegressor"
	dt.Version = "1.0.0"
	dt.SetLogger(log.GetLoggerWithName("DecisionTreeRegressor"))
	_ = dt.SetParams(dt.params.hyperparameters())
	return dt
}

// Fit grows the tree on numeric features X and targets y (n×1).
func (dt *DecisionTreeRegressor) Fit(X, y mat.Matrix) (err error) {
	defer tfErrors.Recover(&err, "DecisionTreeRegressor.Fit")
	td, err := denseTreeData("DecisionTreeRegressor.Fit", X, y, dt.params.cfg)
	if err != nil {
		return err
	}
	return dt.FitTreeData(context.Background(), td)
}

// FitTreeData grows the tree on a prepared column store using td's configuration.
func (dt *DecisionTreeRegressor) FitTreeData(ctx context.Context, td *data.TreeData) (err error) {
	defer tfErrors.Recover(&err, "DecisionTreeRegressor.FitTreeData")
	if !td.IsRegression() {
		return tfErrors.NewValidationError("is_regression", "regressor needs a numeric target", false)
	}
	t, err := fit(ctx, &dt.BaseEstimator, dt.params, td)
	if err != nil {
		return err
	}
	dt.Model = t
	dt.SetFitted()
	return nil
}

// Predict returns the leaf mean of each row as an n×1 matrix.
func (dt *DecisionTreeRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !dt.IsFitted() {
		return nil, tfErrors.NewNotFittedError("DecisionTreeRegressor", "Predict")
	}
	pred, err := dt.Model.PredictDense(X)
	if err != nil {
		return nil, err
	}
	logPredicted(&dt.BaseEstimator, len(pred))
	return mat.NewDense(len(pred), 1, pred), nil
}

// PredictTreeData returns the predicted value of every row of td.
func (dt *DecisionTreeRegressor) PredictTreeData(td *data.TreeData) ([]float64, error) {
	if !dt.IsFitted() {
		return nil, tfErrors.NewNotFittedError("DecisionTreeRegressor", "PredictTreeData")
	}
	rows := RowValues(td)
	out := make([]float64, len(rows))
	for i, row := range rows {
		out[i] = dt.Model.Leaf(row).Mean
	}
	return out, nil
}

// Tree returns the grown tree, nil before Fit.
func (dt *DecisionTreeRegressor) Tree() *Tree { return dt.Model }
