// Package split implements the per-column split search of a decision tree node.
//
// For every column variant there is one scan per target variant:
//
//	column     classification                 regression
//	numeric    impurity over value boundaries  sum-of-squares over value boundaries
//	nominal    multiway (or binary) partition  multiway (or Breiman binary) partition
//	bitvector  off/on partition                off/on partition
//
// Scans read the shared, immutable column store and the node's Membership.
// They never allocate per-row and never log except when an incrementally
// tracked total drifts from the recomputed one. A nil Candidate with a nil
// error means the column has no acceptable split.
package split

import (
	"fmt"

	tfErrors "github.com/ezoic/treeforge/pkg/errors"
	"github.com/ezoic/treeforge/pkg/log"
	"github.com/ezoic/treeforge/sklearn/tree/data"
)

// DriftTolerance is the relative difference between tracked and recomputed
// totals above which a scan logs a warning.
const DriftTolerance = 1e-3

// MaxExhaustiveNominalCodes is the largest number of present codes for which
// multiclass binary nominal splits enumerate every partition.
const MaxExhaustiveNominalCodes = 10

// BoundaryObserver receives every scored numeric boundary.
// Implementations must be safe for concurrent use when columns are searched in parallel.
type BoundaryObserver interface {
	ObserveBoundary(column data.Column, threshold, score float64)
}

// Engine searches splits under one configuration.
type Engine struct {
	cfg      data.Config
	observer BoundaryObserver
	logger   log.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithObserver installs a BoundaryObserver.
func WithObserver(o BoundaryObserver) EngineOption {
	return func(e *Engine) { e.observer = o }
}

// WithLogger replaces the engine's logger.
func WithLogger(l log.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine validates cfg and returns an Engine.
func NewEngine(cfg data.Config, opts ...EngineOption) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:    cfg,
		logger: log.GetLoggerWithName("split"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the validated configuration.
func (e *Engine) Config() data.Config { return e.cfg }

// BestSplitClassification returns the best split of column for a nominal target.
func (e *Engine) BestSplitClassification(column data.Column, m *data.Membership, priors *data.ClassificationPriors, target *data.NominalTarget) (Candidate, error) {
	tr := m.Tracker(column.AttributeIndex())
	if tr.Empty() {
		return nil, nil
	}
	switch c := column.(type) {
	case *data.NumericColumn:
		return e.numericClassification(c, tr, m.Weights(), priors, target), nil
	case *data.NominalColumn:
		if e.cfg.UseBinaryNominalSplits {
			return e.nominalBinaryClassification(c, tr, m.Weights(), priors, target), nil
		}
		return e.nominalMultiwayClassification(c, tr, m.Weights(), priors, target), nil
	case *data.BitVectorColumn:
		return e.bitVectorClassification(c, tr, m.Weights(), priors, target), nil
	}
	return nil, tfErrors.NewModelError("Engine.BestSplitClassification", fmt.Sprintf("%T", column), tfErrors.ErrUnsupportedColumn)
}

// BestSplitRegression returns the best split of column for a numeric target.
// Numeric columns require integer row weights.
func (e *Engine) BestSplitRegression(column data.Column, m *data.Membership, priors *data.RegressionPriors, target *data.NumericTarget) (Candidate, error) {
	tr := m.Tracker(column.AttributeIndex())
	if tr.Empty() {
		return nil, nil
	}
	switch c := column.(type) {
	case *data.NumericColumn:
		return e.numericRegression(c, tr, m.Weights(), priors, target)
	case *data.NominalColumn:
		if e.cfg.UseBinaryNominalSplits {
			return e.nominalBinaryRegression(c, tr, m.Weights(), priors, target), nil
		}
		return e.nominalMultiwayRegression(c, tr, m.Weights(), priors, target), nil
	case *data.BitVectorColumn:
		return e.bitVectorRegression(c, tr, m.Weights(), priors, target), nil
	}
	return nil, tfErrors.NewModelError("Engine.BestSplitRegression", fmt.Sprintf("%T", column), tfErrors.ErrUnsupportedColumn)
}

// BestSplitForColumn dispatches on the priors variant.
func (e *Engine) BestSplitForColumn(td *data.TreeData, column data.Column, m *data.Membership, priors data.Priors) (Candidate, error) {
	switch p := priors.(type) {
	case *data.ClassificationPriors:
		target, ok := td.Target().(*data.NominalTarget)
		if !ok {
			return nil, tfErrors.NewModelError("Engine.BestSplitForColumn", "classification priors with numeric target", tfErrors.ErrUnsupportedColumn)
		}
		return e.BestSplitClassification(column, m, p, target)
	case *data.RegressionPriors:
		target, ok := td.Target().(*data.NumericTarget)
		if !ok {
			return nil, tfErrors.NewModelError("Engine.BestSplitForColumn", "regression priors with nominal target", tfErrors.ErrUnsupportedColumn)
		}
		return e.BestSplitRegression(column, m, p, target)
	}
	return nil, tfErrors.NewModelError("Engine.BestSplitForColumn", fmt.Sprintf("%T", priors), tfErrors.ErrUnsupportedColumn)
}

// threshold places the split point between two neighbouring sorted values.
// It always satisfies left <= threshold < right, so rows equal to right are
// routed right even when the midpoint rounds up to right.
func (e *Engine) threshold(left, right float64) float64 {
	if e.cfg.UseAverageSplitPoints {
		if mid := left + 0.5*(right-left); mid < right {
			return mid
		}
	}
	return left
}

func (e *Engine) observe(column data.Column, threshold, score float64) {
	if e.observer != nil {
		e.observer.ObserveBoundary(column, threshold, score)
	}
}

func (e *Engine) checkDrift(column data.Column, quantity string, tracked, recomputed float64) {
	if err := tfErrors.CheckDrift("split", quantity, tracked, recomputed, DriftTolerance); err != nil {
		e.logger.Warn("Numerical drift in split scan", log.ColumnKey, column.Name(), log.ErrorKey, err)
	}
}

func (e *Engine) minChild() float64 { return float64(e.cfg.MinChildSize) }
