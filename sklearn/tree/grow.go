package tree

import (
	"context"
	"time"

	tfErrors "github.com/ezoic/treeforge/pkg/errors"
	"github.com/ezoic/treeforge/pkg/log"
	"github.com/ezoic/treeforge/sklearn/tree/data"
	"github.com/ezoic/treeforge/sklearn/tree/split"
)

// Grower builds a Tree depth first with one Engine.
type Grower struct {
	engine *split.Engine
	logger log.Logger
}

// NewGrower returns a Grower. A nil logger disables logging.
func NewGrower(engine *split.Engine, logger log.Logger) *Grower {
	if logger == nil {
		logger = log.Nop()
	}
	return &Grower{engine: engine, logger: logger}
}

// Grow builds a tree over every row of td.
//
// A node becomes a leaf when it is pure, when it is at depth MaxLevels, when
// its total weight is below MinNodeSize, or when no column yields a split
// with positive gain. ctx is checked before each node is expanded.
func (g *Grower) Grow(ctx context.Context, td *data.TreeData) (*Tree, error) {
	root, err := data.NewMembership(td, td.UniformWeights())
	if err != nil {
		return nil, err
	}
	return g.GrowFrom(ctx, td, root)
}

// GrowFrom builds a tree over the rows of m, which may carry arbitrary
// non-negative weights.
func (g *Grower) GrowFrom(ctx context.Context, td *data.TreeData, m *data.Membership) (*Tree, error) {
	start := time.Now()
	t := &Tree{
		Regression: td.IsRegression(),
		Criterion:  td.Config().Criterion.String(),
		Target:     td.Target().Name(),
	}
	for _, c := range td.Columns() {
		t.Columns = append(t.Columns, c.Name())
	}
	if nt, ok := td.Target().(*data.NominalTarget); ok {
		t.Classes = nt.Values().Labels()
	}

	var nextID int
	root, err := g.grow(ctx, td, m, 0, "", &nextID)
	if err != nil {
		return nil, err
	}
	t.Root = root
	g.logger.Info("Tree grown",
		log.OperationKey, log.OperationFit,
		log.NodeKey, nextID,
		log.DepthKey, t.Depth(),
		log.DurationMsKey, time.Since(start).Milliseconds())
	return t, nil
}

func (g *Grower) grow(ctx context.Context, td *data.TreeData, m *data.Membership, depth int, condition string, nextID *int) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, tfErrors.Wrap(err, "grow")
	}
	cfg := td.Config()
	priors, err := data.ComputePriors(td.Target(), m.Weights(), cfg)
	if err != nil {
		return nil, err
	}
	n := newNode(*nextID, depth, condition, priors, td.Target())
	*nextID++

	if !g.splittable(cfg, priors, depth) {
		return n, nil
	}
	best, err := g.engine.BestSplit(ctx, td, m, priors)
	if err != nil {
		return nil, err
	}
	if best == nil || best.Gain() <= 0 {
		return n, nil
	}
	children, err := split.Children(best, m)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("Node split",
		log.OperationKey, log.OperationSplit,
		log.PhaseKey, log.PhaseSearch,
		log.NodeKey, n.ID,
		log.DepthKey, depth,
		log.ColumnKey, best.Column().Name(),
		log.GainKey, best.Gain())

	n.Split = newRule(best)
	conditions := best.ChildConditions()
	for i, child := range children {
		c, err := g.grow(ctx, td, child, depth+1, conditions[i].String(), nextID)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, c)
	}
	return n, nil
}

func (g *Grower) splittable(cfg data.Config, priors data.Priors, depth int) bool {
	if cfg.MaxLevels > 0 && depth >= cfg.MaxLevels {
		return false
	}
	if priors.TotalWeight() < float64(cfg.MinNodeSize) {
		return false
	}
	switch p := priors.(type) {
	case *data.ClassificationPriors:
		return p.Impurity() >= data.Epsilon
	case *data.RegressionPriors:
		return p.SumSquaredDeviation() >= data.Epsilon
	}
	return false
}

func newNode(id, depth int, condition string, priors data.Priors, target data.Target) *Node {
	n := &Node{ID: id, Depth: depth, Condition: condition, TotalWeight: priors.TotalWeight()}
	switch p := priors.(type) {
	case *data.ClassificationPriors:
		n.Distribution = append([]float64(nil), p.Distribution()...)
		n.Impurity = p.Impurity()
		n.MajorityCode = p.MajorityCode()
		n.Majority = target.(*data.NominalTarget).Values().Label(n.MajorityCode)
	case *data.RegressionPriors:
		n.Mean = p.Mean()
		n.Impurity = p.Variance()
	}
	return n
}
