package split_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/ezoic/treeforge/pkg/log"
	"github.com/ezoic/treeforge/sklearn/tree/data"
	"github.com/ezoic/treeforge/sklearn/tree/split"
)

type fixture struct {
	td     *data.TreeData
	engine *split.Engine
}

func nominalTarget(t *testing.T, labels ...string) data.Target {
	t.Helper()
	cr := data.NewNominalTargetCreator("class")
	for _, l := range labels {
		require.NoError(t, cr.Add("", data.LabelCell(l)))
	}
	tgt, err := cr.CreateTarget()
	require.NoError(t, err)
	return tgt
}

func nominalColumn(t *testing.T, index int, labels ...string) data.Column {
	t.Helper()
	cr := data.NewNominalColumnCreator("n")
	for _, l := range labels {
		require.NoError(t, cr.Add("", data.LabelCell(l)))
	}
	cols, err := cr.CreateColumnData(index, data.DefaultConfig())
	require.NoError(t, err)
	return cols[0]
}

func bitColumn(t *testing.T, index int, bits ...bool) data.Column {
	t.Helper()
	cr := data.NewBitVectorColumnCreator("b")
	for _, b := range bits {
		require.NoError(t, cr.Add("", data.BitsCell([]bool{b})))
	}
	cols, err := cr.CreateColumnData(index, data.DefaultConfig())
	require.NoError(t, err)
	return cols[0]
}

func newFixture(t *testing.T, cfg data.Config, target data.Target, columns ...data.Column) *fixture {
	t.Helper()
	td, err := data.NewTreeData(columns, target, cfg)
	require.NoError(t, err)
	engine, err := split.NewEngine(td.Config(), split.WithLogger(log.Nop()))
	require.NoError(t, err)
	return &fixture{td: td, engine: engine}
}

func (f *fixture) root(t *testing.T) *data.Membership {
	t.Helper()
	m, err := data.NewMembership(f.td, f.td.UniformWeights())
	require.NoError(t, err)
	return m
}

func (f *fixture) best(t *testing.T, column int, m *data.Membership) split.Candidate {
	t.Helper()
	priors, err := data.ComputePriors(f.td.Target(), m.Weights(), f.td.Config())
	require.NoError(t, err)
	c, err := f.engine.BestSplitForColumn(f.td, f.td.Column(column), m, priors)
	require.NoError(t, err)
	return c
}

func classification(opts ...data.Option) data.Config {
	cfg := data.DefaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

func regression(opts ...data.Option) data.Config {
	return classification(append([]data.Option{data.WithRegression()}, opts...)...)
}

func requireConservation(t *testing.T, c split.Candidate, parent []float64) {
	t.Helper()
	var sum float64
	for _, w := range c.ChildWeights(parent) {
		sum += floats.Sum(w)
	}
	require.InDelta(t, floats.Sum(parent), sum, 1e-9)
}

type recordingObserver struct {
	mu         sync.Mutex
	thresholds []float64
	scores     []float64
}

func (r *recordingObserver) ObserveBoundary(_ data.Column, threshold, score float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.thresholds = append(r.thresholds, threshold)
	r.scores = append(r.scores, score)
}
