package split_test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/treeforge/pkg/dataset"
	"github.com/ezoic/treeforge/pkg/log"
	"github.com/ezoic/treeforge/sklearn/tree/data"
	"github.com/ezoic/treeforge/sklearn/tree/split"
)

func benchmarkTreeData(b *testing.B, samples, features int, cfg data.Config) *data.TreeData {
	b.Helper()
	rng := rand.New(rand.NewSource(42))
	X := mat.NewDense(samples, features, nil)
	y := make([]float64, samples)
	for i := 0; i < samples; i++ {
		var s float64
		for j := 0; j < features; j++ {
			v := rng.NormFloat64()
			X.Set(i, j, v)
			s += v
		}
		if cfg.IsRegression {
			y[i] = s + 0.1*rng.NormFloat64()
		} else if s > 0 {
			y[i] = 1
		}
	}
	tbl, err := dataset.FromDense(X, y, nil, cfg.IsRegression)
	if err != nil {
		b.Fatal(err)
	}
	td, err := tbl.TreeData(cfg)
	if err != nil {
		b.Fatal(err)
	}
	return td
}

func BenchmarkBestSplit(b *testing.B) {
	sizes := []struct {
		samples  int
		features int
	}{
		{1_000, 10},
		{10_000, 10},
		{100_000, 20},
	}
	regression, err := data.NewConfig(data.WithRegression())
	if err != nil {
		b.Fatal(err)
	}
	for _, size := range sizes {
		for _, mode := range []struct {
			name string
			cfg  data.Config
		}{
			{"classification", data.DefaultConfig()},
			{"regression", regression},
		} {
			b.Run(fmt.Sprintf("%s_%d_%d", mode.name, size.samples, size.features), func(b *testing.B) {
				td := benchmarkTreeData(b, size.samples, size.features, mode.cfg)
				engine, err := split.NewEngine(td.Config(), split.WithLogger(log.Nop()))
				if err != nil {
					b.Fatal(err)
				}
				m, err := data.NewMembership(td, td.UniformWeights())
				if err != nil {
					b.Fatal(err)
				}
				priors, err := data.ComputePriors(td.Target(), m.Weights(), td.Config())
				if err != nil {
					b.Fatal(err)
				}

				b.ReportAllocs()
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					if _, err := engine.BestSplit(context.Background(), td, m, priors); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}
