package data

import (
	"fmt"

	tfErrors "github.com/ezoic/treeforge/pkg/errors"
	"github.com/ezoic/treeforge/sklearn/tree/impurity"
)

// Priors summarises the target over a node's active rows.
// Variants are *ClassificationPriors and *RegressionPriors.
type Priors interface {
	TotalWeight() float64
	String() string

	isPriors()
}

// ClassificationPriors is the weighted class distribution of a node.
type ClassificationPriors struct {
	distribution []float64
	totalWeight  float64
	impurity     float64
	majority     int
	criterion    impurity.Criterion
}

// NewClassificationPriors derives totals, impurity and majority class from distribution.
// The majority is the first code with the strictly largest weight.
func NewClassificationPriors(distribution []float64, criterion impurity.Criterion) *ClassificationPriors {
	var total float64
	majority := 0
	for code, w := range distribution {
		total += w
		if w > distribution[majority] {
			majority = code
		}
	}
	return &ClassificationPriors{
		distribution: distribution,
		totalWeight:  total,
		impurity:     criterion.PartitionImpurity(distribution, total),
		majority:     majority,
		criterion:    criterion,
	}
}

func (p *ClassificationPriors) isPriors() {}

// Distribution is the weighted count per class. It must not be modified.
func (p *ClassificationPriors) Distribution() []float64 { return p.distribution }

func (p *ClassificationPriors) TotalWeight() float64 { return p.totalWeight }

// Impurity is the criterion's impurity of the distribution.
func (p *ClassificationPriors) Impurity() float64 { return p.impurity }

// MajorityCode is the class with the largest weight, earliest code on ties.
func (p *ClassificationPriors) MajorityCode() int { return p.majority }

// Criterion is the impurity criterion the priors were computed with.
func (p *ClassificationPriors) Criterion() impurity.Criterion { return p.criterion }

// Probabilities returns the distribution normalised to sum to one.
func (p *ClassificationPriors) Probabilities() []float64 {
	out := make([]float64, len(p.distribution))
	if p.totalWeight < Epsilon {
		return out
	}
	for i, w := range p.distribution {
		out[i] = w / p.totalWeight
	}
	return out
}

func (p *ClassificationPriors) String() string {
	return fmt.Sprintf("priors{dist=%v, total=%g, impurity=%.5f, majority=%d}", p.distribution, p.totalWeight, p.impurity, p.majority)
}

// RegressionPriors holds weighted mean and spread of a numeric target.
type RegressionPriors struct {
	totalWeight float64
	mean        float64
	sumSqDev    float64
	ySum        float64
}

func (p *RegressionPriors) isPriors() {}

func (p *RegressionPriors) TotalWeight() float64 { return p.totalWeight }

// Mean is the weighted mean.
func (p *RegressionPriors) Mean() float64 { return p.mean }

// SumSquaredDeviation is Σ w (y - mean)².
func (p *RegressionPriors) SumSquaredDeviation() float64 { return p.sumSqDev }

// YSum is Σ w y.
func (p *RegressionPriors) YSum() float64 { return p.ySum }

// Variance is SumSquaredDeviation / TotalWeight.
func (p *RegressionPriors) Variance() float64 {
	if p.totalWeight < Epsilon {
		return 0
	}
	return p.sumSqDev / p.totalWeight
}

// Criterion is ySum²/totalWeight, the un-split regression criterion.
func (p *RegressionPriors) Criterion() float64 {
	if p.totalWeight < Epsilon {
		return 0
	}
	return p.ySum * p.ySum / p.totalWeight
}

// Add folds one weighted observation into the priors.
func (p *RegressionPriors) Add(y, weight float64) {
	newTotal := p.totalWeight + weight
	delta := y - p.mean
	r := delta * weight / newTotal
	p.mean += r
	p.sumSqDev += p.totalWeight * delta * r
	p.totalWeight = newTotal
	p.ySum += weight * y
}

func (p *RegressionPriors) String() string {
	return fmt.Sprintf("priors{total=%g, mean=%.5f, ssd=%.5f}", p.totalWeight, p.mean, p.sumSqDev)
}

// ComputePriors summarises target over rows with weight at least Epsilon.
func ComputePriors(target Target, weights []float64, cfg Config) (Priors, error) {
	if len(weights) != target.Len() {
		return nil, tfErrors.NewDimensionError("ComputePriors", target.Len(), len(weights), 0)
	}
	switch t := target.(type) {
	case *NominalTarget:
		return ComputeClassificationPriors(t, weights, cfg.ImpurityCriterion()), nil
	case *NumericTarget:
		return ComputeRegressionPriors(t, weights), nil
	}
	return nil, tfErrors.NewModelError("ComputePriors", fmt.Sprintf("%T", target), tfErrors.ErrUnsupportedColumn)
}

// ComputeClassificationPriors accumulates weighted class counts.
func ComputeClassificationPriors(target *NominalTarget, weights []float64, criterion impurity.Criterion) *ClassificationPriors {
	dist := make([]float64, target.ClassCount())
	for row, w := range weights {
		if w < Epsilon {
			continue
		}
		dist[target.codes[row]] += w
	}
	return NewClassificationPriors(dist, criterion)
}

// ComputeRegressionPriors accumulates mean and squared deviation incrementally.
func ComputeRegressionPriors(target *NumericTarget, weights []float64) *RegressionPriors {
	p := &RegressionPriors{}
	for row, w := range weights {
		if w < Epsilon {
			continue
		}
		p.Add(target.values[row], w)
	}
	return p
}
