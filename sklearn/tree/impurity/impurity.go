// Package impurity implements the split criteria used by the split-search engine.
//
// A Criterion scores a class distribution (PartitionImpurity), combines child
// impurities into a weighted average (PostSplitImpurity) and turns prior and
// post-split impurity into a gain. Gini and InformationGain report plain gain
// (prior - post). InformationGainRatio normalises that by the entropy of the
// child weights.
//
// Regression does not use impurity: Variance is accepted only so a single
// configuration field can select the regression path.
package impurity

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	tfErrors "github.com/ezoic/treeforge/pkg/errors"
)

// Epsilon is the weight below which a row or partition is treated as empty.
const Epsilon = 1e-10

// Criterion scores class distributions.
type Criterion interface {
	// PartitionImpurity is the impurity of a weighted class distribution.
	PartitionImpurity(distribution []float64, totalWeight float64) float64
	// PostSplitImpurity is the weighted average of child impurities.
	PostSplitImpurity(childImpurities, childWeights []float64, totalWeight float64) float64
	// Gain converts prior and post-split impurity into the criterion's gain.
	Gain(priorImpurity, postSplitImpurity float64, childWeights []float64, totalWeight float64) float64
	// Kind identifies the criterion.
	Kind() Kind
}

// Kind enumerates the supported criteria.
type Kind int

const (
	Gini Kind = iota
	InformationGain
	InformationGainRatio
	Variance
)

var kindNames = map[Kind]string{
	Gini:                 "gini",
	InformationGain:      "entropy",
	InformationGainRatio: "gain_ratio",
	Variance:             "variance",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsClassification reports whether the criterion applies to nominal targets.
func (k Kind) IsClassification() bool { return k != Variance }

// ParseKind accepts the names printed by String plus a few aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gini":
		return Gini, nil
	case "entropy", "information_gain", "informationgain", "info_gain":
		return InformationGain, nil
	case "gain_ratio", "information_gain_ratio", "informationgainratio", "ratio":
		return InformationGainRatio, nil
	case "variance", "mse":
		return Variance, nil
	}
	return Gini, tfErrors.NewValidationError("impurity_criterion", "unknown criterion", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// New returns the Criterion for k.
func New(k Kind) (Criterion, error) {
	switch k {
	case Gini:
		return GiniCriterion{}, nil
	case InformationGain:
		return EntropyCriterion{}, nil
	case InformationGainRatio:
		return GainRatioCriterion{}, nil
	case Variance:
		return VarianceCriterion{}, nil
	}
	return nil, tfErrors.NewValidationError("impurity_criterion", "unknown criterion", int(k))
}

// PostSplitImpurity is the shared weighted average Σ imp_i * w_i / total.
func PostSplitImpurity(childImpurities, childWeights []float64, totalWeight float64) float64 {
	if totalWeight < Epsilon {
		return 0
	}
	return floats.Dot(childImpurities, childWeights) / totalWeight
}

// GiniCriterion is 1 - Σ p².
type GiniCriterion struct{}

func (GiniCriterion) Kind() Kind { return Gini }

func (GiniCriterion) PartitionImpurity(distribution []float64, totalWeight float64) float64 {
	if totalWeight < Epsilon {
		return 0
	}
	var sumSq float64
	for _, w := range distribution {
		p := w / totalWeight
		sumSq += p * p
	}
	return 1 - sumSq
}

func (GiniCriterion) PostSplitImpurity(childImpurities, childWeights []float64, totalWeight float64) float64 {
	return PostSplitImpurity(childImpurities, childWeights, totalWeight)
}

func (GiniCriterion) Gain(prior, post float64, _ []float64, _ float64) float64 {
	return prior - post
}

// EntropyCriterion is -Σ p log2 p.
type EntropyCriterion struct{}

func (EntropyCriterion) Kind() Kind { return InformationGain }

func (EntropyCriterion) PartitionImpurity(distribution []float64, totalWeight float64) float64 {
	return entropy(distribution, totalWeight)
}

func (EntropyCriterion) PostSplitImpurity(childImpurities, childWeights []float64, totalWeight float64) float64 {
	return PostSplitImpurity(childImpurities, childWeights, totalWeight)
}

func (EntropyCriterion) Gain(prior, post float64, _ []float64, _ float64) float64 {
	return prior - post
}

// GainRatioCriterion is information gain divided by the split information,
// the entropy of the child weights. A split whose split information is below
// Epsilon has gain 0.
type GainRatioCriterion struct{}

func (GainRatioCriterion) Kind() Kind { return InformationGainRatio }

func (GainRatioCriterion) PartitionImpurity(distribution []float64, totalWeight float64) float64 {
	return entropy(distribution, totalWeight)
}

func (GainRatioCriterion) PostSplitImpurity(childImpurities, childWeights []float64, totalWeight float64) float64 {
	return PostSplitImpurity(childImpurities, childWeights, totalWeight)
}

func (GainRatioCriterion) Gain(prior, post float64, childWeights []float64, totalWeight float64) float64 {
	splitInfo := entropy(childWeights, totalWeight)
	if splitInfo < Epsilon {
		return 0
	}
	return (prior - post) / splitInfo
}

// VarianceCriterion scores a distribution by nothing: regression gains are
// computed from sums of squares by the engine. Gain is plain difference.
type VarianceCriterion struct{}

func (VarianceCriterion) Kind() Kind { return Variance }

func (VarianceCriterion) PartitionImpurity(_ []float64, _ float64) float64 { return 0 }

func (VarianceCriterion) PostSplitImpurity(childImpurities, childWeights []float64, totalWeight float64) float64 {
	return PostSplitImpurity(childImpurities, childWeights, totalWeight)
}

func (VarianceCriterion) Gain(prior, post float64, _ []float64, _ float64) float64 {
	return prior - post
}

func entropy(weights []float64, totalWeight float64) float64 {
	if totalWeight < Epsilon {
		return 0
	}
	var h float64
	for _, w := range weights {
		if w < Epsilon {
			continue
		}
		p := w / totalWeight
		h -= p * math.Log2(p)
	}
	return h
}

// PlainGain is prior - post, the quantity used to select split points
// regardless of the configured criterion.
func PlainGain(prior, post float64) float64 { return prior - post }
