package split

import (
	"github.com/ezoic/treeforge/sklearn/tree/data"
)

func (e *Engine) bitVectorClassification(col *data.BitVectorColumn, tr *data.Tracker, weights []float64, priors *data.ClassificationPriors, target *data.NominalTarget) Candidate {
	k := target.ClassCount()
	off := make([]float64, k)
	on := make([]float64, k)
	var offWeight, onWeight float64
	for _, row := range tr.Rows() {
		w := weights[row]
		if w < data.Epsilon {
			continue
		}
		if col.IsSet(row) {
			on[target.CodeFor(row)] += w
			onWeight += w
		} else {
			off[target.CodeFor(row)] += w
			offWeight += w
		}
	}
	minChild := e.minChild()
	if offWeight < minChild || onWeight < minChild {
		return nil
	}
	total := priors.TotalWeight()
	e.checkDrift(col, "partition weight", offWeight+onWeight, total)

	crit := priors.Criterion()
	childWeights := []float64{offWeight, onWeight}
	childImpurities := []float64{
		crit.PartitionImpurity(off, offWeight),
		crit.PartitionImpurity(on, onWeight),
	}
	post := crit.PostSplitImpurity(childImpurities, childWeights, total)
	gain := crit.Gain(priors.Impurity(), post, childWeights, total)
	if gain <= 0 {
		return nil
	}
	return &BitVectorCandidate{column: col, gain: gain}
}

func (e *Engine) bitVectorRegression(col *data.BitVectorColumn, tr *data.Tracker, weights []float64, priors *data.RegressionPriors, target *data.NumericTarget) Candidate {
	var ySumOn, nOn float64
	for _, row := range tr.Rows() {
		w := weights[row]
		if w < data.Epsilon || !col.IsSet(row) {
			continue
		}
		ySumOn += w * target.ValueFor(row)
		nOn += w
	}
	nOff := priors.TotalWeight() - nOn
	minChild := e.minChild()
	if nOn < minChild || nOff < minChild {
		return nil
	}
	ySumOff := priors.YSum() - ySumOn
	gain := ySumOff*ySumOff/nOff + ySumOn*ySumOn/nOn - priors.Criterion()
	if gain <= 0 {
		return nil
	}
	return &BitVectorCandidate{column: col, gain: gain}
}
