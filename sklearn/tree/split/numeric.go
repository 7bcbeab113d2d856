package split

import (
	"fmt"
	"math"

	tfErrors "github.com/ezoic/treeforge/pkg/errors"
	"github.com/ezoic/treeforge/sklearn/tree/data"
	"github.com/ezoic/treeforge/sklearn/tree/impurity"
)

// numericClassification scans the column in sorted order. A boundary is
// scored only where the value increases by at least Epsilon and the class
// changed since the last scored boundary. Only boundaries that lower the
// impurity are candidates; the one with the largest plain gain wins and its
// configured-criterion gain is reported.
func (e *Engine) numericClassification(col *data.NumericColumn, tr *data.Tracker, weights []float64, priors *data.ClassificationPriors, target *data.NominalTarget) Candidate {
	crit := priors.Criterion()
	totalWeight := priors.TotalWeight()
	priorImpurity := priors.Impurity()
	minChild := e.minChild()

	left := make([]float64, target.ClassCount())
	right := make([]float64, target.ClassCount())
	copy(right, priors.Distribution())
	var leftWeight float64
	rightWeight := totalWeight

	var (
		childImpurities [2]float64
		childWeights    [2]float64
		bestPlainGain   = math.Inf(-1)
		bestGain        float64
		bestThreshold   float64
		found           bool

		lastValue  float64
		lastClass  = -1
		mustTest   bool
		firstEntry = true
	)

	rows, positions := tr.Rows(), tr.Positions()
	for slot, row := range rows {
		w := weights[row]
		if w < data.Epsilon {
			continue
		}
		value := col.ValueAt(positions[slot])
		class := target.CodeFor(row)

		if !firstEntry && class != lastClass {
			mustTest = true
		}
		if mustTest && value-lastValue >= data.Epsilon && leftWeight >= minChild && rightWeight >= minChild {
			childImpurities[0] = crit.PartitionImpurity(left, leftWeight)
			childImpurities[1] = crit.PartitionImpurity(right, rightWeight)
			childWeights[0], childWeights[1] = leftWeight, rightWeight
			post := crit.PostSplitImpurity(childImpurities[:], childWeights[:], totalWeight)
			plainGain := impurity.PlainGain(priorImpurity, post)
			threshold := e.threshold(lastValue, value)
			e.observe(col, threshold, plainGain)
			if plainGain > 0 && plainGain > bestPlainGain {
				bestPlainGain = plainGain
				bestGain = crit.Gain(priorImpurity, post, childWeights[:], totalWeight)
				bestThreshold = threshold
				found = true
			}
			mustTest = false
		}

		left[class] += w
		right[class] -= w
		leftWeight += w
		rightWeight -= w
		lastValue = value
		lastClass = class
		firstEntry = false
	}
	e.checkDrift(col, "left weight", leftWeight, totalWeight)

	if !found || bestGain < 0 {
		return nil
	}
	return &NumericCandidate{column: col, gain: bestGain, threshold: bestThreshold}
}

// numericRegression maximises ySumL²/nL + ySumR²/nR - ySum²/n over strictly
// increasing value boundaries. Row weights must be whole numbers.
func (e *Engine) numericRegression(col *data.NumericColumn, tr *data.Tracker, weights []float64, priors *data.RegressionPriors, target *data.NumericTarget) (Candidate, error) {
	ySumTotal := priors.YSum()
	nTotal := priors.TotalWeight()
	criterionTotal := priors.Criterion()
	minChild := e.minChild()

	var (
		ySumLeft, nLeft float64
		best            float64
		bestThreshold   float64
		found           bool
		lastValue       float64
		firstEntry      = true
	)

	rows, positions := tr.Rows(), tr.Positions()
	for slot, row := range rows {
		w := weights[row]
		if w < data.Epsilon {
			continue
		}
		if math.Floor(w) != w {
			return nil, tfErrors.NewModelError("Engine.BestSplitRegression",
				fmt.Sprintf("column %q row %d has weight %g", col.Name(), row, w), tfErrors.ErrFractionalWeight)
		}
		value := col.ValueAt(positions[slot])

		nRight := nTotal - nLeft
		if !firstEntry && lastValue < value && nLeft >= minChild && nRight >= minChild {
			ySumRight := ySumTotal - ySumLeft
			criterion := ySumLeft*ySumLeft/nLeft + ySumRight*ySumRight/nRight - criterionTotal
			threshold := e.threshold(lastValue, value)
			e.observe(col, threshold, criterion)
			if criterion > best {
				best = criterion
				bestThreshold = threshold
				found = true
			}
		}

		ySumLeft += w * target.ValueFor(row)
		nLeft += w
		lastValue = value
		firstEntry = false
	}
	e.checkDrift(col, "left weight", nLeft, nTotal)

	if !found {
		return nil, nil
	}
	return &NumericCandidate{column: col, gain: best, threshold: bestThreshold}, nil
}
