package split

import (
	"math"
	"sort"

	"github.com/yourbasic/bit"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ezoic/treeforge/sklearn/tree/data"
	"github.com/ezoic/treeforge/sklearn/tree/impurity"
)

// classDistributionsByCode walks the tracker once, block by block, and
// returns the weighted class distribution and total weight of every code.
// Codes absent from the node have a nil distribution.
func classDistributionsByCode(col *data.NominalColumn, tr *data.Tracker, weights []float64, target *data.NominalTarget) ([][]float64, []float64) {
	n := col.CodeCount()
	dists := make([][]float64, n)
	codeWeights := make([]float64, n)
	rows, positions := tr.Rows(), tr.Positions()
	slot := 0
	for code := 0; code < n; code++ {
		end := col.BlockEnd(code)
		for ; slot < len(rows) && positions[slot] < end; slot++ {
			row := rows[slot]
			w := weights[row]
			if w < data.Epsilon {
				continue
			}
			if dists[code] == nil {
				dists[code] = make([]float64, target.ClassCount())
			}
			dists[code][target.CodeFor(row)] += w
			codeWeights[code] += w
		}
	}
	return dists, codeWeights
}

// ySumsByCode is the regression counterpart of classDistributionsByCode.
func ySumsByCode(col *data.NominalColumn, tr *data.Tracker, weights []float64, target *data.NumericTarget) ([]float64, []float64) {
	n := col.CodeCount()
	ySums := make([]float64, n)
	codeWeights := make([]float64, n)
	rows, positions := tr.Rows(), tr.Positions()
	slot := 0
	for code := 0; code < n; code++ {
		end := col.BlockEnd(code)
		for ; slot < len(rows) && positions[slot] < end; slot++ {
			row := rows[slot]
			w := weights[row]
			if w < data.Epsilon {
				continue
			}
			ySums[code] += w * target.ValueFor(row)
			codeWeights[code] += w
		}
	}
	return ySums, codeWeights
}

func presentCodes(codeWeights []float64) []int {
	var present []int
	for code, w := range codeWeights {
		if w >= data.Epsilon {
			present = append(present, code)
		}
	}
	return present
}

func (e *Engine) nominalMultiwayClassification(col *data.NominalColumn, tr *data.Tracker, weights []float64, priors *data.ClassificationPriors, target *data.NominalTarget) Candidate {
	dists, codeWeights := classDistributionsByCode(col, tr, weights, target)
	present := presentCodes(codeWeights)
	if len(present) < 2 {
		return nil
	}
	crit := priors.Criterion()
	impurities := make([]float64, len(present))
	partWeights := make([]float64, len(present))
	for i, code := range present {
		partWeights[i] = codeWeights[code]
		impurities[i] = crit.PartitionImpurity(dists[code], codeWeights[code])
	}
	total := floats.Sum(partWeights)
	e.checkDrift(col, "partition weight", total, priors.TotalWeight())

	post := crit.PostSplitImpurity(impurities, partWeights, total)
	gain := crit.Gain(priors.Impurity(), post, partWeights, total)
	if gain <= 0 {
		return nil
	}
	return &NominalMultiwayCandidate{column: col, gain: gain, partitionWeights: codeWeights}
}

func (e *Engine) nominalMultiwayRegression(col *data.NominalColumn, tr *data.Tracker, weights []float64, priors *data.RegressionPriors, target *data.NumericTarget) Candidate {
	ySums, codeWeights := ySumsByCode(col, tr, weights, target)
	present := presentCodes(codeWeights)
	if len(present) < 2 {
		return nil
	}
	var criterion, total float64
	for _, code := range present {
		criterion += ySums[code] * ySums[code] / codeWeights[code]
		total += codeWeights[code]
	}
	e.checkDrift(col, "partition weight", total, priors.TotalWeight())

	gain := criterion - priors.Criterion()
	if gain <= 0 {
		return nil
	}
	return &NominalMultiwayCandidate{column: col, gain: gain, partitionWeights: codeWeights}
}

// binaryClassificationSearch scores left/right code partitions of present codes.
type binaryClassificationSearch struct {
	crit          impurity.Criterion
	priorImpurity float64
	totalWeight   float64
	minChild      float64
	dists         [][]float64
	codeWeights   []float64

	left, right   []float64
	bestPlainGain float64
	bestGain      float64
	bestLeft      []int
}

func newBinaryClassificationSearch(crit impurity.Criterion, priors *data.ClassificationPriors, minChild float64, dists [][]float64, codeWeights []float64) *binaryClassificationSearch {
	k := len(priors.Distribution())
	return &binaryClassificationSearch{
		crit:          crit,
		priorImpurity: priors.Impurity(),
		totalWeight:   priors.TotalWeight(),
		minChild:      minChild,
		dists:         dists,
		codeWeights:   codeWeights,
		left:          make([]float64, k),
		right:         make([]float64, k),
		bestPlainGain: math.Inf(-1),
	}
}

// score evaluates the partition that sends leftCodes left and the other
// present codes right.
func (s *binaryClassificationSearch) score(leftCodes, allPresent []int) {
	for i := range s.left {
		s.left[i], s.right[i] = 0, 0
	}
	inLeft := make(map[int]bool, len(leftCodes))
	for _, c := range leftCodes {
		inLeft[c] = true
	}
	var lw, rw float64
	for _, code := range allPresent {
		dst := s.right
		if inLeft[code] {
			dst = s.left
			lw += s.codeWeights[code]
		} else {
			rw += s.codeWeights[code]
		}
		floats.Add(dst, s.dists[code])
	}
	if lw < s.minChild || rw < s.minChild {
		return
	}
	childWeights := []float64{lw, rw}
	childImpurities := []float64{
		s.crit.PartitionImpurity(s.left, lw),
		s.crit.PartitionImpurity(s.right, rw),
	}
	post := s.crit.PostSplitImpurity(childImpurities, childWeights, s.totalWeight)
	plainGain := impurity.PlainGain(s.priorImpurity, post)
	if plainGain > s.bestPlainGain {
		s.bestPlainGain = plainGain
		s.bestGain = s.crit.Gain(s.priorImpurity, post, childWeights, s.totalWeight)
		s.bestLeft = append(s.bestLeft[:0], leftCodes...)
	}
}

func (e *Engine) nominalBinaryClassification(col *data.NominalColumn, tr *data.Tracker, weights []float64, priors *data.ClassificationPriors, target *data.NominalTarget) Candidate {
	dists, codeWeights := classDistributionsByCode(col, tr, weights, target)
	present := presentCodes(codeWeights)
	if len(present) < 2 {
		return nil
	}
	search := newBinaryClassificationSearch(priors.Criterion(), priors, e.minChild(), dists, codeWeights)

	switch {
	case target.ClassCount() == 2:
		ordered := orderCodes(present, func(code int) float64 { return dists[code][0] / codeWeights[code] })
		scanPrefixes(ordered, present, search.score)
	case len(present) <= MaxExhaustiveNominalCodes:
		last := len(present) - 1
		leftCodes := make([]int, 0, last)
		for mask := 1; mask < 1<<last; mask++ {
			leftCodes = leftCodes[:0]
			for j := 0; j < last; j++ {
				if mask&(1<<j) != 0 {
					leftCodes = append(leftCodes, present[j])
				}
			}
			search.score(leftCodes, present)
		}
	default:
		ordered := principalComponentOrder(present, dists, codeWeights)
		scanPrefixes(ordered, present, search.score)
	}

	if search.bestLeft == nil || search.bestGain <= 0 {
		return nil
	}
	return &NominalBinaryCandidate{column: col, gain: search.bestGain, leftCodes: leftSet(search.bestLeft, present)}
}

func (e *Engine) nominalBinaryRegression(col *data.NominalColumn, tr *data.Tracker, weights []float64, priors *data.RegressionPriors, target *data.NumericTarget) Candidate {
	ySums, codeWeights := ySumsByCode(col, tr, weights, target)
	present := presentCodes(codeWeights)
	if len(present) < 2 {
		return nil
	}
	ordered := orderCodes(present, func(code int) float64 { return ySums[code] / codeWeights[code] })

	ySumTotal, nTotal := priors.YSum(), priors.TotalWeight()
	minChild := e.minChild()
	var (
		ySumLeft, nLeft float64
		best            float64
		bestLeft        []int
	)
	for i := 0; i < len(ordered)-1; i++ {
		code := ordered[i]
		ySumLeft += ySums[code]
		nLeft += codeWeights[code]
		nRight := nTotal - nLeft
		if nLeft < minChild || nRight < minChild {
			continue
		}
		ySumRight := ySumTotal - ySumLeft
		criterion := ySumLeft*ySumLeft/nLeft + ySumRight*ySumRight/nRight - priors.Criterion()
		if criterion > best {
			best = criterion
			bestLeft = append(bestLeft[:0], ordered[:i+1]...)
		}
	}
	if bestLeft == nil {
		return nil
	}
	return &NominalBinaryCandidate{column: col, gain: best, leftCodes: leftSet(bestLeft, present)}
}

// orderCodes sorts codes ascending by key, keeping code order on ties.
func orderCodes(codes []int, key func(code int) float64) []int {
	ordered := append([]int(nil), codes...)
	sort.SliceStable(ordered, func(a, b int) bool { return key(ordered[a]) < key(ordered[b]) })
	return ordered
}

// scanPrefixes scores every proper prefix of ordered as the left side.
func scanPrefixes(ordered, present []int, score func(leftCodes, present []int)) {
	for i := 1; i < len(ordered); i++ {
		score(ordered[:i], present)
	}
}

// principalComponentOrder orders codes by the projection of their class
// probability vectors onto the first weighted principal component.
// It falls back to first-class probability when the decomposition fails.
func principalComponentOrder(present []int, dists [][]float64, codeWeights []float64) []int {
	k := len(dists[present[0]])
	probs := mat.NewDense(len(present), k, nil)
	w := make([]float64, len(present))
	for i, code := range present {
		w[i] = codeWeights[code]
		for c := 0; c < k; c++ {
			probs.Set(i, c, dists[code][c]/codeWeights[code])
		}
	}

	var pc stat.PC
	if !pc.PrincipalComponents(probs, w) {
		return orderCodes(present, func(code int) float64 { return dists[code][0] / codeWeights[code] })
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	first := vecs.ColView(0)

	scores := make(map[int]float64, len(present))
	for i, code := range present {
		scores[code] = mat.Dot(probs.RowView(i), first)
	}
	return orderCodes(present, func(code int) float64 { return scores[code] })
}

// leftSet turns the chosen left codes into a set, flipping sides so the
// highest present code ends up on the right.
func leftSet(left, present []int) *bit.Set {
	set := new(bit.Set)
	for _, c := range left {
		set.Add(c)
	}
	highest := present[len(present)-1]
	if !set.Contains(highest) {
		return set
	}
	flipped := new(bit.Set)
	for _, c := range present {
		if !set.Contains(c) {
			flipped.Add(c)
		}
	}
	return flipped
}
