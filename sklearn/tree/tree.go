// Package tree grows decision trees on top of the split search engine and
// exposes them as scikit-learn style estimators.
//
// DecisionTreeClassifier and DecisionTreeRegressor accept either dense gonum
// matrices (numeric attributes only) or a prepared *data.TreeData, which may
// mix numeric, nominal and bit-vector attributes.
package tree

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/yourbasic/bit"

	"github.com/ezoic/treeforge/sklearn/tree/data"
	"github.com/ezoic/treeforge/sklearn/tree/split"
)

// Rule is the split applied at an internal node.
type Rule struct {
	Attribute int             `yaml:"attribute"`
	Column    string          `yaml:"column"`
	Kind      data.ColumnKind `yaml:"kind"`
	Gain      float64         `yaml:"gain"`
	// Threshold is set for numeric rules. Left holds values <= Threshold.
	Threshold float64 `yaml:"threshold,omitempty"`
	// Codes lists the nominal codes of each child.
	Codes [][]int `yaml:"codes,omitempty"`
}

func newRule(c split.Candidate) *Rule {
	col := c.Column()
	r := &Rule{Attribute: col.AttributeIndex(), Column: col.Name(), Kind: col.Kind(), Gain: c.Gain()}
	switch cand := c.(type) {
	case *split.NumericCandidate:
		r.Threshold = cand.Threshold()
	case *split.NominalMultiwayCandidate, *split.NominalBinaryCandidate:
		for _, cond := range c.ChildConditions() {
			r.Codes = append(r.Codes, setCodes(cond.(split.NominalCondition).Codes))
		}
	}
	return r
}

func setCodes(s *bit.Set) []int {
	var codes []int
	s.Visit(func(code int) bool {
		codes = append(codes, code)
		return false
	})
	return codes
}

// Route returns the child index v belongs to, or -1 when no child accepts it
// (a NaN number or a nominal code unseen at this node).
func (r *Rule) Route(v split.Value) int {
	switch r.Kind {
	case data.NumericKind:
		switch {
		case math.IsNaN(v.Number):
			return -1
		case v.Number <= r.Threshold:
			return 0
		}
		return 1
	case data.BitVectorKind:
		if v.Bit {
			return 1
		}
		return 0
	}
	for i, codes := range r.Codes {
		if slices.Contains(codes, v.Code) {
			return i
		}
	}
	return -1
}

// Node is one node of a grown tree.
type Node struct {
	ID          int     `yaml:"id"`
	Depth       int     `yaml:"depth"`
	Condition   string  `yaml:"condition,omitempty"`
	TotalWeight float64 `yaml:"total_weight"`
	// Impurity is the configured impurity for classification and the
	// variance for regression.
	Impurity float64 `yaml:"impurity"`

	Distribution []float64 `yaml:"distribution,omitempty"`
	MajorityCode int       `yaml:"majority_code"`
	Majority     string    `yaml:"majority,omitempty"`

	Mean float64 `yaml:"mean"`

	Split    *Rule   `yaml:"split,omitempty"`
	Children []*Node `yaml:"children,omitempty"`
}

// IsLeaf reports whether n has no split.
func (n *Node) IsLeaf() bool { return n.Split == nil }

// Probabilities is the class distribution normalised to sum to one.
func (n *Node) Probabilities() []float64 {
	p := make([]float64, len(n.Distribution))
	if n.TotalWeight <= 0 {
		return p
	}
	for i, w := range n.Distribution {
		p[i] = w / n.TotalWeight
	}
	return p
}

func (n *Node) describe(regression bool) string {
	if regression {
		return fmt.Sprintf("mean=%.4g n=%g", n.Mean, n.TotalWeight)
	}
	return fmt.Sprintf("%s n=%g %v", n.Majority, n.TotalWeight, n.Distribution)
}

// Tree is a grown decision tree.
type Tree struct {
	Regression bool     `yaml:"regression"`
	Criterion  string   `yaml:"criterion"`
	Target     string   `yaml:"target"`
	Classes    []string `yaml:"classes,omitempty"`
	Columns    []string `yaml:"columns"`
	Root       *Node    `yaml:"root"`
}

// Walk visits nodes depth first, parents before children, until fn returns false.
func (t *Tree) Walk(fn func(n *Node) bool) {
	var visit func(n *Node) bool
	visit = func(n *Node) bool {
		if !fn(n) {
			return false
		}
		for _, c := range n.Children {
			if !visit(c) {
				return false
			}
		}
		return true
	}
	if t.Root != nil {
		visit(t.Root)
	}
}

// NodeCount is the number of nodes.
func (t *Tree) NodeCount() int {
	count := 0
	t.Walk(func(*Node) bool { count++; return true })
	return count
}

// LeafCount is the number of leaves.
func (t *Tree) LeafCount() int {
	count := 0
	t.Walk(func(n *Node) bool {
		if n.IsLeaf() {
			count++
		}
		return true
	})
	return count
}

// Depth is the depth of the deepest node, 0 for a single leaf.
func (t *Tree) Depth() int {
	depth := 0
	t.Walk(func(n *Node) bool { depth = max(depth, n.Depth); return true })
	return depth
}

// NumericOnly reports whether every split tests a numeric attribute.
func (t *Tree) NumericOnly() bool {
	ok := true
	t.Walk(func(n *Node) bool {
		if n.Split != nil && n.Split.Kind != data.NumericKind {
			ok = false
		}
		return ok
	})
	return ok
}

// Leaf returns the node a row ends in. Rows that no child accepts stop at
// the internal node where routing failed.
func (t *Tree) Leaf(row []split.Value) *Node {
	n := t.Root
	for !n.IsLeaf() {
		if n.Split.Attribute >= len(row) {
			return n
		}
		i := n.Split.Route(row[n.Split.Attribute])
		if i < 0 || i >= len(n.Children) {
			return n
		}
		n = n.Children[i]
	}
	return n
}

// String renders the tree as indented text, one node per line.
func (t *Tree) String() string {
	var sb strings.Builder
	t.Walk(func(n *Node) bool {
		sb.WriteString(strings.Repeat("  ", n.Depth))
		if n.Condition != "" {
			sb.WriteString(n.Condition)
			sb.WriteString(": ")
		}
		sb.WriteString(n.describe(t.Regression))
		sb.WriteByte('\n')
		return true
	})
	return sb.String()
}
