package split

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yourbasic/bit"

	"github.com/ezoic/treeforge/sklearn/tree/data"
)

// Candidate is the best split found for one column.
// Variants are *NumericCandidate, *NominalMultiwayCandidate,
// *NominalBinaryCandidate and *BitVectorCandidate.
type Candidate interface {
	// Column is the column the split tests.
	Column() data.Column
	// Gain is the configured criterion's gain (classification) or the
	// sum-of-squares improvement (regression).
	Gain() float64
	// ChildConditions describes each child in the order of ChildWeights.
	ChildConditions() []Condition
	// ChildWeights copies parentWeights once per child, zeroing rows that do
	// not belong to that child.
	ChildWeights(parentWeights []float64) [][]float64
	String() string

	isCandidate()
}

// Value is the attribute value of one row as seen by a Condition.
// Numeric conditions read Number, nominal conditions read Code and
// bit-vector conditions read Bit.
type Value struct {
	Number float64
	Code   int
	Bit    bool
}

// Condition routes rows to one child.
type Condition interface {
	AttributeIndex() int
	Matches(v Value) bool
	String() string
}

// Operator is the comparison of a NumericCondition.
type Operator int

const (
	LessOrEqual Operator = iota
	Greater
)

func (o Operator) String() string {
	if o == LessOrEqual {
		return "<="
	}
	return ">"
}

// NumericCondition is "value <= threshold" or "value > threshold".
type NumericCondition struct {
	Attribute int
	Name      string
	Operator  Operator
	Threshold float64
}

func (c NumericCondition) AttributeIndex() int { return c.Attribute }

func (c NumericCondition) Matches(v Value) bool {
	if c.Operator == LessOrEqual {
		return v.Number <= c.Threshold
	}
	return v.Number > c.Threshold
}

func (c NumericCondition) String() string {
	return fmt.Sprintf("%s %s %g", c.Name, c.Operator, c.Threshold)
}

// NominalCondition matches a set of codes.
type NominalCondition struct {
	Attribute int
	Name      string
	Codes     *bit.Set
	Labels    []string
}

func (c NominalCondition) AttributeIndex() int { return c.Attribute }

func (c NominalCondition) Matches(v Value) bool { return c.Codes.Contains(v.Code) }

func (c NominalCondition) String() string {
	if len(c.Labels) == 1 {
		return fmt.Sprintf("%s = %s", c.Name, c.Labels[0])
	}
	return fmt.Sprintf("%s in {%s}", c.Name, strings.Join(c.Labels, ", "))
}

// BitVectorCondition matches rows whose bit equals On.
type BitVectorCondition struct {
	Attribute int
	Name      string
	On        bool
}

func (c BitVectorCondition) AttributeIndex() int { return c.Attribute }

func (c BitVectorCondition) Matches(v Value) bool { return v.Bit == c.On }

func (c BitVectorCondition) String() string {
	if c.On {
		return fmt.Sprintf("%s is set", c.Name)
	}
	return fmt.Sprintf("%s is not set", c.Name)
}

// NumericCandidate splits a numeric column at Threshold.
// The left child holds values <= Threshold.
type NumericCandidate struct {
	column    *data.NumericColumn
	gain      float64
	threshold float64
}

func (c *NumericCandidate) isCandidate()        {}
func (c *NumericCandidate) Column() data.Column { return c.column }
func (c *NumericCandidate) Gain() float64       { return c.gain }

// Threshold is the split value.
func (c *NumericCandidate) Threshold() float64 { return c.threshold }

func (c *NumericCandidate) ChildConditions() []Condition {
	return []Condition{
		NumericCondition{Attribute: c.column.AttributeIndex(), Name: c.column.Name(), Operator: LessOrEqual, Threshold: c.threshold},
		NumericCondition{Attribute: c.column.AttributeIndex(), Name: c.column.Name(), Operator: Greater, Threshold: c.threshold},
	}
}

func (c *NumericCandidate) ChildWeights(parentWeights []float64) [][]float64 {
	left := make([]float64, len(parentWeights))
	right := make([]float64, len(parentWeights))
	sorted := c.column.SortedValues()
	cut := sort.Search(len(sorted), func(i int) bool { return sorted[i] > c.threshold })
	for pos, row := range c.column.OriginalIndex() {
		if pos < cut {
			left[row] = parentWeights[row]
		} else {
			right[row] = parentWeights[row]
		}
	}
	return [][]float64{left, right}
}

func (c *NumericCandidate) String() string {
	return fmt.Sprintf("%s <= %g (gain %.6f)", c.column.Name(), c.threshold, c.gain)
}

// NominalMultiwayCandidate splits a nominal column into one child per code
// present among the node's active rows.
type NominalMultiwayCandidate struct {
	column           *data.NominalColumn
	gain             float64
	partitionWeights []float64
}

func (c *NominalMultiwayCandidate) isCandidate()        {}
func (c *NominalMultiwayCandidate) Column() data.Column { return c.column }
func (c *NominalMultiwayCandidate) Gain() float64       { return c.gain }

// PartitionWeights is the active weight per code, zero for absent codes.
func (c *NominalMultiwayCandidate) PartitionWeights() []float64 { return c.partitionWeights }

// Codes lists the codes that become children, ascending.
func (c *NominalMultiwayCandidate) Codes() []int {
	var codes []int
	for code, w := range c.partitionWeights {
		if w >= data.Epsilon {
			codes = append(codes, code)
		}
	}
	return codes
}

func (c *NominalMultiwayCandidate) ChildConditions() []Condition {
	codes := c.Codes()
	conds := make([]Condition, len(codes))
	for i, code := range codes {
		conds[i] = NominalCondition{
			Attribute: c.column.AttributeIndex(),
			Name:      c.column.Name(),
			Codes:     bit.New(code),
			Labels:    []string{c.column.Values().Label(code)},
		}
	}
	return conds
}

func (c *NominalMultiwayCandidate) ChildWeights(parentWeights []float64) [][]float64 {
	codes := c.Codes()
	children := make([][]float64, len(codes))
	for i, code := range codes {
		w := make([]float64, len(parentWeights))
		for pos := c.column.BlockStart(code); pos < c.column.BlockEnd(code); pos++ {
			row := c.column.OriginalIndexAt(pos)
			w[row] = parentWeights[row]
		}
		children[i] = w
	}
	return children
}

func (c *NominalMultiwayCandidate) String() string {
	return fmt.Sprintf("%s multiway over %d values (gain %.6f)", c.column.Name(), len(c.Codes()), c.gain)
}

// NominalBinaryCandidate splits a nominal column into two code sets.
// The right child always holds the highest code present at the node.
type NominalBinaryCandidate struct {
	column    *data.NominalColumn
	gain      float64
	leftCodes *bit.Set
}

func (c *NominalBinaryCandidate) isCandidate()        {}
func (c *NominalBinaryCandidate) Column() data.Column { return c.column }
func (c *NominalBinaryCandidate) Gain() float64       { return c.gain }

// LeftCodes is the set of codes routed left. Every other code goes right.
func (c *NominalBinaryCandidate) LeftCodes() *bit.Set { return c.leftCodes }

func (c *NominalBinaryCandidate) ChildConditions() []Condition {
	right := new(bit.Set).AddRange(0, c.column.CodeCount()).AndNot(c.leftCodes)
	return []Condition{c.condition(c.leftCodes), c.condition(right)}
}

func (c *NominalBinaryCandidate) condition(codes *bit.Set) NominalCondition {
	var labels []string
	codes.Visit(func(code int) bool {
		labels = append(labels, c.column.Values().Label(code))
		return false
	})
	return NominalCondition{Attribute: c.column.AttributeIndex(), Name: c.column.Name(), Codes: codes, Labels: labels}
}

func (c *NominalBinaryCandidate) ChildWeights(parentWeights []float64) [][]float64 {
	left := make([]float64, len(parentWeights))
	right := make([]float64, len(parentWeights))
	for code := 0; code < c.column.CodeCount(); code++ {
		dst := right
		if c.leftCodes.Contains(code) {
			dst = left
		}
		for pos := c.column.BlockStart(code); pos < c.column.BlockEnd(code); pos++ {
			row := c.column.OriginalIndexAt(pos)
			dst[row] = parentWeights[row]
		}
	}
	return [][]float64{left, right}
}

func (c *NominalBinaryCandidate) String() string {
	return fmt.Sprintf("%s in %s (gain %.6f)", c.column.Name(), c.leftCodes, c.gain)
}

// BitVectorCandidate splits rows by one bit. The left child holds rows with the bit off.
type BitVectorCandidate struct {
	column *data.BitVectorColumn
	gain   float64
}

func (c *BitVectorCandidate) isCandidate()        {}
func (c *BitVectorCandidate) Column() data.Column { return c.column }
func (c *BitVectorCandidate) Gain() float64       { return c.gain }

func (c *BitVectorCandidate) ChildConditions() []Condition {
	return []Condition{
		BitVectorCondition{Attribute: c.column.AttributeIndex(), Name: c.column.Name(), On: false},
		BitVectorCondition{Attribute: c.column.AttributeIndex(), Name: c.column.Name(), On: true},
	}
}

func (c *BitVectorCandidate) ChildWeights(parentWeights []float64) [][]float64 {
	off := make([]float64, len(parentWeights))
	on := make([]float64, len(parentWeights))
	for row, w := range parentWeights {
		if c.column.IsSet(row) {
			on[row] = w
		} else {
			off[row] = w
		}
	}
	return [][]float64{off, on}
}

func (c *BitVectorCandidate) String() string {
	return fmt.Sprintf("%s (gain %.6f)", c.column.Name(), c.gain)
}
