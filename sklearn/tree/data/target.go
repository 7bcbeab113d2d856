package data

import (
	"fmt"

	tfErrors "github.com/ezoic/treeforge/pkg/errors"
)

// Target is the training target indexed by row. Variants are
// *NominalTarget and *NumericTarget.
type Target interface {
	Name() string
	Len() int
	String() string

	isTarget()
}

// NominalTarget holds class codes.
type NominalTarget struct {
	name   string
	values *NominalValueTable
	codes  []int
}

// NewNominalTarget validates codes against values.
func NewNominalTarget(name string, values *NominalValueTable, codes []int) (*NominalTarget, error) {
	for row, code := range codes {
		if code < 0 || code >= values.Len() {
			return nil, tfErrors.NewModelError("NewNominalTarget",
				fmt.Sprintf("row %d has class code %d outside [0, %d)", row, code, values.Len()), tfErrors.ErrIndexOutOfRange)
		}
	}
	return &NominalTarget{name: name, values: values, codes: codes}, nil
}

func (t *NominalTarget) isTarget()    {}
func (t *NominalTarget) Name() string { return t.name }
func (t *NominalTarget) Len() int     { return len(t.codes) }

// Values is the class table.
func (t *NominalTarget) Values() *NominalValueTable { return t.values }

// ClassCount is the number of classes.
func (t *NominalTarget) ClassCount() int { return t.values.Len() }

// CodeFor returns the class code of row.
func (t *NominalTarget) CodeFor(row int) int { return t.codes[row] }

func (t *NominalTarget) String() string {
	return fmt.Sprintf("%s [nominal target, %d rows, classes %s]", t.name, len(t.codes), t.values)
}

// NumericTarget holds regression values.
type NumericTarget struct {
	name   string
	values []float64
}

// NewNumericTarget wraps values.
func NewNumericTarget(name string, values []float64) *NumericTarget {
	return &NumericTarget{name: name, values: values}
}

func (t *NumericTarget) isTarget()    {}
func (t *NumericTarget) Name() string { return t.name }
func (t *NumericTarget) Len() int     { return len(t.values) }

// ValueFor returns the target of row.
func (t *NumericTarget) ValueFor(row int) float64 { return t.values[row] }

func (t *NumericTarget) String() string {
	return fmt.Sprintf("%s [numeric target, %d rows]", t.name, len(t.values))
}
