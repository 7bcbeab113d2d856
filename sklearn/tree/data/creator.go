package data

import (
	"fmt"
	"math"

	"github.com/yourbasic/bit"

	tfErrors "github.com/ezoic/treeforge/pkg/errors"
)

// Cell is one raw input value handed to a creator.
type Cell struct {
	Missing bool
	Number  float64
	Label   string
	Bits    []bool
}

// NumberCell wraps a numeric value. NaN is treated as missing.
func NumberCell(v float64) Cell { return Cell{Number: v, Missing: math.IsNaN(v)} }

// LabelCell wraps a nominal label.
func LabelCell(s string) Cell { return Cell{Label: s} }

// BitsCell wraps a bit vector.
func BitsCell(bits []bool) Cell { return Cell{Bits: bits} }

// MissingCell is a missing value.
func MissingCell() Cell { return Cell{Missing: true} }

// ColumnCreator accumulates one raw input column row by row and produces
// its pre-sorted Column Store entries.
type ColumnCreator interface {
	// AcceptsMissing reports whether Add tolerates missing cells.
	AcceptsMissing() bool
	// Add appends the cell of the next row.
	Add(rowKey string, cell Cell) error
	// AttributeCount is the number of learning attributes the raw column expands to.
	AttributeCount() int
	// CreateColumnData builds the columns, numbering them from firstAttributeIndex.
	CreateColumnData(firstAttributeIndex int, cfg Config) ([]Column, error)
}

func missingErr(op, name, rowKey string) error {
	return tfErrors.NewModelError(op, fmt.Sprintf("column %q row %q", name, rowKey), tfErrors.ErrMissingValue)
}

// NumericColumnCreator builds a NumericColumn.
type NumericColumnCreator struct {
	name   string
	values []float64
}

// NewNumericColumnCreator returns a creator for the named numeric column.
func NewNumericColumnCreator(name string) *NumericColumnCreator {
	return &NumericColumnCreator{name: name}
}

func (c *NumericColumnCreator) AcceptsMissing() bool { return false }
func (c *NumericColumnCreator) AttributeCount() int  { return 1 }

func (c *NumericColumnCreator) Add(rowKey string, cell Cell) error {
	if cell.Missing || math.IsNaN(cell.Number) {
		return missingErr("NumericColumnCreator.Add", c.name, rowKey)
	}
	c.values = append(c.values, cell.Number)
	return nil
}

func (c *NumericColumnCreator) CreateColumnData(firstAttributeIndex int, _ Config) ([]Column, error) {
	return []Column{NewNumericColumn(c.name, firstAttributeIndex, c.values)}, nil
}

// NominalColumnCreator builds a NominalColumn, interning labels on the fly.
type NominalColumnCreator struct {
	name   string
	values *NominalValueTable
	codes  []int
}

// NewNominalColumnCreator returns a creator for the named nominal column.
func NewNominalColumnCreator(name string) *NominalColumnCreator {
	return &NominalColumnCreator{name: name, values: NewNominalValueTable()}
}

func (c *NominalColumnCreator) AcceptsMissing() bool { return false }
func (c *NominalColumnCreator) AttributeCount() int  { return 1 }

func (c *NominalColumnCreator) Add(rowKey string, cell Cell) error {
	if cell.Missing {
		return missingErr("NominalColumnCreator.Add", c.name, rowKey)
	}
	c.codes = append(c.codes, c.values.Intern(cell.Label, 1))
	return nil
}

func (c *NominalColumnCreator) CreateColumnData(firstAttributeIndex int, _ Config) ([]Column, error) {
	col, err := NewNominalColumn(c.name, firstAttributeIndex, c.values, c.codes)
	if err != nil {
		return nil, err
	}
	return []Column{col}, nil
}

// BitVectorColumnCreator expands a fixed-length bit-vector column into one
// BitVectorColumn per bit position.
type BitVectorColumnCreator struct {
	name     string
	length   int
	sets     []*bit.Set
	rowCount int
}

// NewBitVectorColumnCreator returns a creator for the named bit-vector column.
func NewBitVectorColumnCreator(name string) *BitVectorColumnCreator {
	return &BitVectorColumnCreator{name: name, length: -1}
}

func (c *BitVectorColumnCreator) AcceptsMissing() bool { return false }

// AttributeCount is the bit-vector length, 0 before the first row.
func (c *BitVectorColumnCreator) AttributeCount() int { return max(c.length, 0) }

func (c *BitVectorColumnCreator) Add(rowKey string, cell Cell) error {
	if cell.Missing {
		return missingErr("BitVectorColumnCreator.Add", c.name, rowKey)
	}
	if c.length < 0 {
		c.length = len(cell.Bits)
		c.sets = make([]*bit.Set, c.length)
		for i := range c.sets {
			c.sets[i] = new(bit.Set)
		}
	} else if len(cell.Bits) != c.length {
		return tfErrors.NewModelError("BitVectorColumnCreator.Add",
			fmt.Sprintf("column %q row %q has %d bits, expected %d", c.name, rowKey, len(cell.Bits), c.length),
			tfErrors.ErrBitVectorLength)
	}
	for i, on := range cell.Bits {
		if on {
			c.sets[i].Add(c.rowCount)
		}
	}
	c.rowCount++
	return nil
}

func (c *BitVectorColumnCreator) CreateColumnData(firstAttributeIndex int, _ Config) ([]Column, error) {
	cols := make([]Column, c.AttributeCount())
	for i := range cols {
		name := fmt.Sprintf("%s[%d]", c.name, i)
		cols[i] = NewBitVectorColumn(name, firstAttributeIndex+i, i, c.sets[i], c.rowCount)
	}
	return cols, nil
}

// TargetCreator accumulates the target column.
type TargetCreator interface {
	Add(rowKey string, cell Cell) error
	CreateTarget() (Target, error)
}

// NominalTargetCreator builds a NominalTarget.
type NominalTargetCreator struct {
	name   string
	values *NominalValueTable
	codes  []int
}

// NewNominalTargetCreator returns a creator for the named class column.
func NewNominalTargetCreator(name string) *NominalTargetCreator {
	return &NominalTargetCreator{name: name, values: NewNominalValueTable()}
}

func (c *NominalTargetCreator) Add(rowKey string, cell Cell) error {
	if cell.Missing {
		return missingErr("NominalTargetCreator.Add", c.name, rowKey)
	}
	c.codes = append(c.codes, c.values.Intern(cell.Label, 1))
	return nil
}

func (c *NominalTargetCreator) CreateTarget() (Target, error) {
	return NewNominalTarget(c.name, c.values, c.codes)
}

// NumericTargetCreator builds a NumericTarget.
type NumericTargetCreator struct {
	name   string
	values []float64
}

// NewNumericTargetCreator returns a creator for the named regression target.
func NewNumericTargetCreator(name string) *NumericTargetCreator {
	return &NumericTargetCreator{name: name}
}

func (c *NumericTargetCreator) Add(rowKey string, cell Cell) error {
	if cell.Missing || math.IsNaN(cell.Number) {
		return missingErr("NumericTargetCreator.Add", c.name, rowKey)
	}
	c.values = append(c.values, cell.Number)
	return nil
}

func (c *NumericTargetCreator) CreateTarget() (Target, error) {
	return NewNumericTarget(c.name, c.values), nil
}
