// Package data holds the training dataset in split-search order.
//
// A TreeData is built once per training run from ColumnCreators and a
// TargetCreator and is never mutated afterwards, so any number of trees and
// goroutines may share it. Per node, callers supply a weight vector indexed
// by original row (0 excludes the row) and derive Priors and Trackers from it.
package data

import (
	"fmt"

	tfErrors "github.com/ezoic/treeforge/pkg/errors"
)

// TreeType describes the column variants present in a dataset.
type TreeType int

const (
	// Ordinary datasets hold numeric and nominal columns only.
	Ordinary TreeType = iota
	// BitVector datasets hold bit-vector columns only.
	BitVector
	// Mixed datasets hold bit-vector and ordinary columns.
	Mixed
)

func (t TreeType) String() string {
	switch t {
	case Ordinary:
		return "ordinary"
	case BitVector:
		return "bitvector"
	case Mixed:
		return "mixed"
	}
	return fmt.Sprintf("TreeType(%d)", int(t))
}

// TreeData is the immutable column store plus target.
type TreeData struct {
	columns  []Column
	target   Target
	treeType TreeType
	config   Config
}

// NewTreeData checks that every column has one entry per target row and that
// attribute indices are 0..len(columns)-1 in order.
func NewTreeData(columns []Column, target Target, cfg Config) (*TreeData, error) {
	if target == nil || target.Len() == 0 {
		return nil, tfErrors.NewModelError("NewTreeData", "no target rows", tfErrors.ErrEmptyData)
	}
	if len(columns) == 0 {
		return nil, tfErrors.NewModelError("NewTreeData", "no learning columns", tfErrors.ErrEmptyData)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	_, nominalTarget := target.(*NominalTarget)
	if nominalTarget == cfg.IsRegression {
		return nil, tfErrors.NewValidationError("is_regression", "does not match the target type", cfg.IsRegression)
	}

	var bitCols, otherCols int
	for i, c := range columns {
		if c.Len() != target.Len() {
			return nil, tfErrors.NewDimensionError("NewTreeData "+c.Name(), target.Len(), c.Len(), 0)
		}
		if c.AttributeIndex() != i {
			return nil, tfErrors.NewModelError("NewTreeData",
				fmt.Sprintf("column %q has attribute index %d at position %d", c.Name(), c.AttributeIndex(), i),
				tfErrors.ErrIndexOutOfRange)
		}
		switch c.(type) {
		case *BitVectorColumn:
			bitCols++
		case *NumericColumn, *NominalColumn:
			otherCols++
		default:
			return nil, tfErrors.NewModelError("NewTreeData", fmt.Sprintf("%T", c), tfErrors.ErrUnsupportedColumn)
		}
	}
	tt := Ordinary
	switch {
	case bitCols > 0 && otherCols > 0:
		tt = Mixed
	case bitCols > 0:
		tt = BitVector
	}
	return &TreeData{columns: columns, target: target, treeType: tt, config: cfg}, nil
}

// Build drives the column-building protocol: each creator yields its columns
// in order, numbered consecutively.
func Build(creators []ColumnCreator, target TargetCreator, cfg Config) (*TreeData, error) {
	var columns []Column
	for _, cr := range creators {
		cols, err := cr.CreateColumnData(len(columns), cfg)
		if err != nil {
			return nil, err
		}
		columns = append(columns, cols...)
	}
	t, err := target.CreateTarget()
	if err != nil {
		return nil, err
	}
	return NewTreeData(columns, t, cfg)
}

// Columns returns all columns ordered by attribute index. It must not be modified.
func (d *TreeData) Columns() []Column { return d.columns }

// Column returns the column with the given attribute index.
func (d *TreeData) Column(attributeIndex int) Column { return d.columns[attributeIndex] }

// Target returns the target column.
func (d *TreeData) Target() Target { return d.target }

// TreeType describes the column variants present.
func (d *TreeData) TreeType() TreeType { return d.treeType }

// Config is the validated configuration the data was built with.
func (d *TreeData) Config() Config { return d.config }

// RowCount is the number of training rows.
func (d *TreeData) RowCount() int { return d.target.Len() }

// IsRegression reports whether the target is numeric.
func (d *TreeData) IsRegression() bool { return d.config.IsRegression }

// UniformWeights returns a weight vector of ones, the root node's weights.
func (d *TreeData) UniformWeights() []float64 {
	w := make([]float64, d.RowCount())
	for i := range w {
		w[i] = 1
	}
	return w
}

func (d *TreeData) String() string {
	return fmt.Sprintf("TreeData(%s, %d rows)\ntarget: %s\n%s", d.treeType, d.RowCount(), d.target, describeColumns(d.columns))
}
