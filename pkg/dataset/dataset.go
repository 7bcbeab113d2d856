// Package dataset turns raw tables into the column creators that build a
// data.TreeData.
//
// Three sources are supported: CSV with a header row, dense gonum matrices
// and pairs of .npy files. All of them produce a *Table, which feeds the
// same column-building protocol:
//
//	tbl, err := dataset.LoadCSV("iris.csv", dataset.Schema{Target: "species"})
//	td, err := tbl.TreeData(cfg)
package dataset

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/mat"

	tfErrors "github.com/ezoic/treeforge/pkg/errors"
	"github.com/ezoic/treeforge/pkg/log"
	"github.com/ezoic/treeforge/sklearn/tree/data"
)

// ColumnType selects how a raw column is stored.
type ColumnType int

const (
	// Auto stores a column as numeric when every cell parses as a number
	// and as nominal otherwise.
	Auto ColumnType = iota
	Numeric
	Nominal
	// BitVector expects cells of '0'/'1' characters, all of the same length.
	BitVector
)

func (t ColumnType) String() string {
	switch t {
	case Auto:
		return "auto"
	case Numeric:
		return "numeric"
	case Nominal:
		return "nominal"
	case BitVector:
		return "bitvector"
	}
	return fmt.Sprintf("ColumnType(%d)", int(t))
}

// ParseColumnType parses the names returned by String.
func ParseColumnType(s string) (ColumnType, error) {
	for t := Auto; t <= BitVector; t++ {
		if t.String() == s {
			return t, nil
		}
	}
	return Auto, tfErrors.NewValidationError("column_type", "unknown column type", s)
}

// Schema describes how to interpret a raw table.
type Schema struct {
	// Target names the target column.
	Target string `mapstructure:"target" yaml:"target"`
	// Regression makes the target numeric.
	Regression bool `mapstructure:"regression" yaml:"regression"`
	// Types overrides the type of individual columns. Missing entries are Auto.
	Types map[string]ColumnType `mapstructure:"-" yaml:"-"`
	// Ignore lists columns that are not learning attributes.
	Ignore []string `mapstructure:"ignore" yaml:"ignore"`
}

func (s Schema) ignored(name string) bool {
	for _, n := range s.Ignore {
		if n == name {
			return true
		}
	}
	return false
}

// Table is a raw table split into attribute creators and a target creator,
// ready for data.Build.
type Table struct {
	Names    []string
	Creators []data.ColumnCreator
	Target   data.TargetCreator
	Rows     int
}

// TreeData builds the column store under cfg. cfg.IsRegression must match
// the target the table was loaded with.
func (t *Table) TreeData(cfg data.Config) (*data.TreeData, error) {
	if t.Rows == 0 {
		return nil, tfErrors.NewModelError("Table.TreeData", "no rows", tfErrors.ErrEmptyData)
	}
	return data.Build(t.Creators, t.Target, cfg)
}

// ClassLabel is the nominal label FromDense assigns to class value v.
func ClassLabel(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// FromDense wraps a numeric feature matrix and a target vector. names may be
// nil, in which case columns are called x0, x1, ... Classification targets
// become nominal labels via ClassLabel.
func FromDense(X mat.Matrix, y []float64, names []string, regression bool) (*Table, error) {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return nil, tfErrors.NewModelError("FromDense", "empty feature matrix", tfErrors.ErrEmptyData)
	}
	if len(y) != rows {
		return nil, tfErrors.NewDimensionError("FromDense", rows, len(y), 0)
	}
	if names == nil {
		names = make([]string, cols)
		for j := range names {
			names[j] = fmt.Sprintf("x%d", j)
		}
	} else if len(names) != cols {
		return nil, tfErrors.NewDimensionError("FromDense", cols, len(names), 1)
	}

	tbl := &Table{Names: names, Rows: rows, Target: newTargetCreator("target", regression)}
	creators := make([]*data.NumericColumnCreator, cols)
	for j, name := range names {
		creators[j] = data.NewNumericColumnCreator(name)
		tbl.Creators = append(tbl.Creators, creators[j])
	}
	for i := 0; i < rows; i++ {
		key := rowKey(i)
		for j, cr := range creators {
			if err := cr.Add(key, data.NumberCell(X.At(i, j))); err != nil {
				return nil, err
			}
		}
		if err := tbl.Target.Add(key, targetCell(y[i], regression)); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

func targetCell(v float64, regression bool) data.Cell {
	if regression {
		return data.NumberCell(v)
	}
	return data.LabelCell(ClassLabel(v))
}

func newTargetCreator(name string, regression bool) data.TargetCreator {
	if regression {
		return data.NewNumericTargetCreator(name)
	}
	return data.NewNominalTargetCreator(name)
}

func logLoaded(path string, t *Table) {
	log.GetLoggerWithName("dataset").Debug("Table loaded",
		log.OperationKey, log.OperationLoad,
		"path", path,
		log.SamplesKey, t.Rows,
		log.FeaturesKey, len(t.Creators))
}

func rowKey(i int) string { return "Row" + strconv.Itoa(i) }
