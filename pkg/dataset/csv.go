package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	tfErrors "github.com/ezoic/treeforge/pkg/errors"
	"github.com/ezoic/treeforge/sklearn/tree/data"
)

// LoadCSV reads path with ReadCSV.
func LoadCSV(path string, schema Schema) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, tfErrors.Wrapf(err, "failed to open file %s", path)
	}
	defer func() { _ = f.Close() }()
	t, err := ReadCSV(f, schema)
	if err != nil {
		return nil, err
	}
	logLoaded(path, t)
	return t, nil
}

// ReadCSV reads a comma separated table whose first record is the header.
// Empty cells are missing values, which the column creators reject.
func ReadCSV(r io.Reader, schema Schema) (*Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, tfErrors.Wrap(err, "read csv")
	}
	if len(records) < 2 {
		return nil, tfErrors.NewModelError("ReadCSV", "need a header and at least one row", tfErrors.ErrEmptyData)
	}
	header, body := records[0], records[1:]

	targetIdx := -1
	for j, name := range header {
		if name == schema.Target {
			targetIdx = j
		}
	}
	if targetIdx < 0 {
		return nil, tfErrors.NewValidationError("target", "column not found in header", schema.Target)
	}

	tbl := &Table{Rows: len(body), Target: newTargetCreator(schema.Target, schema.Regression)}
	type attr struct {
		index   int
		typ     ColumnType
		creator data.ColumnCreator
	}
	var attrs []attr
	for j, name := range header {
		if j == targetIdx || schema.ignored(name) {
			continue
		}
		typ := schema.Types[name]
		if typ == Auto {
			typ = inferType(body, j)
		}
		var cr data.ColumnCreator
		switch typ {
		case Numeric:
			cr = data.NewNumericColumnCreator(name)
		case Nominal:
			cr = data.NewNominalColumnCreator(name)
		case BitVector:
			cr = data.NewBitVectorColumnCreator(name)
		}
		attrs = append(attrs, attr{index: j, typ: typ, creator: cr})
		tbl.Names = append(tbl.Names, name)
		tbl.Creators = append(tbl.Creators, cr)
	}

	for i, rec := range body {
		key := rowKey(i)
		for _, a := range attrs {
			cell, err := parseCell(rec[a.index], a.typ)
			if err != nil {
				return nil, tfErrors.Wrapf(err, "row %d column %q", i+1, header[a.index])
			}
			if err := a.creator.Add(key, cell); err != nil {
				return nil, err
			}
		}
		tcell, err := parseTarget(rec[targetIdx], schema.Regression)
		if err != nil {
			return nil, tfErrors.Wrapf(err, "row %d target", i+1)
		}
		if err := tbl.Target.Add(key, tcell); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

func inferType(body [][]string, j int) ColumnType {
	for _, rec := range body {
		s := strings.TrimSpace(rec[j])
		if s == "" {
			continue
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return Nominal
		}
	}
	return Numeric
}

func parseCell(raw string, typ ColumnType) (data.Cell, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return data.MissingCell(), nil
	}
	switch typ {
	case Numeric:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return data.Cell{}, tfErrors.NewValueError("parseCell", "not a number: "+s)
		}
		return data.NumberCell(v), nil
	case BitVector:
		bits := make([]bool, len(s))
		for k, ch := range s {
			switch ch {
			case '0':
			case '1':
				bits[k] = true
			default:
				return data.Cell{}, tfErrors.NewValueError("parseCell", "bit vector cells must contain only 0 and 1: "+s)
			}
		}
		return data.BitsCell(bits), nil
	}
	return data.LabelCell(s), nil
}

func parseTarget(raw string, regression bool) (data.Cell, error) {
	if !regression {
		return parseCell(raw, Nominal)
	}
	return parseCell(raw, Numeric)
}
