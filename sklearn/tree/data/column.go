package data

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yourbasic/bit"

	tfErrors "github.com/ezoic/treeforge/pkg/errors"
)

// ColumnKind tags the Column variants.
type ColumnKind int

const (
	NumericKind ColumnKind = iota
	NominalKind
	BitVectorKind
)

func (k ColumnKind) String() string {
	switch k {
	case NumericKind:
		return "numeric"
	case NominalKind:
		return "nominal"
	case BitVectorKind:
		return "bitvector"
	}
	return fmt.Sprintf("ColumnKind(%d)", int(k))
}

// ParseColumnKind parses the names returned by String.
func ParseColumnKind(s string) (ColumnKind, error) {
	for k := NumericKind; k <= BitVectorKind; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, tfErrors.NewValueError("ParseColumnKind", "unknown column kind "+s)
}

func (k ColumnKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *ColumnKind) UnmarshalText(b []byte) error {
	parsed, err := ParseColumnKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Column is one learning attribute stored in split-search order.
// The variants are *NumericColumn, *NominalColumn and *BitVectorColumn;
// consumers dispatch with a type switch.
type Column interface {
	// Name is the attribute name shown to users.
	Name() string
	// AttributeIndex is the global position among learning attributes.
	AttributeIndex() int
	// Kind tags the variant.
	Kind() ColumnKind
	// Len is the number of rows.
	Len() int
	// OriginalIndexAt maps a position in the column order to the row.
	OriginalIndexAt(pos int) int
	String() string

	isColumn()
}

// NumericColumn holds values sorted ascending with ties in row order.
type NumericColumn struct {
	name           string
	attributeIndex int
	sortedValues   []float64
	originalIndex  []int
}

// NewNumericColumn sorts values (stable) and builds the permutation back to rows.
func NewNumericColumn(name string, attributeIndex int, values []float64) *NumericColumn {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })
	sorted := make([]float64, len(values))
	for pos, row := range idx {
		sorted[pos] = values[row]
	}
	return &NumericColumn{name: name, attributeIndex: attributeIndex, sortedValues: sorted, originalIndex: idx}
}

func (c *NumericColumn) isColumn()                   {}
func (c *NumericColumn) Name() string                { return c.name }
func (c *NumericColumn) AttributeIndex() int         { return c.attributeIndex }
func (c *NumericColumn) Kind() ColumnKind            { return NumericKind }
func (c *NumericColumn) Len() int                    { return len(c.sortedValues) }
func (c *NumericColumn) OriginalIndexAt(pos int) int { return c.originalIndex[pos] }

// ValueAt returns the value at sorted position pos.
func (c *NumericColumn) ValueAt(pos int) float64 { return c.sortedValues[pos] }

// SortedValues returns the sorted values. The slice must not be modified.
func (c *NumericColumn) SortedValues() []float64 { return c.sortedValues }

// OriginalIndex returns the permutation. The slice must not be modified.
func (c *NumericColumn) OriginalIndex() []int { return c.originalIndex }

func (c *NumericColumn) String() string {
	if len(c.sortedValues) == 0 {
		return fmt.Sprintf("%s [numeric, #%d, empty]", c.name, c.attributeIndex)
	}
	return fmt.Sprintf("%s [numeric, #%d, %d rows, range %g..%g]", c.name, c.attributeIndex,
		len(c.sortedValues), c.sortedValues[0], c.sortedValues[len(c.sortedValues)-1])
}

// NominalColumn holds rows grouped by code in code order.
type NominalColumn struct {
	name           string
	attributeIndex int
	values         *NominalValueTable
	blockCounts    []int
	blockStarts    []int
	originalIndex  []int
}

// NewNominalColumn groups rows by code. codes[row] must lie in [0, values.Len()).
func NewNominalColumn(name string, attributeIndex int, values *NominalValueTable, codes []int) (*NominalColumn, error) {
	n := values.Len()
	counts := make([]int, n)
	for row, code := range codes {
		if code < 0 || code >= n {
			return nil, tfErrors.NewModelError("NewNominalColumn",
				fmt.Sprintf("row %d has code %d outside [0, %d)", row, code, n), tfErrors.ErrIndexOutOfRange)
		}
		counts[code]++
	}
	starts := make([]int, n+1)
	for code, cnt := range counts {
		starts[code+1] = starts[code] + cnt
	}
	next := make([]int, n)
	copy(next, starts[:n])
	idx := make([]int, len(codes))
	for row, code := range codes {
		idx[next[code]] = row
		next[code]++
	}
	return &NominalColumn{
		name:           name,
		attributeIndex: attributeIndex,
		values:         values,
		blockCounts:    counts,
		blockStarts:    starts,
		originalIndex:  idx,
	}, nil
}

func (c *NominalColumn) isColumn()                   {}
func (c *NominalColumn) Name() string                { return c.name }
func (c *NominalColumn) AttributeIndex() int         { return c.attributeIndex }
func (c *NominalColumn) Kind() ColumnKind            { return NominalKind }
func (c *NominalColumn) Len() int                    { return len(c.originalIndex) }
func (c *NominalColumn) OriginalIndexAt(pos int) int { return c.originalIndex[pos] }

// Values returns the column's nominal value table.
func (c *NominalColumn) Values() *NominalValueTable { return c.values }

// OriginalIndex returns rows grouped by code. The slice must not be modified.
func (c *NominalColumn) OriginalIndex() []int { return c.originalIndex }

// CodeCount is the number of distinct codes.
func (c *NominalColumn) CodeCount() int { return len(c.blockCounts) }

// BlockCounts returns the row count per code. The slice must not be modified.
func (c *NominalColumn) BlockCounts() []int { return c.blockCounts }

// BlockEnd is the first position after the block of code.
func (c *NominalColumn) BlockEnd(code int) int { return c.blockStarts[code+1] }

// BlockStart is the first position of the block of code.
func (c *NominalColumn) BlockStart(code int) int { return c.blockStarts[code] }

// CodeAt returns the code of the row at position pos.
func (c *NominalColumn) CodeAt(pos int) int {
	return sort.SearchInts(c.blockStarts[1:], pos+1)
}

func (c *NominalColumn) String() string {
	return fmt.Sprintf("%s [nominal, #%d, %d rows, values %s]", c.name, c.attributeIndex, c.Len(), c.values)
}

// BitVectorColumn is one bit position of a multi-bit attribute.
// Positions are rows; there is no sort order.
type BitVectorColumn struct {
	name           string
	attributeIndex int
	bitPosition    int
	set            *bit.Set
	rowCount       int
}

// NewBitVectorColumn wraps set, the rows whose bit is on.
func NewBitVectorColumn(name string, attributeIndex, bitPosition int, set *bit.Set, rowCount int) *BitVectorColumn {
	return &BitVectorColumn{name: name, attributeIndex: attributeIndex, bitPosition: bitPosition, set: set, rowCount: rowCount}
}

func (c *BitVectorColumn) isColumn()                   {}
func (c *BitVectorColumn) Name() string                { return c.name }
func (c *BitVectorColumn) AttributeIndex() int         { return c.attributeIndex }
func (c *BitVectorColumn) Kind() ColumnKind            { return BitVectorKind }
func (c *BitVectorColumn) Len() int                    { return c.rowCount }
func (c *BitVectorColumn) OriginalIndexAt(pos int) int { return pos }

// BitPosition is the bit this column represents within its raw attribute.
func (c *BitVectorColumn) BitPosition() int { return c.bitPosition }

// IsSet reports whether the bit is on for row.
func (c *BitVectorColumn) IsSet(row int) bool { return c.set.Contains(row) }

// OnCount is the number of rows with the bit on.
func (c *BitVectorColumn) OnCount() int { return c.set.Size() }

func (c *BitVectorColumn) String() string {
	return fmt.Sprintf("%s [bitvector, #%d, bit %d, %d/%d on]", c.name, c.attributeIndex, c.bitPosition, c.set.Size(), c.rowCount)
}

// describeColumns renders one line per column.
func describeColumns(cols []Column) string {
	lines := make([]string, len(cols))
	for i, c := range cols {
		lines[i] = c.String()
	}
	return strings.Join(lines, "\n")
}
