package data

import (
	"sort"
	"sync"

	tfErrors "github.com/ezoic/treeforge/pkg/errors"
)

// Tracker lists the active rows of one node in one column's order.
// Each slot holds a row (original index) and its position in the column.
// Slots are ordered by position, so iterating a tracker walks the column's
// sorted order while skipping inactive rows.
//
// A Tracker is not safe for concurrent mutation. Derive a new one per child
// with Restrict instead of sharing.
type Tracker struct {
	rows      []int
	positions []int
	columnLen int

	lookupOnce sync.Once
	slotOf     map[int]int
}

// NewTracker lists the rows of column whose weight exceeds Epsilon.
func NewTracker(column Column, weights []float64) (*Tracker, error) {
	n := column.Len()
	if len(weights) != n {
		return nil, tfErrors.NewDimensionError("NewTracker", n, len(weights), 0)
	}
	t := &Tracker{columnLen: n}
	for pos := 0; pos < n; pos++ {
		row := column.OriginalIndexAt(pos)
		if weights[row] > Epsilon {
			t.rows = append(t.rows, row)
			t.positions = append(t.positions, pos)
		}
	}
	return t, nil
}

// Restrict derives a tracker holding only slots whose row weight exceeds Epsilon.
// Order is preserved.
func (t *Tracker) Restrict(weights []float64) (*Tracker, error) {
	if len(weights) != t.columnLen {
		return nil, tfErrors.NewDimensionError("Tracker.Restrict", t.columnLen, len(weights), 0)
	}
	child := &Tracker{columnLen: t.columnLen}
	for i, row := range t.rows {
		if weights[row] > Epsilon {
			child.rows = append(child.rows, row)
			child.positions = append(child.positions, t.positions[i])
		}
	}
	return child, nil
}

// UpdateInPlace keeps only the listed rows and re-sorts them by column
// position. Every listed row must already be tracked.
func (t *Tracker) UpdateInPlace(kept []int) error {
	positions := make([]int, len(kept))
	for i, row := range kept {
		slot, ok := t.SlotOf(row)
		if !ok {
			return tfErrors.NewModelError("Tracker.UpdateInPlace", "row is not tracked",
				tfErrors.NewIndexError("Tracker.UpdateInPlace", row, t.columnLen))
		}
		positions[i] = t.positions[slot]
	}
	order := make([]int, len(kept))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return positions[order[a]] < positions[order[b]] })

	rows := make([]int, len(kept))
	pos := make([]int, len(kept))
	for i, o := range order {
		rows[i] = kept[o]
		pos[i] = positions[o]
	}
	t.rows = rows
	t.positions = pos
	t.lookupOnce = sync.Once{}
	t.slotOf = nil
	return nil
}

// Len is the number of active rows.
func (t *Tracker) Len() int { return len(t.rows) }

// Empty reports whether the node has no active rows. Such a node is a leaf.
func (t *Tracker) Empty() bool { return len(t.rows) == 0 }

// At returns the row and column position of slot. It panics with an
// IndexError outside [0, Len()).
func (t *Tracker) At(slot int) (row, position int) {
	if slot < 0 || slot >= len(t.rows) {
		panic(tfErrors.NewIndexError("Tracker.At", slot, len(t.rows)))
	}
	return t.rows[slot], t.positions[slot]
}

// Row returns the row of slot. It panics with an IndexError outside [0, Len()).
func (t *Tracker) Row(slot int) int {
	row, _ := t.At(slot)
	return row
}

// SlotOf returns the slot holding row.
func (t *Tracker) SlotOf(row int) (int, bool) {
	t.lookupOnce.Do(func() {
		t.slotOf = make(map[int]int, len(t.rows))
		for slot, r := range t.rows {
			t.slotOf[r] = slot
		}
	})
	slot, ok := t.slotOf[row]
	return slot, ok
}

// Rows returns the tracked rows in column order. It must not be modified.
func (t *Tracker) Rows() []int { return t.rows }

// Positions returns the column positions, ascending. It must not be modified.
func (t *Tracker) Positions() []int { return t.positions }
