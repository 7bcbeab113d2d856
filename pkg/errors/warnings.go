package errors

import (
	"fmt"
	"math"
	"sync"

	zlog "github.com/rs/zerolog/log"
)

// NumericalWarning flags an incrementally tracked value that drifted from an
// independently recomputed reference.
type NumericalWarning struct {
	Op        string
	Quantity  string
	Value     float64
	Reference float64
}

// NewNumericalWarning creates a NumericalWarning.
func NewNumericalWarning(op, quantity string, value, reference float64) *NumericalWarning {
	return &NumericalWarning{Op: op, Quantity: quantity, Value: value, Reference: reference}
}

func (w *NumericalWarning) Error() string {
	return fmt.Sprintf("%s: %s: %s drifted: tracked %g, recomputed %g", prefix, w.Op, w.Quantity, w.Value, w.Reference)
}

// CheckDrift returns a NumericalWarning when tracked and recomputed differ by
// more than tolerance relative to recomputed. Both values near zero never warn.
func CheckDrift(op, quantity string, tracked, recomputed, tolerance float64) error {
	diff := math.Abs(tracked - recomputed)
	scale := math.Max(math.Abs(recomputed), 1e-12)
	if diff/scale > tolerance && diff > 1e-12 {
		return NewNumericalWarning(op, quantity, tracked, recomputed)
	}
	return nil
}

// WarningHandler receives warnings passed to Warn.
type WarningHandler func(w error)

var (
	handlerMu sync.RWMutex
	handler   WarningHandler = defaultHandler
)

func defaultHandler(w error) {
	zlog.Warn().Err(w).Msg("warning")
}

// SetWarningHandler replaces the process-wide warning handler and returns the previous one.
// A nil handler restores the default zerolog handler.
func SetWarningHandler(h WarningHandler) WarningHandler {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	prev := handler
	if h == nil {
		h = defaultHandler
	}
	handler = h
	return prev
}

// Warn reports a non-fatal condition. nil is ignored.
func Warn(w error) {
	if w == nil {
		return
	}
	handlerMu.RLock()
	h := handler
	handlerMu.RUnlock()
	h(w)
}
