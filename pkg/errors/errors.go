// Package errors provides the error taxonomy shared by every treeforge package.
//
// Errors are built on github.com/cockroachdb/errors so that stack traces and
// wrapping survive across package boundaries, while the typed errors defined
// here carry the structured context (operation, expected/actual sizes, index
// ranges) that callers inspect with errors.As.
//
// Three categories matter to callers of the split-search core:
//
//   - Contract violations (unsupported column, bit-vector length mismatch,
//     fractional regression weight, index out of range, bad configuration).
//     These are returned as typed errors wrapping a sentinel and are never
//     retried.
//   - "No split found" is not an error. Engines return a nil candidate.
//   - Numerical drift is reported as a warning through Warn.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinel errors. Match them with errors.Is.
var (
	ErrEmptyData            = errors.New("empty data")
	ErrUnsupportedColumn    = errors.New("unsupported column type")
	ErrBitVectorLength      = errors.New("bit vector length mismatch")
	ErrFractionalWeight     = errors.New("fractional row weight")
	ErrIndexOutOfRange      = errors.New("index out of range")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrMissingValue         = errors.New("missing value")
	ErrCorruptEncoding      = errors.New("corrupt encoding")
)

const prefix = "treeforge"

// New, Newf, Wrap and Wrapf are re-exported so packages need a single errors import.
var (
	New    = errors.New
	Newf   = errors.Newf
	Wrap   = errors.Wrap
	Wrapf  = errors.Wrapf
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)

// ModelError is a failure inside an estimator or engine operation.
type ModelError struct {
	Op      string
	Message string
	Err     error
}

// NewModelError creates a ModelError. err may be nil.
func NewModelError(op, message string, err error) error {
	return errors.WithStack(&ModelError{Op: op, Message: message, Err: err})
}

func (e *ModelError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s: %s", prefix, e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s: %v", prefix, e.Op, e.Message, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ModelError) Unwrap() error { return e.Err }

// ValueError reports an argument with an unacceptable value.
type ValueError struct {
	Op      string
	Message string
}

// NewValueError creates a ValueError.
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %s: %s", prefix, e.Op, e.Message)
}

// DimensionError reports mismatched lengths or shapes.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int
}

// NewDimensionError creates a DimensionError for the given axis (0 = rows, 1 = columns).
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

func (e *DimensionError) Error() string {
	axis := "rows"
	if e.Axis == 1 {
		axis = "columns"
	}
	return fmt.Sprintf("%s: %s: dimension mismatch on %s: expected %d, got %d", prefix, e.Op, axis, e.Expected, e.Got)
}

// ValidationError reports a parameter that failed validation.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
	Err       error
}

// NewValidationError creates a ValidationError. It wraps ErrInvalidConfiguration.
func NewValidationError(param, reason string, value interface{}) error {
	return errors.WithStack(&ValidationError{ParamName: param, Reason: reason, Value: value, Err: ErrInvalidConfiguration})
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid %s (%v): %s", prefix, e.ParamName, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidConfiguration.
func (e *ValidationError) Unwrap() error { return e.Err }

// NotFittedError reports a call on an estimator that has not been trained.
type NotFittedError struct {
	ModelName string
	Method    string
}

// NewNotFittedError creates a NotFittedError.
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("%s: %s: this %s instance is not fitted yet, call Fit before %s", prefix, e.Method, e.ModelName, e.Method)
}

// IndexError reports access outside [0, Len).
type IndexError struct {
	Op    string
	Index int
	Len   int
}

// NewIndexError creates an IndexError. It wraps ErrIndexOutOfRange.
func NewIndexError(op string, index, length int) error {
	return errors.WithStack(&IndexError{Op: op, Index: index, Len: length})
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: %s: index %d out of range [0, %d)", prefix, e.Op, e.Index, e.Len)
}

// Unwrap returns ErrIndexOutOfRange.
func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

// Recover converts a panic in the calling function into an error stored in *errp.
// Use it with defer at public entry points:
//
//	func (t *Tree) Fit(X, y mat.Matrix) (err error) {
//		defer errors.Recover(&err, "Tree.Fit")
//		...
//	}
func Recover(errp *error, op string) {
	r := recover()
	if r == nil {
		return
	}
	var cause error
	switch v := r.(type) {
	case error:
		cause = v
	default:
		cause = errors.Newf("%v", v)
	}
	*errp = NewModelError(op, "panic recovered", cause)
}
