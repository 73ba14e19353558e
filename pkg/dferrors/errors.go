// Package dferrors provides the structured error kinds raised by the table
// engine. Every structural failure (shape, missing key, unsupported mode) is
// reported as an *Error carrying its ErrorType, a message, optional details
// and the call stack at the point of creation.
//
// # Basic Usage
//
//	if len(mask) != df.Len() {
//	    return nil, dferrors.Newf(dferrors.ErrorTypeShape,
//	        "mask length %d does not match table length %d", len(mask), df.Len()).
//	        WithDetail("operation", "filter")
//	}
//
// Callers branch on the kind with IsType:
//
//	if dferrors.IsType(err, dferrors.ErrorTypeKey) {
//	    // column or label absent
//	}
//
// Per-element computation failures never surface as errors; they resolve to a
// null value inside the produced column.
package dferrors

import (
	"errors"
	"runtime"

	stringpool "github.com/nash-dir/lesserpandas/pkg/strings"
)

// ErrorType is the kind of failure, independent of the operation that raised it.
type ErrorType string

const (
	// ErrorTypeShape represents length mismatches across columns, masks or assigned values
	ErrorTypeShape ErrorType = "shape"
	// ErrorTypeKey represents a missing column name or index label
	ErrorTypeKey ErrorType = "key"
	// ErrorTypeTypeMismatch represents unsupported input shapes, operands or orderings
	ErrorTypeTypeMismatch ErrorType = "type_mismatch"
	// ErrorTypeValue represents invalid arguments: unknown join modes, reducers, axes or failed casts
	ErrorTypeValue ErrorType = "value"
	// ErrorTypeIndexOutOfRange represents positional access beyond bounds
	ErrorTypeIndexOutOfRange ErrorType = "index_out_of_range"
	// ErrorTypeIO represents read/write failures in the I/O layer
	ErrorTypeIO ErrorType = "io"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// Error is a structured error with a kind, context details and a stack.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame is one frame of the captured call stack.
type StackFrame struct {
	Function string // Fully qualified function name
	File     string // Source file path
	Line     int    // Line number in source file
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return stringpool.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return stringpool.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail attaches a key-value detail and returns the receiver so calls chain.
//
// Example:
//
//	err := dferrors.New(dferrors.ErrorTypeKey, "column not found").
//	    WithDetail("column", name).
//	    WithDetail("available", df.Columns())
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates an error of the given kind, capturing the call stack.
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf is New with a formatted message.
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: stringpool.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps err with a kind and message. If err is already an *Error its
// stack is kept. Returns nil if err is nil.
//
// Example:
//
//	f, err := os.Open(path)
//	if err != nil {
//	    return nil, dferrors.Wrap(err, dferrors.ErrorTypeIO, "failed to open input").
//	        WithDetail("path", path)
//	}
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType reports whether err, or any error it wraps, is an *Error of errType.
//
// Example:
//
//	row, err := df.Loc().Get(value.Text("missing"))
//	if dferrors.IsType(err, dferrors.ErrorTypeKey) {
//	    return defaultRow
//	}
func IsType(err error, errType ErrorType) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Type == errType {
			return true
		}
		err = e.Cause
	}
	return false
}

// TypeOf returns the kind of the outermost *Error in err's chain, or "" if none.
func TypeOf(err error) ErrorType {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Type
}

// captureStack records up to maxFrames frames, skipping the top skip frames.
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
