// Package errors provides error handling for the QPREP state-preparation
// service, including the domain error taxonomy shared by the circuit,
// simulation, and optimization packages.
package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"strings"
)

// Kind classifies an error into one of the domain failure categories.
type Kind string

const (
	// KindShapeMismatch marks a parameter vector whose length disagrees with
	// the circuit dimensions. Always a caller or configuration bug.
	KindShapeMismatch Kind = "shape_mismatch"
	// KindDimensionMismatch marks a target state whose dimension disagrees
	// with the simulated state. A configuration bug.
	KindDimensionMismatch Kind = "dimension_mismatch"
	// KindSimulationFailure marks a circuit the simulator could not evaluate.
	// The computation is deterministic, so it is never retried.
	KindSimulationFailure Kind = "simulation_failure"
	// KindNoViableResult marks a run in which every trial failed.
	KindNoViableResult Kind = "no_viable_result"
	// KindUnknown is returned by KindOf for errors outside the taxonomy.
	KindUnknown Kind = ""
)

// Error is an error with a kind, contextual metadata, and a stack trace.
type Error struct {
	// Kind is the domain category, if any.
	Kind Kind
	// Message describes what went wrong.
	Message string
	// Operation is the operation that was being performed.
	Operation string
	// Component is the package or subsystem where the error occurred.
	Component string
	// Err is the wrapped cause, if any.
	Err error
	// Stack holds the capture-time stack trace.
	Stack []string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	if e.Kind != KindUnknown {
		b.WriteString(string(e.Kind))
	}
	if e.Message != "" {
		if b.Len() > 0 {
			b.WriteString(": ")
		}
		b.WriteString(e.Message)
	}
	if e.Operation != "" {
		if b.Len() > 0 {
			b.WriteString(": ")
		}
		b.WriteString("operation=")
		b.WriteString(e.Operation)
	}
	if e.Component != "" {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString("component=")
		b.WriteString(e.Component)
	}
	if e.Err != nil {
		if b.Len() > 0 {
			b.WriteString(": ")
		}
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithOperation records the operation that produced the error.
func (e *Error) WithOperation(op string) *Error {
	e.Operation = op
	return e
}

// WithComponent records the component that produced the error.
func (e *Error) WithComponent(component string) *Error {
	e.Component = component
	return e
}

// StackTrace returns the stack captured when the error was created.
func (e *Error) StackTrace() []string {
	return e.Stack
}

// New creates a new error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{
		Kind:    kind,
		Message: msg,
		Stack:   getStackTrace(),
	}
}

// Newf creates a new error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Stack:   getStackTrace(),
	}
}

// Wrap wraps err with an additional message. The kind of a wrapped *Error is
// preserved so KindOf still classifies the chain. Wrap returns nil for a nil
// err.
func Wrap(err error, msg string) *Error {
	if err == nil {
		return nil
	}

	wrapped := &Error{
		Message: msg,
		Err:     err,
		Stack:   getStackTrace(),
	}
	if kind := KindOf(err); kind != KindUnknown {
		wrapped.Kind = kind
	}
	return wrapped
}

// Wrapf wraps err with a formatted message.
func Wrapf(err error, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// KindOf returns the kind of the first kinded *Error in err's chain, or
// KindUnknown when the chain carries none.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind != KindUnknown {
			return e.Kind
		}
		err = stderrors.Unwrap(err)
	}
	return KindUnknown
}

// IsKind reports whether err's chain contains an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// getStackTrace captures the current stack, skipping runtime frames and this
// package's own constructors.
func getStackTrace() []string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	stack := make([]string, 0, n)

	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") && !strings.Contains(frame.File, "internal/errors") {
			stack = append(stack, fmt.Sprintf("%s\n\t%s:%d", frame.Function, frame.File, frame.Line))
		}
		if !more {
			break
		}
	}

	return stack
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err, if err's
// type has an Unwrap method. Otherwise it returns nil.
func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}
