// Package errors provides structured error reporting for the choreography
// engine.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindContract indicates a leaf that does not implement the lifecycle contract.
	KindContract
	// KindHangingExit indicates a coordinator exit resolved by its fallback bound.
	KindHangingExit
	// KindNavigation indicates a navigation that could not complete normally.
	KindNavigation
	// KindConfig indicates invalid or unreadable configuration.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindContract:
		return "contract"
	case KindHangingExit:
		return "hanging-exit"
	case KindNavigation:
		return "navigation"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Error is a structured error reported by the engine.
type Error struct {
	// Op is the operation that failed (e.g., "transition.Coordinator.Exit").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Scope names the transition scope or coordinator involved, if any.
	Scope string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *Error) Error() string {
	if e.Scope != "" {
		return fmt.Sprintf("%s [%s] scope=%s: %v", e.Op, e.Kind, e.Scope, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "sound.Sounds.Play").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ContractError reports a leaf view wired into a lifecycle bridge without the
// Enter/Exit operations the bridge dispatches to.
type ContractError struct {
	// Leaf is the Go type of the offending value.
	Leaf string
	// Missing lists the absent operations.
	Missing []string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("lifecycle contract violation: %s does not implement %s(done func())",
		e.Leaf, strings.Join(e.Missing, "(done func()) or "))
}

// HangingExitError reports children that never signalled exit completion.
type HangingExitError struct {
	// Pending holds the indices of children that were still exiting.
	Pending []int
	// Total is the number of children asked to exit.
	Total int
	// Bound is the fallback that elapsed.
	Bound time.Duration
}

func (e *HangingExitError) Error() string {
	return fmt.Sprintf("%d of %d children did not finish exiting within %v (indices %v)",
		len(e.Pending), e.Total, e.Bound, e.Pending)
}

// ErrorHandler receives errors reported by the engine.
type ErrorHandler interface {
	// HandleError is called when an error is reported.
	HandleError(err *Error)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
