// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kairos

import (
	"errors"
	"fmt"
)

// Kind classifies an error surfaced by the run loop, per the error
// taxonomy: user errors flow through handler frames, fatal errors bypass
// them, and illegal-state errors are a specialization of user errors
// raised by primitives that detect a broken invariant (Deferred double
// completion, RunSync on an Async effect).
type Kind uint8

const (
	// UserErrorKind is raised by RaiseError or thrown inside Delay/Suspend/
	// continuations. It propagates through Bind and is intercepted by the
	// nearest handler frame.
	UserErrorKind Kind = iota
	// FatalErrorKind bypasses handler frames and surfaces directly to the
	// terminal callback.
	FatalErrorKind
	// IllegalStateKind marks a broken runtime invariant. Raised as a user
	// error so ordinary handler frames can still intercept it, but callers
	// inspecting Kind can distinguish it from a domain error.
	IllegalStateKind
	// CancelledKind marks an outcome produced by cancellation rather than
	// a domain failure. Bracket's finalizer path uses this to tell a
	// release function whether it is running because use() raised or
	// because the surrounding fiber was cancelled mid-use.
	CancelledKind
)

func (k Kind) String() string {
	switch k {
	case UserErrorKind:
		return "user"
	case FatalErrorKind:
		return "fatal"
	case IllegalStateKind:
		return "illegal-state"
	case CancelledKind:
		return "cancelled"
	default:
		return "unknown"
	}
}

// RuntimeError wraps an underlying error with a Kind, the classification
// the run loop uses to decide whether a handler frame may intercept it.
type RuntimeError struct {
	Kind Kind
	Err  error
}

func (e *RuntimeError) Error() string {
	if e.Err == nil {
		return e.Kind.String() + " error"
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// IsFatal reports whether err (or anything it wraps) is a fatal error. The
// run loop's raise path consults this to skip handler frames entirely.
func IsFatal(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Kind == FatalErrorKind
	}
	return false
}

// IsIllegalState reports whether err is an illegal-state error.
func IsIllegalState(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Kind == IllegalStateKind
	}
	return false
}

// Fatal wraps err as a fatal error. The fatal predicate used by the run
// loop is exactly "wraps a *RuntimeError with Kind == FatalErrorKind";
// callers needing a different fatal predicate (VM errors, OS interrupts)
// should wrap at the boundary where those are detected.
func Fatal(err error) error {
	return &RuntimeError{Kind: FatalErrorKind, Err: err}
}

// illegalState constructs an illegal-state error with a formatted message.
func illegalState(format string, args ...any) error {
	return &RuntimeError{Kind: IllegalStateKind, Err: fmt.Errorf(format, args...)}
}

// ErrRunSyncSuspended is returned by RunSync when the effect reaches an
// Async node: RunSync is only valid for effects that never suspend.
var ErrRunSyncSuspended = illegalState("kairos: RunSync encountered an Async effect")

// IsCancelled reports whether err (or anything it wraps) marks a
// cancellation outcome rather than a domain failure.
func IsCancelled(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Kind == CancelledKind
	}
	return false
}

// ErrCancelled is the error Bracket's release function observes when it
// runs because the surrounding computation was cancelled mid-use rather
// than because use() raised.
var ErrCancelled error = &RuntimeError{Kind: CancelledKind, Err: errors.New("kairos: operation cancelled")}
