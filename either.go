// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kairos

// Either represents a value that is either Left (conventionally, error)
// or Right (conventionally, success). Used here as Attempt's return type
// instead of backing a generic algebraic Error effect.
type Either[L, R any] struct {
	isRight bool
	left    L
	right   R
}

// Left constructs a Left value.
func Left[L, R any](l L) Either[L, R] { return Either[L, R]{left: l} }

// Right constructs a Right value.
func Right[L, R any](r R) Either[L, R] { return Either[L, R]{isRight: true, right: r} }

// IsRight reports whether e holds a Right value.
func (e Either[L, R]) IsRight() bool { return e.isRight }

// IsLeft reports whether e holds a Left value.
func (e Either[L, R]) IsLeft() bool { return !e.isRight }

// GetRight returns the Right value and true, or the zero value and false.
func (e Either[L, R]) GetRight() (R, bool) {
	if e.isRight {
		return e.right, true
	}
	var zero R
	return zero, false
}

// GetLeft returns the Left value and true, or the zero value and false.
func (e Either[L, R]) GetLeft() (L, bool) {
	if !e.isRight {
		return e.left, true
	}
	var zero L
	return zero, false
}

// MatchEither pattern-matches on e.
func MatchEither[L, R, T any](e Either[L, R], onLeft func(L) T, onRight func(R) T) T {
	if e.isRight {
		return onRight(e.right)
	}
	return onLeft(e.left)
}
