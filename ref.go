// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kairos

import "sync/atomic"

// Ref is a CAS-based mutable cell. Every operation is itself an Effect —
// building a Ref operation has no side effect until it is run — and the
// underlying compare-and-swap happens inside a Delay.
type Ref[A any] struct {
	v atomic.Pointer[A]
}

// NewRef constructs a Ref holding initial.
func NewRef[A any](initial A) *Ref[A] {
	r := &Ref[A]{}
	v := initial
	r.v.Store(&v)
	return r
}

// Get reads the current value.
func (r *Ref[A]) Get() Effect[A] {
	return Delay(func() (A, error) {
		return *r.v.Load(), nil
	})
}

// Set replaces the current value unconditionally.
func (r *Ref[A]) Set(a A) Effect[Unit] {
	return Delay(func() (Unit, error) {
		v := a
		r.v.Store(&v)
		return Unit{}, nil
	})
}

// Update applies f to the current value and stores the result. f may be
// invoked more than once under contention and must be pure.
func (r *Ref[A]) Update(f func(A) A) Effect[Unit] {
	return Delay(func() (Unit, error) {
		for {
			old := r.v.Load()
			next := f(*old)
			if r.v.CompareAndSwap(old, &next) {
				return Unit{}, nil
			}
		}
	})
}

// ModifyRef applies f to the current value of r, storing the returned new
// value and yielding the returned side value B. A method cannot introduce
// a type parameter independent of the receiver's, so this is a free
// function rather than *Ref[A].Modify, keeping multi-type-parameter
// operations as package-level functions rather than methods.
func ModifyRef[A, B any](r *Ref[A], f func(A) (A, B)) Effect[B] {
	return Delay(func() (B, error) {
		for {
			old := r.v.Load()
			next, b := f(*old)
			if r.v.CompareAndSwap(old, &next) {
				return b, nil
			}
		}
	})
}
