// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kairos

// RunSync runs an effect that never suspends, returning its value or
// error synchronously. If the effect reaches an Async node, RunSync fails
// with ErrRunSyncSuspended instead of blocking. A nil cfg uses
// DefaultConfig.
func RunSync[A any](e Effect[A], cfg *Config) (A, error) {
	var result A
	var resultErr error
	done := false
	runLoop(e.node, nil, nil, nil, frameStack{}, cfg, true, func(v any, err error) {
		done = true
		if err != nil {
			resultErr = err
			return
		}
		if v != nil {
			result = v.(A)
		}
	})
	if !done {
		// Defensive: forbidAsync guarantees the terminal callback always
		// fires (either with a value, a failure, or ErrRunSyncSuspended).
		return result, ErrRunSyncSuspended
	}
	return result, resultErr
}

// RunAsync runs e to completion, invoking cb exactly once with the result
// or the error. Unlike RunSync, e may contain Async nodes; cb may be
// invoked synchronously (if e never suspends) or later, from whatever
// goroutine the last Async producer's callback fires on.
func RunAsync[A any](e Effect[A], cfg *Config, cb func(A, error)) {
	runLoop(e.node, nil, nil, nil, frameStack{}, cfg, false, func(v any, err error) {
		if err != nil {
			var zero A
			cb(zero, err)
			return
		}
		var value A
		if v != nil {
			value = v.(A)
		}
		cb(value, nil)
	})
}

// RunCancellable runs e like RunAsync, additionally returning a cancel
// effect and the token the run is interpreted under. Running the cancel
// effect marks the token cancelled and runs its finalizers — Fiber.Cancel
// follows the same pattern at the fiber level.
func RunCancellable[A any](e Effect[A], cfg *Config, cb func(A, error)) (cancel Effect[Unit], tok *Token) {
	tok = NewToken()
	runLoop(e.node, tok, nil, nil, frameStack{}, cfg, false, func(v any, err error) {
		if err != nil {
			var zero A
			cb(zero, err)
			return
		}
		var value A
		if v != nil {
			value = v.(A)
		}
		cb(value, nil)
	})
	cancel = Suspend(func() (Effect[Unit], error) {
		return Effect[Unit]{node: tok.cancel()}, nil
	})
	return cancel, tok
}
