// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kairos

// effect is the closed, tagged-variant sum that backs the public generic
// Effect[A] wrapper. The run loop dispatches on its concrete type via a
// type switch — no virtual method call sees effect-specific behavior,
// favoring dense dispatch over subclassing.
type effect interface{ isEffect() }

type pureEffect struct{ value any }

func (*pureEffect) isEffect() {}

type delayEffect struct{ thunk func() (any, error) }

func (*delayEffect) isEffect() {}

type suspendEffect struct{ thunk func() (effect, error) }

func (*suspendEffect) isEffect() {}

type raiseEffect struct{ err error }

func (*raiseEffect) isEffect() {}

// bindEffect covers both Bind and Map nodes: a plain frame applies
// k on success; a Map-shaped node instead stores mapFn so the run loop can
// fuse it with the unboxed fast path (no descent, no new effect node).
// Exactly one of k/mapFn is set.
type bindEffect struct {
	inner effect
	k     func(any) effect
	mapFn func(any) any
}

func (*bindEffect) isEffect() {}

// handlerEffect wraps inner with a recovery arm — Attempt/HandleErrorWith/
// Redeem all compile down to this node. success is applied on the
// value path (nil means "pass the value through unchanged"); recover is
// applied on the raise path.
type handlerEffect struct {
	inner   effect
	success func(any) effect
	recover func(error) effect
}

func (*handlerEffect) isEffect() {}

// asyncProducer is the type-erased producer signature: invoked off the
// loop, it must arrange for cb to be called exactly once.
type asyncProducer func(tok *Token, ctx *IOContext, cb func(any, error))

type asyncEffect struct {
	producer        asyncProducer
	trampolineAfter bool
}

func (*asyncEffect) isEffect() {}

// restoreFn computes the effect to run once next (below) completes or
// fails, given the outcome and the tokens involved. It is responsible for
// forwarding (or overriding) the original outcome itself — e.g. bracket's
// release restore runs the release effect and then re-raises/re-returns
// the original outcome; a plain mask-pop restore just returns Pure(v) or
// RaiseError(err) after restoring conn to old.
type restoreFn func(v any, err error, old, newTok *Token) effect

// contextSwitchEffect's next effect is built lazily from the token it will
// actually observe (after modify runs) — needed because Uncancellable's
// body receives that token as an argument rather than closing over it.
type contextSwitchEffect struct {
	nextFn  func(tok *Token) effect
	modify  func(*Token) *Token
	restore restoreFn
}

func (*contextSwitchEffect) isEffect() {}

// runFinalizersEffect is produced by Token.cancel(): running it executes
// the drained finalizer chain in LIFO order. It is itself implemented in
// terms of suspendEffect-shaped evaluation inside the run loop (see
// loop.go's dispatch for *runFinalizersEffect).
type runFinalizersEffect struct {
	node    *finalizerNode
	tokenID string
}

func (*runFinalizersEffect) isEffect() {}

// Unit is the canonical empty value, used where Go would otherwise need a
// struct{} literal threaded through every signature.
type Unit struct{}

var unitEffect effect = &pureEffect{value: Unit{}}

// Effect[A] is a pure description of a computation producing a value of
// type A. Building one has no side effect; only RunSync/RunAsync/
// RunCancellable (and Fiber.start) interpret it.
type Effect[A any] struct {
	node effect
}

// Pure lifts an already-evaluated value into an effect.
func Pure[A any](a A) Effect[A] {
	return Effect[A]{node: &pureEffect{value: a}}
}

// UnitEffect is Pure(Unit{}), spelled out for composition chains that
// discard their result.
func UnitEffect() Effect[Unit] { return Effect[Unit]{node: unitEffect} }

// Delay produces a value by evaluating thunk synchronously. Any error
// returned by thunk is captured and surfaces on the raise path instead of
// propagating as a Go panic from inside the run loop.
func Delay[A any](thunk func() (A, error)) Effect[A] {
	return Effect[A]{node: &delayEffect{thunk: func() (any, error) {
		return thunk()
	}}}
}

// Suspend produces another effect by evaluating thunk. This is the
// primitive that enables recursion: a Suspend thunk may itself construct
// and return an effect built from Suspend, without growing the native
// stack once the run loop takes over.
func Suspend[A any](thunk func() (Effect[A], error)) Effect[A] {
	return Effect[A]{node: &suspendEffect{thunk: func() (effect, error) {
		e, err := thunk()
		if err != nil {
			return nil, err
		}
		return e.node, nil
	}}}
}

// RaiseError constructs an unconditional failure.
func RaiseError[A any](err error) Effect[A] {
	return Effect[A]{node: &raiseEffect{err: err}}
}

// Bind sequences two effects: k receives the value produced by m and
// returns the next effect to run.
func Bind[A, B any](m Effect[A], k func(A) Effect[B]) Effect[B] {
	return Effect[B]{node: &bindEffect{
		inner: m.node,
		k: func(v any) effect {
			var a A
			if v != nil {
				a = v.(A)
			}
			return k(a).node
		},
	}}
}

// Map applies a pure function to the result of m. The run loop may fuse
// Map with an adjacent unboxed value without allocating an intermediate
// effect node.
func Map[A, B any](m Effect[A], f func(A) B) Effect[B] {
	return Effect[B]{node: &bindEffect{
		inner: m.node,
		mapFn: func(v any) any {
			var a A
			if v != nil {
				a = v.(A)
			}
			return f(a)
		},
	}}
}

// Then sequences m before n, discarding m's result.
func Then[A, B any](m Effect[A], n Effect[B]) Effect[B] {
	return Bind(m, func(A) Effect[B] { return n })
}

// Async invokes producer off the loop. producer must call cb exactly once
// with either a value or an error; additional invocations are dropped per
// the at-most-once callback discipline. trampolineAfter
// requests that resumption be bounced through the trampoline executor
// instead of re-entering the loop inline on producer's calling goroutine.
func Async[A any](producer func(tok *Token, ctx *IOContext, cb func(A, error)), trampolineAfter bool) Effect[A] {
	return Effect[A]{node: &asyncEffect{
		trampolineAfter: trampolineAfter,
		producer: func(tok *Token, ctx *IOContext, cb func(any, error)) {
			producer(tok, ctx, func(a A, err error) {
				if err != nil {
					cb(nil, err)
					return
				}
				cb(a, nil)
			})
		},
	}}
}

// Cancellable builds an Async effect from a producer that also returns a
// cancellation effect: producer receives the completion callback and
// returns an Effect[Unit] that, when run, must make a best effort to stop
// the underlying operation. The returned cancel effect is pushed as a
// finalizer on the active token so that cancelling the enclosing scope
// invokes it.
func Cancellable[A any](producer func(cb func(A, error)) Effect[Unit]) Effect[A] {
	return Async[A](func(tok *Token, _ *IOContext, cb func(A, error)) {
		cancel := producer(cb)
		tok.push(cancel.node)
	}, true)
}

// ContextSwitch rewrites the active cancellation token for the scope of
// next: modify computes the new token from the old one; when next
// completes or fails, restore is applied as a handler frame over both
// the success and failure paths. restore may be nil, in which case next
// simply runs under the new token with no cleanup on exit.
func ContextSwitch[A any](next Effect[A], modify func(*Token) *Token, restore func(result A, err error, old, newTok *Token) Effect[A]) Effect[A] {
	var r restoreFn
	if restore != nil {
		r = func(v any, err error, old, newTok *Token) effect {
			var value A
			if v != nil {
				value = v.(A)
			}
			return restore(value, err, old, newTok).node
		}
	}
	return Effect[A]{node: &contextSwitchEffect{
		nextFn: func(*Token) effect { return next.node },
		modify: modify,
		restore: r,
	}}
}

// Attempt reifies the outcome of m into an Either, never itself failing
// (barring a fatal error, which still bypasses this handler).
func Attempt[A any](m Effect[A]) Effect[Either[error, A]] {
	return Effect[Either[error, A]]{node: &handlerEffect{
		inner: m.node,
		success: func(v any) effect {
			var a A
			if v != nil {
				a = v.(A)
			}
			return &pureEffect{value: Right[error, A](a)}
		},
		recover: func(err error) effect {
			return &pureEffect{value: Left[error, A](err)}
		},
	}}
}

// HandleErrorWith recovers from a failure in m by running f(err).
func HandleErrorWith[A any](m Effect[A], f func(error) Effect[A]) Effect[A] {
	return Effect[A]{node: &handlerEffect{
		inner: m.node,
		recover: func(err error) effect {
			return f(err).node
		},
	}}
}

// Redeem folds both outcomes of m into a new effect: onError on failure,
// onSuccess on success.
func Redeem[A, B any](m Effect[A], onError func(error) Effect[B], onSuccess func(A) Effect[B]) Effect[B] {
	return Effect[B]{node: &handlerEffect{
		inner: m.node,
		success: func(v any) effect {
			var a A
			if v != nil {
				a = v.(A)
			}
			return onSuccess(a).node
		},
		recover: func(err error) effect {
			return onError(err).node
		},
	}}
}

// Uncancellable masks cancellation for the duration of fa: the token
// passed to fa reports is_cancelled() as false and ignores push/pop while
// masked, latching any pending cancel until the region exits.
func Uncancellable[A any](fa func(*Token) Effect[A]) Effect[A] {
	return Effect[A]{node: &contextSwitchEffect{
		nextFn: func(tok *Token) effect { return fa(tok).node },
		modify: func(old *Token) *Token {
			old.pushMask()
			return old
		},
		restore: func(v any, err error, old, _ *Token) effect {
			old.popMask()
			if err != nil {
				return &raiseEffect{err: err}
			}
			return &pureEffect{value: v}
		},
	}}
}
