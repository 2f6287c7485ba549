// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kairos

// Bracket runs acquire, then use(resource), guaranteeing release runs
// exactly once iff acquire succeeded — whether use succeeds, raises, or
// the enclosing fiber is cancelled mid-use. acquire and release both run
// masked (Uncancellable) so neither can itself be interrupted partway.
//
// The exactly-once guarantee is built on the token's finalizer stack
// rather than on the error path: release is pushed as a finalizer before
// use runs, so an external cancel() that drains the stack runs it with
// ErrCancelled. If use instead completes normally (success or raise),
// restore pops that same finalizer itself and runs it with the real
// outcome. The token's push/pop CAS pair guarantees exactly one of those
// two paths ever gets to run it.
func Bracket[R, A any](acquire Effect[R], use func(R) Effect[A], release func(R, error) Effect[Unit]) Effect[A] {
	return Bind(Uncancellable(func(*Token) Effect[R] { return acquire }), func(r R) Effect[A] {
		return ContextSwitch(
			use(r),
			func(tok *Token) *Token {
				tok.push(Suspend(func() (Effect[Unit], error) { return release(r, ErrCancelled), nil }).node)
				return tok
			},
			func(result A, err error, _, newTok *Token) Effect[A] {
				if _, popped := newTok.pop(); !popped {
					if err != nil {
						return RaiseError[A](err)
					}
					return Pure(result)
				}
				return Bind(Uncancellable(func(*Token) Effect[Unit] { return release(r, err) }), func(Unit) Effect[A] {
					if err != nil {
						return RaiseError[A](err)
					}
					return Pure(result)
				})
			},
		)
	})
}

// Guarantee runs finalizer after fa completes, regardless of outcome,
// without acquiring a separate resource value — Bracket with a trivial
// Unit resource.
func Guarantee[A any](fa Effect[A], finalizer func(error) Effect[Unit]) Effect[A] {
	return Bracket(UnitEffect(), func(Unit) Effect[A] { return fa }, func(_ Unit, err error) Effect[Unit] {
		return finalizer(err)
	})
}
