// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kairos

import "sync/atomic"

// restartCallback is the mutable, one-shot-per-boundary object that
// holds the saved bind stack and re-enters the run loop when an Async
// producer's callback fires. canCall enforces at-most-once invocation
// under concurrent callers.
type restartCallback struct {
	tok             *Token
	ctx             *IOContext
	cfg             *Config
	cb              func(any, error)
	exec            Executor
	trampolineAfter bool

	canCall atomic.Bool

	bFirst *frame
	bRest  frameStack

	pendingV   any
	pendingErr error
}

func newRestartCallback(tok *Token, ctx *IOContext, cfg *Config, cb func(any, error), exec Executor) *restartCallback {
	r := &restartCallback{tok: tok, ctx: ctx, cfg: cfg, cb: cb, exec: exec}
	r.canCall.Store(true)
	return r
}

// save captures the bind stack to restore on resumption, once the run
// loop suspends on an Async node.
func (r *restartCallback) save(bFirst *frame, bRest frameStack, trampolineAfter bool) {
	r.canCall.Store(true)
	r.bFirst = bFirst
	r.bRest = bRest
	r.trampolineAfter = trampolineAfter
}

// invoke is the callback producer functions call. Exactly the first call
// wins; later calls are dropped, with an error-carrying drop reported to
// the diagnostic stream.
func (r *restartCallback) invoke(v any, err error) {
	if !r.canCall.CompareAndSwap(true, false) {
		if err != nil {
			diagLog().Error("kairos: dropped async callback after completion", "error", err, "token_id", r.tok.ID())
		}
		return
	}
	r.pendingV, r.pendingErr = v, err
	if r.trampolineAfter {
		r.exec.Submit(r.signal)
		return
	}
	r.signal()
}

// signal nulls the saved frames before resuming, so neither the run loop
// nor any user closure reachable through them keeps this callback (and
// anything it might transitively reach back to) alive longer than needed.
func (r *restartCallback) signal() {
	bFirst, bRest := r.bFirst, r.bRest
	tok, ctx, cfg, cb := r.tok, r.ctx, r.cfg, r.cb
	v, err := r.pendingV, r.pendingErr
	r.bFirst, r.bRest, r.ctx = nil, frameStack{}, nil
	r.pendingV, r.pendingErr = nil, nil

	if tok.isCancelled() {
		return
	}
	var next effect
	if err != nil {
		next = &raiseEffect{err: err}
	} else {
		next = &pureEffect{value: v}
	}
	runLoop(next, tok, ctx, bFirst, bRest, cfg, false, cb)
}
