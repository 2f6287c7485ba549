// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kairos

// runLoop is the trampolined interpreter at the center of the runtime.
// It consumes current (the node under inspection), threading conn
// (the active cancellation token), ctx (the lazily-created trace
// side-channel), and the bind stack (bFirst, the hot register; bRest, the
// overflow) until it either reaches a terminal value/error (invoking cb
// exactly once) or an Async node (returning, to be resumed later by a
// restartCallback with the same saved bind stack).
//
// Pure/Delay/Suspend/Bind/Map never suspend. Async returns without
// calling cb, and so does the auto-cancel poll once it finds conn
// cancelled. The per-iteration auto-cancel poll bounds cancellation
// latency to cfg.batchSize() synchronous steps without per-step cost.
func runLoop(current effect, conn *Token, ctx *IOContext, bFirst *frame, bRest frameStack, cfg *Config, forbidAsync bool, cb func(any, error)) {
	var (
		unboxed   any
		iterCount int
	)
	batch := cfg.batchSize()

	for {
		if conn != nil && iterCount > 0 && iterCount%batch == 0 && conn.isCancelled() {
			return
		}
		iterCount++

		if current != nil {
			switch node := current.(type) {
			case *pureEffect:
				unboxed = node.value
				current = nil

			case *delayEffect:
				v, err := safeDelay(node.thunk)
				if err != nil {
					current = &raiseEffect{err: err}
					continue
				}
				unboxed = v
				current = nil

			case *suspendEffect:
				next, err := safeSuspend(node.thunk)
				if err != nil {
					current = &raiseEffect{err: err}
					continue
				}
				current = next

			case *raiseEffect:
				if IsFatal(node.err) {
					cb(nil, node.err)
					return
				}
				h := popHandler(&bFirst, &bRest)
				if h == nil {
					cb(nil, node.err)
					return
				}
				next, err := safeRecover(h.recover, node.err)
				releaseFrame(h)
				if err != nil {
					current = &raiseEffect{err: err}
					continue
				}
				current = next

			case *bindEffect:
				f := acquireFrame()
				f.bindFn = node.k
				f.mapFn = node.mapFn
				if bFirst != nil {
					bRest.push(bFirst)
				}
				bFirst = f
				current = node.inner

			case *handlerEffect:
				f := acquireFrame()
				f.bindFn = node.success
				f.recover = node.recover
				if bFirst != nil {
					bRest.push(bFirst)
				}
				bFirst = f
				current = node.inner

			case *contextSwitchEffect:
				if conn == nil {
					conn = NewToken()
				}
				if ctx == nil {
					ctx = &IOContext{}
				}
				old := conn
				newTok := node.modify(old)
				conn = newTok
				next := node.nextFn(newTok)
				if node.restore != nil {
					restore := node.restore
					f := acquireFrame()
					f.bindFn = func(v any) effect { return restore(v, nil, old, newTok) }
					f.recover = func(err error) effect { return restore(nil, err, old, newTok) }
					if bFirst != nil {
						bRest.push(bFirst)
					}
					bFirst = f
				}
				current = next

			case *runFinalizersEffect:
				current = buildFinalizerChain(drainFinalizers(node.node), node.tokenID)

			case *asyncEffect:
				if forbidAsync {
					cb(nil, ErrRunSyncSuspended)
					return
				}
				if conn == nil {
					conn = NewToken()
				}
				if ctx == nil {
					ctx = &IOContext{}
				}
				rcb := newRestartCallback(conn, ctx, cfg, cb, DefaultExecutor)
				rcb.save(bFirst, bRest, node.trampolineAfter)
				node.producer(conn, ctx, rcb.invoke)
				return

			default:
				cb(nil, &RuntimeError{Kind: FatalErrorKind, Err: errUnknownEffect})
				return
			}
			continue
		}

		// has_unboxed path: pop the next frame with a success arm,
		// discarding error-handler-only frames along the way — a frame
		// whose only arm is a recovery handler is skipped on the value
		// path.
		f, ok := popForValue(&bFirst, &bRest)
		if !ok {
			cb(unboxed, nil)
			return
		}
		if f.mapFn != nil {
			v, err := safeMap(f.mapFn, unboxed)
			releaseFrame(f)
			if err != nil {
				current = &raiseEffect{err: err}
				continue
			}
			unboxed = v
			continue
		}
		next, err := safeBind(f.bindFn, unboxed)
		releaseFrame(f)
		if err != nil {
			current = &raiseEffect{err: err}
			continue
		}
		current = next
	}
}

// popHandler pops frames on the raise path until it finds one with a
// recovery arm, discarding plain frames along the way.
func popHandler(bFirst **frame, bRest *frameStack) *frame {
	for {
		var f *frame
		if *bFirst != nil {
			f = *bFirst
			*bFirst = nil
		} else {
			var ok bool
			f, ok = bRest.pop()
			if !ok {
				return nil
			}
		}
		if f.isHandler() {
			return f
		}
		releaseFrame(f)
	}
}

// popForValue pops frames on the success path until it finds one with a
// success arm (bindFn or mapFn), discarding error-handler-only frames.
func popForValue(bFirst **frame, bRest *frameStack) (*frame, bool) {
	for {
		var f *frame
		if *bFirst != nil {
			f = *bFirst
			*bFirst = nil
		} else {
			var ok bool
			f, ok = bRest.pop()
			if !ok {
				return nil, false
			}
		}
		if f.mapFn != nil || f.bindFn != nil {
			return f, true
		}
		releaseFrame(f)
	}
}

// buildFinalizerChain expresses "run these effects in order, first error
// wins, rest diagnosed" in terms of the interpreter's own handlerEffect
// node, so Token.cancel()'s effect is evaluated by the same loop as
// everything else rather than a bespoke runner.
func buildFinalizerChain(effects []effect, tokenID string) effect {
	var firstErr error
	var firstErrSet bool
	var build func(i int) effect
	build = func(i int) effect {
		if i >= len(effects) {
			return &suspendEffect{thunk: func() (effect, error) {
				if firstErrSet {
					return &raiseEffect{err: firstErr}, nil
				}
				return unitEffect, nil
			}}
		}
		i0 := i
		return &handlerEffect{
			inner:   effects[i0],
			success: func(any) effect { return build(i0 + 1) },
			recover: func(err error) effect {
				if !firstErrSet {
					firstErr, firstErrSet = err, true
				} else {
					diagLog().Error("kairos: finalizer error during cancel", "error", err, "token_id", tokenID)
				}
				return build(i0 + 1)
			},
		}
	}
	return build(0)
}
