// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kairos

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// finalizerNode is an immutable cons cell in a cancellation token's
// finalizer stack. Using immutable cons cells under CAS (rather than a
// mutex-protected slice) means cancel() can swap the whole head atomically
// and see a consistent snapshot even while another goroutine is mid-push.
type finalizerNode struct {
	effect effect
	next   *finalizerNode
}

// Token is a mutable, shareable cancellation scope. It holds a LIFO stack
// of finalizer effects to run on cancel, a monotonic cancelled flag, and a
// nesting mask-depth that latches cancellation without observing it.
//
// Tokens are shared across fibers; all mutation is CAS on atomic fields,
// never a mutex.
type Token struct {
	id        string
	head      atomic.Pointer[finalizerNode]
	cancelled atomic.Bool
	maskDepth atomic.Int32
}

// NewToken creates a fresh, uncancelled, unmasked cancellation token.
func NewToken() *Token {
	t := &Token{id: uuid.Must(uuid.NewV7()).String()}
	return t
}

// ID returns a UUIDv7 stamped on creation, for diagnostic log correlation
// only — it plays no role in cancellation semantics.
func (t *Token) ID() string { return t.id }

// isMasked reports whether cancellation is currently latched (mask-depth > 0).
func (t *Token) isMasked() bool { return t.maskDepth.Load() > 0 }

// push records a finalizer effect. No-op if the token is done (cancelled)
// or masked.
func (t *Token) push(e effect) {
	if t.cancelled.Load() || t.isMasked() {
		return
	}
	n := acquireFinalizerNode()
	n.effect = e
	for {
		head := t.head.Load()
		n.next = head
		if t.head.CompareAndSwap(head, n) {
			return
		}
	}
}

// pop removes and returns the most recently pushed finalizer, or
// (nil, false) if empty. No-op (returns false) if masked.
func (t *Token) pop() (effect, bool) {
	if t.isMasked() {
		return nil, false
	}
	for {
		head := t.head.Load()
		if head == nil {
			return nil, false
		}
		if t.head.CompareAndSwap(head, head.next) {
			e := head.effect
			releaseFinalizerNode(head)
			return e, true
		}
	}
}

// popAndRun pops the most recent finalizer and returns it as the effect
// to run, or Unit if the stack was empty. Bracket's ordinary
// (non-cancelled) release path calls pop directly, not popAndRun.
func (t *Token) popAndRun() effect {
	e, ok := t.pop()
	if !ok {
		return unitEffect
	}
	return e
}

// isCancelled reflects the current state under mask: always false while
// masked, regardless of whether cancel() has been called.
func (t *Token) isCancelled() bool {
	if t.isMasked() {
		return false
	}
	return t.cancelled.Load()
}

// pushMask / popMask toggle cancellability. Mask-depth nests: a token is
// uncancellable iff its mask-depth is positive.
func (t *Token) pushMask() { t.maskDepth.Add(1) }
func (t *Token) popMask()  { t.maskDepth.Add(-1) }

// cancel atomically marks the token cancelled and returns an effect that,
// when run, executes all pending finalizers in LIFO order. The first
// finalizer error becomes the returned effect's failure; subsequent
// finalizer errors are reported to the diagnostic stream, never discarded
// silently.
func (t *Token) cancel() effect {
	t.cancelled.Store(true)
	snapshot := t.head.Swap(nil)
	return &runFinalizersEffect{node: snapshot, tokenID: t.id}
}

// drainFinalizers collects the finalizer chain (most-recent-first) into a
// slice so runFinalizersEffect can run them in LIFO order without
// recursing through the cons list on each step.
func drainFinalizers(n *finalizerNode) []effect {
	var out []effect
	for n != nil {
		out = append(out, n.effect)
		n = n.next
	}
	return out
}
