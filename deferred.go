package kairos

import "sync/atomic"

// waiterNode is an immutable cons cell in a Deferred's waiter list. fired
// guards at-most-once delivery: both Complete's drain and a racing
// registration that discovers the value was set in between can attempt to
// fire the same node, and cancellation claims the same flag to suppress a
// callback that would otherwise still be pending.
type waiterNode[A any] struct {
	fn    func(A)
	fired atomic.Bool
	next  *waiterNode[A]
}

func (n *waiterNode[A]) fire(a A) {
	if n.fired.CompareAndSwap(false, true) {
		n.fn(a)
	}
}

// Deferred is a single-assignment cell with a lock-free waiter queue.
// State transitions are one-way: Unset* → Set. Reading a set
// Deferred never suspends; reading an unset one suspends until Complete.
type Deferred[A any] struct {
	value atomic.Pointer[A]
	head  atomic.Pointer[waiterNode[A]]
}

// NewDeferred constructs an unset Deferred.
func NewDeferred[A any]() *Deferred[A] { return &Deferred[A]{} }

// TryGet returns (a, true) iff the Deferred is set, without suspending.
func (d *Deferred[A]) TryGet() (A, bool) {
	if v := d.value.Load(); v != nil {
		return *v, true
	}
	var zero A
	return zero, false
}

// register inserts a waiter, then re-checks value in case Complete's
// drain already ran (or is running concurrently) against a head snapshot
// that didn't include this node. Both this re-check and Complete's drain
// fire through the same CAS-guarded node.fire, so exactly one of them
// wins regardless of interleaving.
func (d *Deferred[A]) register(fn func(A)) *waiterNode[A] {
	node := &waiterNode[A]{fn: fn}
	for {
		head := d.head.Load()
		node.next = head
		if d.head.CompareAndSwap(head, node) {
			break
		}
	}
	if v := d.value.Load(); v != nil {
		node.fire(*v)
	}
	return node
}

// Get reads the value, suspending until Complete is called if unset. The
// already-set case short-circuits to Pure, never touching Async. The
// unset case's cancellation effect is idempotent: it simply claims the
// node's fire flag, which is enough to guarantee the callback never runs
// even if it races Complete.
func (d *Deferred[A]) Get() Effect[A] {
	return Suspend(func() (Effect[A], error) {
		if v, ok := d.TryGet(); ok {
			return Pure(v), nil
		}
		return Cancellable(func(cb func(A, error)) Effect[Unit] {
			node := d.register(func(a A) { cb(a, nil) })
			return Delay(func() (Unit, error) {
				node.fired.Store(true)
				return Unit{}, nil
			})
		}), nil
	})
}

// GetUncancellable mirrors Get but never registers a removable waiter:
// it is backed by a plain single-set promise whose callback cannot be
// withdrawn once registered.
func (d *Deferred[A]) GetUncancellable() Effect[A] {
	return Async(func(_ *Token, _ *IOContext, cb func(A, error)) {
		if v, ok := d.TryGet(); ok {
			cb(v, nil)
			return
		}
		d.register(func(a A) { cb(a, nil) })
	}, true)
}

// Complete sets the value exactly once. A second call fails with an
// IllegalState error rather than silently overwriting. On success, each
// waiter is submitted to DefaultExecutor individually so a slow or
// misbehaving waiter cannot block the caller, and so completion order
// never implies callback order.
func (d *Deferred[A]) Complete(a A) Effect[Unit] {
	return Delay(func() (Unit, error) {
		v := a
		if !d.value.CompareAndSwap(nil, &v) {
			return Unit{}, illegalState("kairos: Deferred already completed")
		}
		for n := d.head.Swap(nil); n != nil; n = n.next {
			node := n
			DefaultExecutor.Submit(func() { node.fire(a) })
		}
		return Unit{}, nil
	})
}
