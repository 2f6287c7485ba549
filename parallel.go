package kairos

// semState bundles the permit count and the FIFO waiter queue into one
// value so Acquire/Release can update both under a single ModifyRef CAS
// — two separate Refs would let a permit check and a waiter enqueue
// interleave between each other.
type semState struct {
	permits int
	waiters []*Deferred[Unit]
}

// Semaphore bounds concurrency with FIFO-fair waiters, built on Ref and
// Deferred as a bounded-concurrency traversal primitive.
type Semaphore struct {
	state *Ref[semState]
}

// NewSemaphore constructs a Semaphore with n permits (clamped to at least 1).
func NewSemaphore(n int) *Semaphore {
	if n < 1 {
		n = 1
	}
	return &Semaphore{state: NewRef(semState{permits: n})}
}

// Acquire takes a permit, suspending FIFO-fair behind any earlier waiter
// if none are free.
func (s *Semaphore) Acquire() Effect[Unit] {
	return Bind(ModifyRef(s.state, func(st semState) (semState, *Deferred[Unit]) {
		if st.permits > 0 {
			st.permits--
			return st, nil
		}
		d := NewDeferred[Unit]()
		st.waiters = append(append([]*Deferred[Unit]{}, st.waiters...), d)
		return st, d
	}), func(d *Deferred[Unit]) Effect[Unit] {
		if d == nil {
			return UnitEffect()
		}
		return d.Get()
	})
}

// Release returns a permit, waking the longest-waiting holder if any are
// queued rather than incrementing the free count.
func (s *Semaphore) Release() Effect[Unit] {
	return Bind(ModifyRef(s.state, func(st semState) (semState, *Deferred[Unit]) {
		if len(st.waiters) == 0 {
			st.permits++
			return st, nil
		}
		next := st.waiters[0]
		st.waiters = append([]*Deferred[Unit]{}, st.waiters[1:]...)
		return st, next
	}), func(next *Deferred[Unit]) Effect[Unit] {
		if next == nil {
			return UnitEffect()
		}
		return next.Complete(Unit{})
	})
}

// sequenceEffects folds effs left to right into one effect yielding every
// result in order. Used internally to kick off a batch of cheap Start
// calls; it is not itself bounded-parallel.
func sequenceEffects[A any](effs []Effect[A]) Effect[[]A] {
	acc := Pure([]A{})
	for _, e := range effs {
		ee := e
		acc = Bind(acc, func(as []A) Effect[[]A] {
			return Bind(ee, func(a A) Effect[[]A] {
				return Pure(append(as, a))
			})
		})
	}
	return acc
}

// ParallelSequenceN runs effects with at most n running at once,
// FIFO-fair via Semaphore, collecting results in their original order.
// The first failure cancels every fiber already running and causes
// every fiber that has not yet started its body to skip it entirely.
func ParallelSequenceN[A any](n int, effects []Effect[A]) Effect[[]A] {
	return Suspend(func() (Effect[[]A], error) {
		count := len(effects)
		if count == 0 {
			return Pure([]A{}), nil
		}
		if n <= 0 {
			n = 1
		}
		sem := NewSemaphore(n)
		results := make([]A, count)
		failure := NewRef[error](nil)
		fibers := NewRef(make([]*Fiber[Unit], count))
		tokens := make([]*Token, count)
		for i := range tokens {
			tokens[i] = NewToken()
		}

		cancelSiblings := func(idx int) Effect[Unit] {
			return Bind(fibers.Get(), func(all []*Fiber[Unit]) Effect[Unit] {
				cancelAll := UnitEffect()
				for j, sib := range all {
					if j == idx || sib == nil {
						continue
					}
					cancelAll = Then(cancelAll, sib.Cancel())
				}
				return cancelAll
			})
		}

		worker := func(idx int, e Effect[A]) Effect[Unit] {
			return Bracket(
				sem.Acquire(),
				func(Unit) Effect[Unit] {
					return Bind(failure.Get(), func(existing error) Effect[Unit] {
						if existing != nil {
							return UnitEffect()
						}
						return HandleErrorWith(
							Bind(e, func(a A) Effect[Unit] {
								results[idx] = a
								return UnitEffect()
							}),
							func(err error) Effect[Unit] {
								return Bind(ModifyRef(failure, func(cur error) (error, bool) {
									if cur != nil {
										return cur, false
									}
									return err, true
								}), func(first bool) Effect[Unit] {
									if !first {
										return RaiseError[Unit](err)
									}
									return Bind(cancelSiblings(idx), func(Unit) Effect[Unit] {
										return RaiseError[Unit](err)
									})
								})
							},
						)
					})
				},
				func(Unit, error) Effect[Unit] { return sem.Release() },
			)
		}

		starts := make([]Effect[Unit], count)
		for i, e := range effects {
			i, e := i, e
			starts[i] = Bind(startOnToken(tokens[i], worker(i, e), nil), func(f *Fiber[Unit]) Effect[Unit] {
				return ModifyRef(fibers, func(cur []*Fiber[Unit]) ([]*Fiber[Unit], Unit) {
					next := append([]*Fiber[Unit]{}, cur...)
					next[i] = f
					return next, Unit{}
				})
			})
		}

		return Bind(sequenceEffects(starts), func([]Unit) Effect[[]A] {
			return Bind(fibers.Get(), func(all []*Fiber[Unit]) Effect[[]A] {
				joins := make([]Effect[FiberOutcome[Unit]], len(all))
				for i, f := range all {
					joins[i] = f.Join()
				}
				return Bind(sequenceEffects(joins), func([]FiberOutcome[Unit]) Effect[[]A] {
					return Bind(failure.Get(), func(err error) Effect[[]A] {
						if err != nil {
							return RaiseError[[]A](err)
						}
						return Pure(results)
					})
				})
			})
		}), nil
	})
}

// ParallelTraverseN applies f to every item with at most n running at
// once.
func ParallelTraverseN[A, B any](n int, items []A, f func(A) Effect[B]) Effect[[]B] {
	effs := make([]Effect[B], len(items))
	for i, item := range items {
		effs[i] = f(item)
	}
	return ParallelSequenceN(n, effs)
}

// ParallelReplicateAN runs e count times concurrently with at most n
// running at once. e is a description, not a value — running it more
// than once is exactly what makes this useful.
func ParallelReplicateAN[A any](n int, count int, e Effect[A]) Effect[[]A] {
	effs := make([]Effect[A], count)
	for i := range effs {
		effs[i] = e
	}
	return ParallelSequenceN(n, effs)
}
