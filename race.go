package kairos

// RacedFirst is RacePair's outcome when fa finished first: Other is fb's
// fiber, still running (or already finished), left for the caller to
// join or cancel.
type RacedFirst[A, B any] struct {
	Outcome FiberOutcome[A]
	Other   *Fiber[B]
}

// RacedSecond is RacePair's outcome when fb finished first.
type RacedSecond[A, B any] struct {
	Other   *Fiber[A]
	Outcome FiberOutcome[B]
}

// raceAnnounce races multiple watchers for a single winner slot: the
// first to complete its Deferred wins, every later attempt's "already
// completed" error is swallowed.
func raceAnnounce(winner *Deferred[int], idx int) Effect[Unit] {
	return HandleErrorWith(winner.Complete(idx), func(error) Effect[Unit] {
		return UnitEffect()
	})
}

// Race runs fa and fb concurrently and returns whichever finishes first,
// cancelling the other. Two watcher fibers race to complete a shared
// Deferred[int] naming the winning side.
func Race[A any](fa, fb Effect[A]) Effect[A] {
	return Bind(Start(fa, nil), func(f1 *Fiber[A]) Effect[A] {
		return Bind(Start(fb, nil), func(f2 *Fiber[A]) Effect[A] {
			winner := NewDeferred[int]()
			watch1 := Bind(f1.Join(), func(FiberOutcome[A]) Effect[Unit] { return raceAnnounce(winner, 0) })
			watch2 := Bind(f2.Join(), func(FiberOutcome[A]) Effect[Unit] { return raceAnnounce(winner, 1) })
			return Bind(Start(watch1, nil), func(*Fiber[Unit]) Effect[A] {
				return Bind(Start(watch2, nil), func(*Fiber[Unit]) Effect[A] {
					return Bind(winner.Get(), func(idx int) Effect[A] {
						win, loser := f1, f2
						if idx == 1 {
							win, loser = f2, f1
						}
						return Bind(loser.Cancel(), func(Unit) Effect[A] {
							return Bind(win.Join(), func(o FiberOutcome[A]) Effect[A] {
								return outcomeToEffect[A](o)
							})
						})
					})
				})
			})
		})
	})
}

func outcomeToEffect[A any](o FiberOutcome[A]) Effect[A] {
	if o.Cancelled {
		return RaiseError[A](ErrCancelled)
	}
	if o.Err != nil {
		return RaiseError[A](o.Err)
	}
	return Pure(o.Value)
}

// RacePair runs fa and fb concurrently and returns the first outcome
// paired with the still-running fiber for the other side, leaving the
// decision to join or cancel it to the caller — unlike Race, neither
// side is cancelled automatically.
func RacePair[A, B any](fa Effect[A], fb Effect[B]) Effect[Either[RacedFirst[A, B], RacedSecond[A, B]]] {
	type out = Either[RacedFirst[A, B], RacedSecond[A, B]]
	return Bind(Start(fa, nil), func(f1 *Fiber[A]) Effect[out] {
		return Bind(Start(fb, nil), func(f2 *Fiber[B]) Effect[out] {
			winner := NewDeferred[int]()
			watch1 := Bind(f1.Join(), func(FiberOutcome[A]) Effect[Unit] { return raceAnnounce(winner, 0) })
			watch2 := Bind(f2.Join(), func(FiberOutcome[B]) Effect[Unit] { return raceAnnounce(winner, 1) })
			return Bind(Start(watch1, nil), func(*Fiber[Unit]) Effect[out] {
				return Bind(Start(watch2, nil), func(*Fiber[Unit]) Effect[out] {
					return Bind(winner.Get(), func(idx int) Effect[out] {
						if idx == 0 {
							return Bind(f1.Join(), func(o FiberOutcome[A]) Effect[out] {
								return Pure(Left[RacedFirst[A, B], RacedSecond[A, B]](RacedFirst[A, B]{Outcome: o, Other: f2}))
							})
						}
						return Bind(f2.Join(), func(o FiberOutcome[B]) Effect[out] {
							return Pure(Right[RacedFirst[A, B], RacedSecond[A, B]](RacedSecond[A, B]{Other: f1, Outcome: o}))
						})
					})
				})
			})
		})
	})
}

// ParMapN runs fa and fb concurrently and combines their results with f.
// A failure or cancellation on fa's side cancels fb eagerly, once fa's
// outcome is known; a failure on fb's side while fa is still running is
// only observed once fa finishes (ParMapN does not race failure
// detection symmetrically — see DESIGN.md).
func ParMapN[A, B, C any](fa Effect[A], fb Effect[B], f func(A, B) C) Effect[C] {
	return Bind(Start(fa, nil), func(f1 *Fiber[A]) Effect[C] {
		return Bind(Start(fb, nil), func(f2 *Fiber[B]) Effect[C] {
			return Bind(f1.Join(), func(oa FiberOutcome[A]) Effect[C] {
				if oa.Err != nil || oa.Cancelled {
					return Bind(f2.Cancel(), func(Unit) Effect[C] {
						return outcomeToEffect[C](FiberOutcome[C]{Err: oa.Err, Cancelled: oa.Cancelled})
					})
				}
				return Bind(f2.Join(), func(ob FiberOutcome[B]) Effect[C] {
					if ob.Err != nil || ob.Cancelled {
						return outcomeToEffect[C](FiberOutcome[C]{Err: ob.Err, Cancelled: ob.Cancelled})
					}
					return Pure(f(oa.Value, ob.Value))
				})
			})
		})
	})
}
