package kairos

// FiberOutcome is what Fiber.Join resolves to: exactly one of a value, an
// error, or a cancellation.
type FiberOutcome[A any] struct {
	Value     A
	Err       error
	Cancelled bool
}

// Fiber is a running effect computation: its own Token plus a Deferred
// that the run loop completes exactly once, on whatever goroutine the
// computation finishes on.
type Fiber[A any] struct {
	tok     *Token
	outcome *Deferred[FiberOutcome[A]]
}

// Start begins running e on DefaultExecutor and returns its Fiber
// immediately, without waiting for e to produce a value.
func Start[A any](e Effect[A], cfg *Config) Effect[*Fiber[A]] {
	return startOnToken(NewToken(), e, cfg)
}

// startOnToken is Start with a caller-supplied token. ParallelSequenceN
// allocates every sibling's token before any of them starts; its failure
// path cancels siblings through their recorded Fiber values, so a sibling
// whose fiber is not recorded yet is not cancelled, and instead skips its
// body once it sees the recorded failure.
func startOnToken[A any](tok *Token, e Effect[A], cfg *Config) Effect[*Fiber[A]] {
	return Delay(func() (*Fiber[A], error) {
		outcome := NewDeferred[FiberOutcome[A]]()
		f := &Fiber[A]{tok: tok, outcome: outcome}
		DefaultExecutor.Submit(func() {
			runLoop(e.node, tok, nil, nil, frameStack{}, cfg, false, func(v any, err error) {
				res := FiberOutcome[A]{}
				switch {
				case tok.isCancelled():
					res.Cancelled = true
				case err != nil:
					res.Err = err
				case v != nil:
					res.Value = v.(A)
				}
				if _, completeErr := RunSync(outcome.Complete(res), cfg); completeErr != nil {
					diagLog().Error("kairos: fiber outcome already completed", "error", completeErr, "fiber_id", tok.ID())
				}
			})
		})
		return f, nil
	})
}

// Join suspends until the fiber's computation finishes, cancels, or
// fails, then yields its FiberOutcome. Joining more than once is safe and
// returns the same outcome every time.
func (f *Fiber[A]) Join() Effect[FiberOutcome[A]] {
	return f.outcome.Get()
}

// Cancel requests cancellation of the fiber's token, runs its
// finalizers, and independently resolves Join with a Cancelled outcome.
// The blocked Async a cancelled fiber might be suspended on (e.g. inside
// a Semaphore wait) is never resumed by design — cancellation does not
// make it call back — so Join's promptness comes from Cancel completing
// the outcome Deferred itself rather than from waiting on the run loop
// to finish naturally. A race with the run loop finishing on its own is
// expected and harmless: whichever Complete call wins, the other's
// "already completed" error is swallowed.
func (f *Fiber[A]) Cancel() Effect[Unit] {
	runFinalizers := Suspend(func() (Effect[Unit], error) {
		return Effect[Unit]{node: f.tok.cancel()}, nil
	})
	return Bind(Attempt(runFinalizers), func(outcome Either[error, Unit]) Effect[Unit] {
		completed := HandleErrorWith(f.outcome.Complete(FiberOutcome[A]{Cancelled: true}), func(error) Effect[Unit] {
			return UnitEffect()
		})
		return Bind(completed, func(Unit) Effect[Unit] {
			if finalizerErr, failed := outcome.GetLeft(); failed {
				return RaiseError[Unit](finalizerErr)
			}
			return UnitEffect()
		})
	})
}

// ID returns the fiber's underlying token id.
func (f *Fiber[A]) ID() string { return f.tok.ID() }
