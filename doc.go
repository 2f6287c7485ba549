// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package kairos implements a purely-functional effect runtime: programs
// build first-class, referentially transparent descriptions of computations
// ("effects") and interpret them through a trampolined run loop with
// well-defined semantics for sequencing, error handling, asynchrony,
// cancellation, and bounded concurrency.
//
// # Design Philosophy
//
// kairos provides:
//   - A closed, tagged-variant effect AST dispatched by type switch, not
//     virtual method calls
//   - A single-threaded-per-invocation trampoline that never grows the
//     native call stack, regardless of how deeply effects are nested
//   - A cooperative cancellation graph threaded through every run loop and
//     shared, lock-free, across fibers
//   - At-most-once callback discipline at every asynchronous boundary
//
// # Core Construction
//
//   - [Pure]: lift an already-evaluated value
//   - [Delay]: evaluate a thunk synchronously, capturing any panic/error
//   - [Suspend]: evaluate a thunk that produces the next effect (enables recursion)
//   - [RaiseError]: unconditional failure
//   - [Async]: invoke a producer off the loop; it must call back exactly once
//   - [ContextSwitch]: rewrite the active cancellation token for a scope
//
// # Composition
//
//   - [Bind]: sequential composition (flatMap)
//   - [Map]: transform the result of an effect
//   - [Attempt]: reify success/failure into an [Either]
//   - [HandleErrorWith]: recover from failure
//   - [Redeem]: fold both outcomes into a new effect
//
// # Execution
//
//   - [RunSync]: run an effect that never suspends; fails on [Async]
//   - [RunAsync]: run an effect to completion via callback
//   - [RunCancellable]: like RunAsync, but returns a cancel effect
//
// # Primitives
//
//   - [Ref]: CAS-based mutable cell
//   - [Deferred]: single-assignment cell with a lock-free waiter queue
//   - [Fiber]: forked, independently cancellable interpretation
//   - [ParallelTraverseN], [ParallelSequenceN], [ParallelReplicateAN]: bounded concurrency
//   - [Race], [RacePair], [ParMapN]: racing combinators
//   - [Bracket], [Uncancellable]: resource safety
//
// # Non-goals
//
// Preemption (cancellation is cooperative only), fairness across effect
// graphs, persistence of in-flight effects across process restarts, and
// sharing of effect values across OS processes are explicitly out of scope.
// Timers, clocks, and thread-pool implementations are external
// collaborators: kairos only defines the interfaces it consumes from them.
package kairos
