package kairos_test

import (
	"sync/atomic"

	"github.com/kairosrun/kairos"
)

// runBlocking drives e to completion on whatever goroutine its Async
// producers resume on, and blocks the calling goroutine (the test) until
// a result is available. Tests are the one place blocking on a channel
// is appropriate black-box usage of this package, mirroring what a real
// caller's outermost driver would do.
func runBlocking[A any](e kairos.Effect[A]) (A, error) {
	type result struct {
		v   A
		err error
	}
	ch := make(chan result, 1)
	kairos.RunAsync(e, nil, func(v A, err error) {
		ch <- result{v, err}
	})
	r := <-ch
	return r.v, r.err
}

// atomicAdd adds delta to *addr and returns the new value.
func atomicAdd(addr *int32, delta int32) int32 {
	return atomic.AddInt32(addr, delta)
}

// atomicMax raises *addr to v if v is larger, retrying under contention.
func atomicMax(addr *int32, v int32) {
	for {
		cur := atomic.LoadInt32(addr)
		if v <= cur {
			return
		}
		if atomic.CompareAndSwapInt32(addr, cur, v) {
			return
		}
	}
}
