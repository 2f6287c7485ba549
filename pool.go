// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kairos

import "sync"

// Object pools for the run loop's hot allocations: reusable structs are
// acquired, filled, and released back to the pool once the run loop has
// consumed them. Pooled objects are affine — the run loop guarantees it
// never reads a frame after releasing it.

var framePool = sync.Pool{New: func() any { return new(frame) }}

func acquireFrame() *frame {
	return framePool.Get().(*frame)
}

func releaseFrame(f *frame) {
	f.bindFn = nil
	f.mapFn = nil
	f.recover = nil
	framePool.Put(f)
}

var finalizerNodePool = sync.Pool{New: func() any { return new(finalizerNode) }}

func acquireFinalizerNode() *finalizerNode {
	return finalizerNodePool.Get().(*finalizerNode)
}

// releaseFinalizerNode returns a finalizer cons cell to the pool. Only
// safe once no other goroutine can still observe the node through a
// snapshot of the cancellation token's finalizer list (the CAS-protected
// list never splices; cancel swaps the whole head to done).
func releaseFinalizerNode(n *finalizerNode) {
	n.effect = nil
	n.next = nil
	finalizerNodePool.Put(n)
}
