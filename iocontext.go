// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kairos

// IOContext is the per-interpretation side-channel holding breadcrumb
// frames for error augmentation. It is lazily created on first
// trace-emitting node and discarded once the top-level callback fires —
// it is never shared across fibers, unlike Token and Deferred.
type IOContext struct {
	breadcrumbs []string
}

// AddBreadcrumb records a frame of context, most recent last. No
// combinator in this package records breadcrumbs itself; the run loop
// only creates the IOContext and threads it to Async producers.
func (c *IOContext) AddBreadcrumb(s string) {
	if c == nil {
		return
	}
	c.breadcrumbs = append(c.breadcrumbs, s)
}

// Breadcrumbs returns the recorded trail, oldest first. Returns nil for a
// nil receiver (no trace-emitting node has run yet).
func (c *IOContext) Breadcrumbs() []string {
	if c == nil {
		return nil
	}
	return c.breadcrumbs
}
