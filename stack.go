// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kairos

// frame is a continuation suspended on the bind stack while an inner
// effect is evaluated. Exactly one of bindFn/mapFn is normally set; recover
// additionally marks the frame as a handler frame carrying both a success
// and a failure arm.
//
// mapFn lets the run loop fuse Map with the unboxed fast path: applying it
// does not require descending into a new effect node, so the loop can stay
// in the "has_unboxed" state across a chain of Maps.
type frame struct {
	bindFn  func(any) effect
	mapFn   func(any) any
	recover func(error) effect
}

// isHandler reports whether this frame has an error-recovery arm. Plain
// bind/map frames are discarded (not "error handler only") when the loop
// is unwinding on the raise path.
func (f *frame) isHandler() bool { return f.recover != nil }

// frameStack is an array-backed LIFO of pending continuations — the
// "Call-stack container" component. It backs the run loop's b_rest
// overflow stack; the hot b_first slot lives directly in the loop state.
type frameStack struct {
	frames []*frame
}

func (s *frameStack) push(f *frame) {
	s.frames = append(s.frames, f)
}

func (s *frameStack) pop() (*frame, bool) {
	n := len(s.frames)
	if n == 0 {
		return nil, false
	}
	f := s.frames[n-1]
	s.frames[n-1] = nil
	s.frames = s.frames[:n-1]
	return f, true
}

func (s *frameStack) len() int { return len(s.frames) }

// reset clears the stack for pooled reuse.
func (s *frameStack) reset() {
	for i := range s.frames {
		s.frames[i] = nil
	}
	s.frames = s.frames[:0]
}
