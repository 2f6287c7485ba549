// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kairos

import (
	"errors"
	"fmt"
)

// errUnknownEffect guards the run loop's type switch default case. It
// should be unreachable: the effect interface is closed to this package.
var errUnknownEffect = errors.New("kairos: unrecognized effect node")

// panicError wraps a recovered panic value as an error: a panic from a
// user closure is caught at each loop step and converted to a RaiseError
// node in place of the current effect.
type panicError struct{ v any }

func (p *panicError) Error() string { return fmt.Sprintf("kairos: panic: %v", p.v) }

func recoverAsError(errp *error) {
	if r := recover(); r != nil {
		if err, ok := r.(error); ok {
			*errp = err
			return
		}
		*errp = &panicError{v: r}
	}
}

func safeDelay(thunk func() (any, error)) (v any, err error) {
	defer recoverAsError(&err)
	return thunk()
}

func safeSuspend(thunk func() (effect, error)) (e effect, err error) {
	defer recoverAsError(&err)
	return thunk()
}

func safeBind(k func(any) effect, v any) (e effect, err error) {
	defer recoverAsError(&err)
	return k(v), nil
}

func safeMap(f func(any) any, v any) (out any, err error) {
	defer recoverAsError(&err)
	return f(v), nil
}

func safeRecover(recoverFn func(error) effect, cause error) (e effect, err error) {
	defer recoverAsError(&err)
	return recoverFn(cause), nil
}
