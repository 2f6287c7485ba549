package kairos_test

import (
	"errors"
	"testing"

	"github.com/kairosrun/kairos"
)

func TestPureRunSync(t *testing.T) {
	v, err := kairos.RunSync(kairos.Pure(42), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 {
		t.Fatalf("got %d, want 42", v)
	}
}

func TestDelayPropagatesThunkError(t *testing.T) {
	boom := errors.New("boom")
	e := kairos.Delay(func() (int, error) { return 0, boom })
	_, err := kairos.RunSync(e, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want wrapping of %v", err, boom)
	}
}

func TestBindSequencesInOrder(t *testing.T) {
	var order []int
	e := kairos.Bind(kairos.Delay(func() (int, error) {
		order = append(order, 1)
		return 1, nil
	}), func(v int) kairos.Effect[int] {
		return kairos.Delay(func() (int, error) {
			order = append(order, 2)
			return v + 1, nil
		})
	})
	v, err := kairos.RunSync(e, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 2 {
		t.Fatalf("got %d, want 2", v)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("got order %v, want [1 2]", order)
	}
}

func TestMapNeverRunsAfterRaise(t *testing.T) {
	called := false
	e := kairos.Map(kairos.RaiseError[int](errors.New("fail")), func(v int) int {
		called = true
		return v
	})
	_, err := kairos.RunSync(e, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if called {
		t.Fatalf("Map's function ran past a raise")
	}
}

func TestAttemptReifiesSuccessAndFailure(t *testing.T) {
	okEffect := kairos.Attempt(kairos.Pure(7))
	okEither, err := kairos.RunSync(okEffect, nil)
	if err != nil {
		t.Fatalf("Attempt itself must not fail: %v", err)
	}
	if v, ok := okEither.GetRight(); !ok || v != 7 {
		t.Fatalf("got %v, want Right(7)", okEither)
	}

	failCause := errors.New("fail")
	failEffect := kairos.Attempt(kairos.RaiseError[int](failCause))
	failEither, err := kairos.RunSync(failEffect, nil)
	if err != nil {
		t.Fatalf("Attempt itself must not fail: %v", err)
	}
	if e, ok := failEither.GetLeft(); !ok || !errors.Is(e, failCause) {
		t.Fatalf("got %v, want Left(%v)", failEither, failCause)
	}
}

func TestHandleErrorWithRecovers(t *testing.T) {
	e := kairos.HandleErrorWith(kairos.RaiseError[int](errors.New("fail")), func(error) kairos.Effect[int] {
		return kairos.Pure(99)
	})
	v, err := kairos.RunSync(e, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 99 {
		t.Fatalf("got %d, want 99", v)
	}
}

func TestHandleErrorWithSkippedOnSuccessPath(t *testing.T) {
	called := false
	e := kairos.HandleErrorWith(kairos.Pure(5), func(error) kairos.Effect[int] {
		called = true
		return kairos.Pure(-1)
	})
	v, err := kairos.RunSync(e, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 5 {
		t.Fatalf("got %d, want 5 (handler must not run on the success path)", v)
	}
	if called {
		t.Fatalf("error handler ran on the success path")
	}
}

func TestRedeemFoldsBothOutcomes(t *testing.T) {
	onSuccess := kairos.Redeem(kairos.Pure(3), func(error) kairos.Effect[string] {
		return kairos.Pure("error")
	}, func(v int) kairos.Effect[string] {
		return kairos.Pure("success")
	})
	v, err := kairos.RunSync(onSuccess, nil)
	if err != nil || v != "success" {
		t.Fatalf("got (%q, %v), want (success, nil)", v, err)
	}

	onFailure := kairos.Redeem(kairos.RaiseError[int](errors.New("x")), func(error) kairos.Effect[string] {
		return kairos.Pure("error")
	}, func(v int) kairos.Effect[string] {
		return kairos.Pure("success")
	})
	v, err = kairos.RunSync(onFailure, nil)
	if err != nil || v != "error" {
		t.Fatalf("got (%q, %v), want (error, nil)", v, err)
	}
}

func TestFatalErrorBypassesHandlers(t *testing.T) {
	handlerRan := false
	e := kairos.HandleErrorWith(
		kairos.RaiseError[int](kairos.Fatal(errors.New("fatal"))),
		func(error) kairos.Effect[int] {
			handlerRan = true
			return kairos.Pure(0)
		},
	)
	_, err := kairos.RunSync(e, nil)
	if err == nil || !kairos.IsFatal(err) {
		t.Fatalf("got %v, want a fatal error", err)
	}
	if handlerRan {
		t.Fatalf("fatal error must bypass handler frames")
	}
}

func TestSuspendEnablesDeepRecursionWithoutGrowingTheStack(t *testing.T) {
	var loop func(n int) kairos.Effect[int]
	loop = func(n int) kairos.Effect[int] {
		if n == 0 {
			return kairos.Pure(0)
		}
		return kairos.Suspend(func() (kairos.Effect[int], error) {
			return kairos.Map(loop(n-1), func(v int) int { return v + 1 }), nil
		})
	}
	v, err := kairos.RunSync(loop(100000), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 100000 {
		t.Fatalf("got %d, want 100000", v)
	}
}

func TestRunSyncFailsOnAsync(t *testing.T) {
	e := kairos.Async(func(_ *kairos.Token, _ *kairos.IOContext, cb func(int, error)) {
		cb(1, nil)
	}, false)
	_, err := kairos.RunSync(e, nil)
	if !errors.Is(err, kairos.ErrRunSyncSuspended) {
		t.Fatalf("got %v, want ErrRunSyncSuspended", err)
	}
}
