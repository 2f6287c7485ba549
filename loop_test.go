package kairos_test

import (
	"errors"
	"testing"

	"github.com/kairosrun/kairos"
)

// TestRaisePathSkipsPlainFrames checks that a frame with no recovery arm
// (here, Map's fused frame) is discarded while searching for a handler
// on the raise path, rather than stopping the search.
func TestRaisePathSkipsPlainFrames(t *testing.T) {
	cause := errors.New("boom")
	mapRan := false
	e := kairos.HandleErrorWith(
		kairos.Map(kairos.RaiseError[int](cause), func(v int) int {
			mapRan = true
			return v + 1
		}),
		func(err error) kairos.Effect[int] {
			if !errors.Is(err, cause) {
				t.Errorf("handler saw %v, want %v", err, cause)
			}
			return kairos.Pure(123)
		},
	)
	v, err := kairos.RunSync(e, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 123 {
		t.Fatalf("got %d, want 123", v)
	}
	if mapRan {
		t.Fatalf("Map's function ran on the raise path")
	}
}

// TestValuePathSkipsHandlerOnlyFrames checks that a handler frame with no
// success arm (a bare HandleErrorWith, as opposed to Attempt/Redeem) is
// transparent on the value path.
func TestValuePathSkipsHandlerOnlyFrames(t *testing.T) {
	e := kairos.Map(
		kairos.HandleErrorWith(kairos.Pure(5), func(error) kairos.Effect[int] {
			return kairos.Pure(-1)
		}),
		func(v int) int { return v * 10 },
	)
	v, err := kairos.RunSync(e, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 50 {
		t.Fatalf("got %d, want 50", v)
	}
}

// TestNestedHandlersFindTheNearestOne checks that a raise finds the
// innermost handler, not an outer one, and that the outer one's handler
// is untouched once the inner recovers.
func TestNestedHandlersFindTheNearestOne(t *testing.T) {
	outerRan := false
	e := kairos.HandleErrorWith(
		kairos.HandleErrorWith(kairos.RaiseError[int](errors.New("inner")), func(error) kairos.Effect[int] {
			return kairos.Pure(1)
		}),
		func(error) kairos.Effect[int] {
			outerRan = true
			return kairos.Pure(2)
		},
	)
	v, err := kairos.RunSync(e, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 1 {
		t.Fatalf("got %d, want 1 (innermost handler should have won)", v)
	}
	if outerRan {
		t.Fatalf("outer handler ran even though the inner one recovered")
	}
}
