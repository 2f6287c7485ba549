package kairos_test

import (
	"errors"
	"testing"

	"github.com/kairosrun/kairos"
)

func TestRunExitReturnsCodeOnSuccess(t *testing.T) {
	code := kairos.RunExit(kairos.Pure(kairos.ExitCode(42)), nil)
	if code != 42 {
		t.Fatalf("got %d, want 42", code)
	}
}

func TestRunExitReturnsOneOnFailure(t *testing.T) {
	code := kairos.RunExit(kairos.RaiseError[kairos.ExitCode](errors.New("boom")), nil)
	if code != 1 {
		t.Fatalf("got %d, want 1", code)
	}
}

// TestRunExitSumScenario mirrors kairosctl's "sum" subcommand, which joins
// its argv into a single digit string before parsing it — "1 2 3" becomes
// the number 123, not their arithmetic sum.
func TestRunExitSumScenario(t *testing.T) {
	args := []string{"1", "2", "3"}
	e := kairos.Bind(kairos.Delay(func() (int, error) {
		joined := ""
		for _, a := range args {
			joined += a
		}
		return parseInt(joined)
	}), func(n int) kairos.Effect[kairos.ExitCode] {
		return kairos.Pure(kairos.ExitCode(n))
	})
	code := kairos.RunExit(e, nil)
	if code != 123 {
		t.Fatalf("got %d, want 123", code)
	}
}

func parseInt(s string) (int, error) {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, errors.New("not a digit")
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}
