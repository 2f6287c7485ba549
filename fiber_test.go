package kairos_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kairosrun/kairos"
)

func TestFiberStartJoinSuccess(t *testing.T) {
	f, err := runBlocking(kairos.Start(kairos.Pure(9), nil))
	require.NoError(t, err)

	outcome, err := runBlocking(f.Join())
	require.NoError(t, err)
	assert.False(t, outcome.Cancelled)
	assert.NoError(t, outcome.Err)
	assert.Equal(t, 9, outcome.Value)
}

func TestFiberStartJoinFailure(t *testing.T) {
	cause := errors.New("boom")
	f, err := runBlocking(kairos.Start(kairos.RaiseError[int](cause), nil))
	require.NoError(t, err)

	outcome, err := runBlocking(f.Join())
	require.NoError(t, err)
	assert.False(t, outcome.Cancelled)
	assert.ErrorIs(t, outcome.Err, cause)
}

func TestFiberCancelResolvesJoinPromptly(t *testing.T) {
	blocked := kairos.NewDeferred[kairos.Unit]()
	f, err := runBlocking(kairos.Start(blocked.Get(), nil))
	require.NoError(t, err)

	cancelled := make(chan struct{})
	go func() {
		_, _ = runBlocking(f.Cancel())
		close(cancelled)
	}()

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("Cancel did not return")
	}

	outcome, err := runBlocking(f.Join())
	require.NoError(t, err)
	assert.True(t, outcome.Cancelled, "Join must resolve to Cancelled even though the blocking Get never resumes")
}

func TestFiberJoinIsIdempotent(t *testing.T) {
	f, err := runBlocking(kairos.Start(kairos.Pure("done"), nil))
	require.NoError(t, err)

	first, err1 := runBlocking(f.Join())
	second, err2 := runBlocking(f.Join())
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
}
