package kairos_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kairosrun/kairos"
)

func TestDeferredGetBeforeCompleteSuspendsUntilSet(t *testing.T) {
	d := kairos.NewDeferred[int]()
	go func() {
		_, _ = runBlocking(d.Complete(7))
	}()
	v, err := runBlocking(d.Get())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestDeferredGetAfterCompleteReturnsImmediately(t *testing.T) {
	d := kairos.NewDeferred[string]()
	_, err := runBlocking(d.Complete("ready"))
	require.NoError(t, err)

	v, err := runBlocking(d.Get())
	require.NoError(t, err)
	assert.Equal(t, "ready", v)
}

func TestDeferredTryGet(t *testing.T) {
	d := kairos.NewDeferred[int]()
	_, ok := d.TryGet()
	assert.False(t, ok)

	_, err := runBlocking(d.Complete(3))
	require.NoError(t, err)

	v, ok := d.TryGet()
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestDeferredDoubleCompleteFails(t *testing.T) {
	d := kairos.NewDeferred[int]()
	_, err := runBlocking(d.Complete(1))
	require.NoError(t, err)

	_, err = runBlocking(d.Complete(2))
	require.Error(t, err)
	assert.True(t, kairos.IsIllegalState(err))

	v, _ := d.TryGet()
	assert.Equal(t, 1, v, "the first completion must stick")
}

func TestDeferredCompleteWakesEveryWaiter(t *testing.T) {
	d := kairos.NewDeferred[int]()
	const waiters = 20
	var wg sync.WaitGroup
	results := make([]int, waiters)
	wg.Add(waiters)
	for i := 0; i < waiters; i++ {
		i := i
		go func() {
			defer wg.Done()
			v, err := runBlocking(d.Get())
			require.NoError(t, err)
			results[i] = v
		}()
	}
	_, err := runBlocking(d.Complete(42))
	require.NoError(t, err)
	wg.Wait()
	for i, v := range results {
		assert.Equal(t, 42, v, "waiter %d", i)
	}
}
