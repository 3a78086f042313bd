package eventloop

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCyclicCallbackFiresRepeatedly(t *testing.T) {
	loop := New()
	defer func() {
		for i := uint64(1); i <= loop.nextHandle; i++ {
			loop.RemoveCyclicCallback(i)
		}
	}()

	var calls int32
	handle := loop.AddCyclicCallback(func() {
		atomic.AddInt32(&calls, 1)
	}, 10*time.Millisecond, time.Time{}, CycleMissResumeWithCurrentTime)
	require.NotZero(t, handle)

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) >= 3
	}, time.Second, 5*time.Millisecond)
}

func TestRemoveCyclicCallbackStopsFiring(t *testing.T) {
	loop := New()

	var calls int32
	handle := loop.AddCyclicCallback(func() {
		atomic.AddInt32(&calls, 1)
	}, 10*time.Millisecond, time.Time{}, CycleMissResumeWithCurrentTime)

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) >= 1
	}, time.Second, 5*time.Millisecond)

	loop.RemoveCyclicCallback(handle)
	after := atomic.LoadInt32(&calls)
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, atomic.LoadInt32(&calls), after+1, "callback kept firing after removal")
}

func TestRemoveCyclicCallbackFromWithinCallback(t *testing.T) {
	loop := New()

	var calls int32
	var handle uint64
	handle = loop.AddCyclicCallback(func() {
		atomic.AddInt32(&calls, 1)
		loop.RemoveCyclicCallback(handle)
	}, 5*time.Millisecond, time.Time{}, CycleMissResumeWithCurrentTime)

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) >= 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "one-shot-via-remove fired more than once")
	assert.Equal(t, 0, loop.Len())
}

func TestModifyCyclicCallbackUnknownHandle(t *testing.T) {
	loop := New()
	ok := loop.ModifyCyclicCallback(999, time.Second, time.Time{})
	assert.False(t, ok)
}

func TestModifyCyclicCallbackChangesInterval(t *testing.T) {
	loop := New()
	handle := loop.AddCyclicCallback(func() {}, time.Hour, time.Time{}, CycleMissResumeWithCurrentTime)
	require.Equal(t, 1, loop.Len())

	ok := loop.ModifyCyclicCallback(handle, 5*time.Millisecond, time.Time{})
	require.True(t, ok)

	var calls int32
	loop.mu.Lock()
	loop.entries[handle].fn = func() { atomic.AddInt32(&calls, 1) }
	loop.mu.Unlock()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) >= 1
	}, time.Second, 5*time.Millisecond)

	loop.RemoveCyclicCallback(handle)
}

func TestRemoveCyclicCallbackUnknownHandleIsNoop(t *testing.T) {
	loop := New()
	assert.NotPanics(t, func() {
		loop.RemoveCyclicCallback(42)
	})
}
