// internal/inspector/debounce_test.go
package inspector

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer(t *testing.T) {
	t.Run("coalesces_rapid_triggers", func(t *testing.T) {
		d := NewDebouncer(20 * time.Millisecond)
		var calls atomic.Int32

		for i := 0; i < 5; i++ {
			d.Trigger(func() { calls.Add(1) })
			time.Sleep(2 * time.Millisecond)
		}

		assert.Eventually(t, func() bool {
			return calls.Load() == 1
		}, time.Second, 5*time.Millisecond)

		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("last_trigger_wins", func(t *testing.T) {
		d := NewDebouncer(20 * time.Millisecond)
		var got atomic.Value

		d.Trigger(func() { got.Store("first") })
		d.Trigger(func() { got.Store("second") })

		assert.Eventually(t, func() bool {
			v, _ := got.Load().(string)
			return v == "second"
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("cancel_drops_pending", func(t *testing.T) {
		d := NewDebouncer(20 * time.Millisecond)
		var calls atomic.Int32

		d.Trigger(func() { calls.Add(1) })
		d.Cancel()

		time.Sleep(60 * time.Millisecond)
		assert.Equal(t, int32(0), calls.Load())

		// Cancel does not stop the debouncer.
		d.Trigger(func() { calls.Add(1) })
		assert.Eventually(t, func() bool {
			return calls.Load() == 1
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("stop_rejects_further_triggers", func(t *testing.T) {
		d := NewDebouncer(10 * time.Millisecond)
		var calls atomic.Int32

		d.Trigger(func() { calls.Add(1) })
		d.Stop()
		d.Trigger(func() { calls.Add(1) })

		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("zero_delay_uses_default", func(t *testing.T) {
		d := NewDebouncer(0)
		assert.Equal(t, DefaultSearchDelay, d.delay)
	})
}
