package epoch

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	t.Run("Register", func(t *testing.T) {
		slot, counter := r.Register()
		assert.Equal(t, 0, slot)
		assert.Equal(t, uint64(0), counter.Load())
	})
	t.Run("slots are stable and visible via Iterate", func(t *testing.T) {
		slot, counter := r.Register()
		assert.Equal(t, 1, slot)
		counter.Add(1)

		seen := map[int]uint64{}
		r.Lock()
		r.Iterate(func(s int, c *atomic.Uint64) {
			seen[s] = c.Load()
		})
		r.Unlock()

		assert.Len(t, seen, 2)
		assert.Equal(t, uint64(0), seen[0])
		assert.Equal(t, uint64(1), seen[1])
	})
	t.Run("Deregister frees the slot for reuse", func(t *testing.T) {
		r.Deregister(0)

		seen := map[int]struct{}{}
		r.Lock()
		r.Iterate(func(s int, c *atomic.Uint64) { seen[s] = struct{}{} })
		r.Unlock()
		assert.NotContains(t, seen, 0)

		slot, _ := r.Register()
		assert.Equal(t, 0, slot, "freed slot should be reused before growing the slab")
	})
	t.Run("Deregister is idempotent", func(t *testing.T) {
		r.Deregister(0)
		assert.NotPanics(t, func() { r.Deregister(0) })
		assert.NotPanics(t, func() { r.Deregister(999) })
		assert.NotPanics(t, func() { r.Deregister(-1) })
	})
}
