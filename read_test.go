package leftright

import (
	"sync"
	"testing"

	"github.com/flowlabs-go/leftright/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadHandle_CloneHasIndependentSlot(t *testing.T) {
	w := newCounter(1)
	w.Publish()

	a := w.Clone()
	defer a.Close()
	b := w.Clone()
	defer b.Close()

	ga, ok := a.Enter()
	require.True(t, ok)

	// Holding a's guard must not prevent b from entering: each clone
	// has its own epoch slot.
	gb, ok := b.Enter()
	require.True(t, ok)

	assert.Equal(t, 1, ga.Value().V)
	assert.Equal(t, 1, gb.Value().V)

	ga.Close()
	gb.Close()
}

func TestReadHandleFactory_MintsHandlesOffGoroutine(t *testing.T) {
	w := newCounter(4)
	w.Publish()
	factory := w.Factory()

	var wg sync.WaitGroup
	results := make(chan int, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := factory.NewHandle()
			defer r.Close()
			g, ok := r.Enter()
			require.True(t, ok)
			defer g.Close()
			results <- g.Value().V
		}()
	}
	wg.Wait()
	close(results)
	for v := range results {
		assert.Equal(t, 4, v)
	}
}

func TestReadHandle_CloseIsIdempotent(t *testing.T) {
	w := newCounter(0)
	r := w.Clone()
	assert.NotPanics(t, func() {
		r.Close()
		r.Close()
	})
}

func TestTryMapGuard(t *testing.T) {
	w := newCounter(0)
	w.Publish()

	g, ok := w.Enter()
	require.True(t, ok)
	mapped, ok := TryMapGuard(g, func(c *testutil.Counter) (*int, bool) {
		if c.V < 0 {
			return nil, false
		}
		return &c.V, true
	})
	require.True(t, ok)
	defer mapped.Close()
	assert.Equal(t, 0, *mapped.Value())
}

func TestTryMapGuard_FailureReleasesOriginal(t *testing.T) {
	w := newCounter(-1)
	w.Publish()

	g, ok := w.Enter()
	require.True(t, ok)
	_, ok = TryMapGuard(g, func(c *testutil.Counter) (*int, bool) {
		return nil, c.V >= 0
	})
	assert.False(t, ok)
	// g has already been released by TryMapGuard; closing it again
	// would panic, matching Guard's double-close contract.
	assert.Panics(t, func() { g.Close() })
}
