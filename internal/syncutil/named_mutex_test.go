package syncutil_test

import (
	"sync"
	"testing"

	"github.com/Nivl/gini/ginternals"
	"github.com/Nivl/gini/internal/syncutil"
	"github.com/stretchr/testify/assert"
)

func TestNamedMutex(t *testing.T) {
	t.Parallel()

	a := ginternals.NewOidFromContent([]byte{'A'})
	b := ginternals.NewOidFromContent([]byte{'B'})

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()

		mu := syncutil.NewNamedMutex(101)
		mu.Lock(a)
		mu.Unlock(a)
		mu.Lock(b)
		mu.Unlock(b)
		mu.Lock(a)
		mu.Unlock(a)
	})

	t.Run("should still work with an invalid max", func(t *testing.T) {
		t.Parallel()

		mu := syncutil.NewNamedMutex(0)
		mu.Lock(a)
		mu.Unlock(a)
		mu.Lock(b)
		mu.Unlock(b)
	})

	t.Run("an id should only be held once at a time", func(t *testing.T) {
		t.Parallel()

		mu := syncutil.NewNamedMutex(7)
		counter := 0
		held := 0
		maxHeld := 0
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				mu.Lock(a)
				defer mu.Unlock(a)
				held++
				if held > maxHeld {
					maxHeld = held
				}
				counter++
				held--
			}()
		}
		wg.Wait()

		assert.Equal(t, 50, counter)
		assert.Equal(t, 1, maxHeld)
	})
}
