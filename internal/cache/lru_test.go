package cache_test

import (
	"testing"

	"github.com/Nivl/gini/ginternals"
	"github.com/Nivl/gini/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU(t *testing.T) {
	t.Parallel()

	t.Run("Add and get data", func(t *testing.T) {
		t.Parallel()

		c, err := cache.NewLRU(1, 0)
		require.NoError(t, err)

		assert.Equal(t, 0, c.Len(), "expected an empty cache")

		content := []byte("content")
		oid := ginternals.NewOidFromContent(content)
		data, ok := c.Get(oid)
		assert.False(t, ok, "should not find data that does not exist")
		assert.Nil(t, data, "returned value should be nil when not found")

		c.Add(oid, content)
		assert.Equal(t, 1, c.Len(), "expected 1 item in the cache")

		data, ok = c.Get(oid)
		assert.True(t, ok, "should have found data")
		assert.Equal(t, content, data, "unexpected data retrieved from cache")

		c.Clear()
		assert.Equal(t, 0, c.Len(), "expected the cache t have been emptied")
	})

	t.Run("oldest entries should be evicted", func(t *testing.T) {
		t.Parallel()

		c, err := cache.NewLRU(1, 0)
		require.NoError(t, err)

		a := ginternals.NewOidFromContent([]byte("a"))
		b := ginternals.NewOidFromContent([]byte("b"))
		c.Add(a, []byte("a"))
		c.Add(b, []byte("b"))

		_, ok := c.Get(a)
		assert.False(t, ok, "a should have been evicted")
		_, ok = c.Get(b)
		assert.True(t, ok, "b should still be in the cache")
	})

	t.Run("big objects should not be cached", func(t *testing.T) {
		t.Parallel()

		c, err := cache.NewLRU(10, 4)
		require.NoError(t, err)

		content := []byte("too big")
		oid := ginternals.NewOidFromContent(content)
		c.Add(oid, content)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("invalid size should fail", func(t *testing.T) {
		t.Parallel()

		_, err := cache.NewLRU(0, 0)
		require.Error(t, err)
	})
}
