package nws

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointCache_PutGet(t *testing.T) {
	cache := newPointCache(2)

	_, ok := cache.get("a")
	assert.False(t, ok)

	cache.put("a", gridMeta{GridID: "JAN", GridX: 1, GridY: 2})
	meta, ok := cache.get("a")
	assert.True(t, ok)
	assert.Equal(t, "JAN", meta.GridID)
}

func TestPointCache_Update(t *testing.T) {
	cache := newPointCache(2)
	cache.put("a", gridMeta{GridID: "JAN"})
	cache.put("a", gridMeta{GridID: "MEG"})

	meta, ok := cache.get("a")
	assert.True(t, ok)
	assert.Equal(t, "MEG", meta.GridID)
	assert.Len(t, cache.entries, 1)
}

func TestPointCache_EvictsLeastRecentlyUsed(t *testing.T) {
	cache := newPointCache(2)
	cache.put("a", gridMeta{GridID: "A"})
	cache.put("b", gridMeta{GridID: "B"})

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := cache.get("a")
	assert.True(t, ok)

	cache.put("c", gridMeta{GridID: "C"})

	_, ok = cache.get("b")
	assert.False(t, ok)
	_, ok = cache.get("a")
	assert.True(t, ok)
	_, ok = cache.get("c")
	assert.True(t, ok)
}

func TestPointCache_ManyEntriesStayBounded(t *testing.T) {
	cache := newPointCache(8)
	for i := 0; i < 100; i++ {
		cache.put(fmt.Sprintf("k%d", i), gridMeta{GridX: i})
	}
	assert.Len(t, cache.entries, 8)

	meta, ok := cache.get("k99")
	assert.True(t, ok)
	assert.Equal(t, 99, meta.GridX)
}
