package callbacks

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallbacks(t *testing.T) {
	cb := New[string]()
	id1 := cb.Add("music.ogg")
	id2 := cb.Add("font.ttf")
	assert.NotEqual(t, uintptr(0), id1)
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 2, cb.Len())

	v, ok := cb.Lookup(id1)
	assert.True(t, ok)
	assert.Equal(t, "music.ogg", v)

	cb.Remove(id1)
	_, ok = cb.Lookup(id1)
	assert.False(t, ok)
	_, ok = cb.Lookup(0)
	assert.False(t, ok)
	assert.Equal(t, 1, cb.Len())
}

func TestCallbacksSkipTaken(t *testing.T) {
	cb := New[int]()
	cb.lastID = ^uintptr(0) - 1
	id1 := cb.Add(1)
	id2 := cb.Add(2)
	assert.Equal(t, ^uintptr(0), id1)
	assert.Equal(t, uintptr(1), id2, "id 0 is skipped on wrap")

	cb.lastID = 0
	id3 := cb.Add(3)
	assert.Equal(t, uintptr(2), id3, "taken id is skipped")
}

func TestCallbacksConcurrent(t *testing.T) {
	cb := New[int]()
	var wg sync.WaitGroup
	ids := make([]uintptr, 64)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = cb.Add(i)
		}(i)
	}
	wg.Wait()

	seen := map[uintptr]bool{}
	for i, id := range ids {
		assert.False(t, seen[id])
		seen[id] = true
		v, ok := cb.Lookup(id)
		assert.True(t, ok)
		assert.Equal(t, i, v)
	}
}

func TestCallbacksTake(t *testing.T) {
	cb := New[string]()
	id := cb.Add("music.ogg")

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		taken []string
	)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if v, ok := cb.Take(id); ok {
				mu.Lock()
				taken = append(taken, v)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, []string{"music.ogg"}, taken)
	assert.Equal(t, 0, cb.Len())
	_, ok := cb.Take(id)
	assert.False(t, ok)
}
