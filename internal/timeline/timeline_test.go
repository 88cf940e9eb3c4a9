package timeline

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AppendAndSnapshot(t *testing.T) {
	s := NewStore()
	s.Append(Entry{Title: "one", Timestamp: 1})
	s.Append(Entry{Title: "two", Timestamp: 2})

	snap := s.Snapshot()

	require.Len(t, snap, 2)
	assert.Equal(t, "one", snap[0].Title)
	assert.Equal(t, "two", snap[1].Title)
	assert.Equal(t, 2, s.Len())
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := NewStore()
	s.Append(Entry{Title: "original", Timestamp: 1})

	snap := s.Snapshot()
	snap[0].Title = "mutated"

	assert.Equal(t, "original", s.Snapshot()[0].Title)
}

func TestStore_EmptySnapshot(t *testing.T) {
	s := NewStore()

	assert.Empty(t, s.Snapshot())
	assert.Equal(t, 0, s.Len())
}

func TestStore_ConcurrentAppends(t *testing.T) {
	const (
		writers = 8
		each    = 100
	)

	s := NewStore()

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < each; i++ {
				s.Append(Entry{Timestamp: int64(w*each + i)})
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, writers*each, s.Len())
}
