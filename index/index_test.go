package index

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := New()
	require.NoError(t, err)
	return idx
}

func install(t *testing.T, idx *Index, ids []string, vectors [][]float32) {
	t.Helper()
	snap, err := NewSnapshot(ids, vectors)
	require.NoError(t, err)
	require.NoError(t, idx.Install(snap))
}

func TestNewSnapshot(t *testing.T) {
	t.Run("length mismatch", func(t *testing.T) {
		_, err := NewSnapshot([]string{"a"}, nil)
		assert.ErrorIs(t, err, ErrLengthMismatch)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := NewSnapshot([]string{"a", "b"}, [][]float32{{1, 0}, {1, 0, 0}})
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})

	t.Run("empty vector", func(t *testing.T) {
		_, err := NewSnapshot([]string{"a"}, [][]float32{{}})
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})

	t.Run("empty snapshot", func(t *testing.T) {
		snap, err := NewSnapshot(nil, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, snap.Len())
		assert.Equal(t, 0, snap.Dimension())
	})

	t.Run("copies inputs", func(t *testing.T) {
		ids := []string{"a"}
		vecs := [][]float32{{1, 0}}
		snap, err := NewSnapshot(ids, vecs)
		require.NoError(t, err)

		ids[0] = "changed"
		vecs[0][0] = 9
		assert.Equal(t, []string{"a"}, snap.IDs())
		assert.Equal(t, float32(1), snap.vectors[0][0])
	})
}

func TestSearch_NeverBuilt(t *testing.T) {
	idx := newIndex(t)

	_, err := idx.Search([]float32{1, 0}, 3)
	assert.ErrorIs(t, err, ErrIndexNotBuilt)
	assert.False(t, idx.Stats().Built)
	assert.Nil(t, idx.Snapshot())
}

func TestSearch_Empty(t *testing.T) {
	idx := newIndex(t)
	install(t, idx, nil, nil)

	_, err := idx.Search([]float32{1, 0}, 3)
	assert.ErrorIs(t, err, ErrIndexEmpty)
	assert.NotErrorIs(t, err, ErrIndexNotBuilt)

	stats := idx.Stats()
	assert.True(t, stats.Built)
	assert.Equal(t, 0, stats.Size)
}

func TestSearch_OrdersByInnerProduct(t *testing.T) {
	idx := newIndex(t)
	install(t, idx,
		[]string{"low", "high", "mid"},
		[][]float32{{0, 1}, {1, 0}, {0.6, 0.8}},
	)

	hits, err := idx.Search([]float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "high", hits[0].ID)
	assert.Equal(t, "mid", hits[1].ID)
	assert.Equal(t, "low", hits[2].ID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
	assert.InDelta(t, 0.6, hits[1].Score, 1e-6)
}

func TestSearch_TiesKeepInsertionOrder(t *testing.T) {
	idx := newIndex(t)
	install(t, idx,
		[]string{"first", "second", "third"},
		[][]float32{{1, 0}, {1, 0}, {1, 0}},
	)

	hits, err := idx.Search([]float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, []string{hits[0].ID, hits[1].ID, hits[2].ID})
}

func TestSearch_TopK(t *testing.T) {
	idx := newIndex(t)
	install(t, idx, []string{"a", "b"}, [][]float32{{1, 0}, {0, 1}})

	hits, err := idx.Search([]float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	hits, err = idx.Search([]float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].ID)

	_, err = idx.Search([]float32{1, 0}, 0)
	assert.ErrorIs(t, err, ErrInvalidTopK)
}

func TestSearch_QueryDimension(t *testing.T) {
	idx := newIndex(t)
	install(t, idx, []string{"a"}, [][]float32{{1, 0}})

	_, err := idx.Search([]float32{1, 0, 0}, 1)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestInstall_Nil(t *testing.T) {
	assert.ErrorIs(t, newIndex(t).Install(nil), ErrSnapshotRequired)
}

func TestInstall_ReplacesSnapshot(t *testing.T) {
	idx := newIndex(t)
	install(t, idx, []string{"old"}, [][]float32{{1, 0}})
	install(t, idx, []string{"new1", "new2"}, [][]float32{{0, 1}, {1, 0}})

	hits, err := idx.Search([]float32{1, 0}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "new2", hits[0].ID)
	assert.Equal(t, 2, idx.Stats().Size)
}

// Searches running during installs must always see a complete snapshot.
func TestConcurrentSearchAndInstall(t *testing.T) {
	idx := newIndex(t)

	snapshots := make([]*Snapshot, 4)
	for n := range snapshots {
		size := n + 1
		ids := make([]string, size)
		vecs := make([][]float32, size)
		for j := range ids {
			ids[j] = fmt.Sprintf("s%d-%d", size, j)
			vecs[j] = []float32{1, 0}
		}
		snap, err := NewSnapshot(ids, vecs)
		require.NoError(t, err)
		snapshots[n] = snap
	}
	require.NoError(t, idx.Install(snapshots[0]))

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				hits, err := idx.Search([]float32{1, 0}, 10)
				if err != nil {
					errs <- err
					return
				}
				prefix := fmt.Sprintf("s%d-", len(hits))
				for _, h := range hits {
					if len(h.ID) < len(prefix) || h.ID[:len(prefix)] != prefix {
						errs <- fmt.Errorf("mixed snapshot: %v", hits)
						return
					}
				}
			}
		}()
	}
	for n := range 200 {
		require.NoError(t, idx.Install(snapshots[n%len(snapshots)]))
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
