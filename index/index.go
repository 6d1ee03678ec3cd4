package index

import (
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/poiesic/skillmatch/core"
)

// Hit is one coarse search result.
type Hit struct {
	ID    string
	Score float32 // inner product with the query
}

// Stats describes the currently installed snapshot.
type Stats struct {
	Built     bool
	Size      int
	Dimension int
	BuiltAt   time.Time
}

// Index is an exhaustive inner-product vector index.
//
// Searches read whichever snapshot is installed when they start and never
// block; Install replaces the snapshot with a single pointer swap, so a
// search sees either the old snapshot or the new one in full.
type Index struct {
	current atomic.Pointer[Snapshot]
	logger  *slog.Logger
}

// Option configures an Index.
type Option func(*Index) error

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Index) error {
		i.logger = logger
		return nil
	}
}

// New creates an index with no snapshot installed.
func New(opts ...Option) (*Index, error) {
	idx := &Index{logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(idx); err != nil {
			return nil, err
		}
	}
	idx.logger = idx.logger.With("component", "vector-index")
	return idx, nil
}

// Install publishes snapshot for all subsequent searches.
func (i *Index) Install(snapshot *Snapshot) error {
	if snapshot == nil {
		return ErrSnapshotRequired
	}
	i.current.Store(snapshot)
	i.logger.Debug("installed snapshot", "size", snapshot.Len(), "dimension", snapshot.Dimension())
	return nil
}

// Snapshot returns the installed snapshot, or nil if none was ever installed.
func (i *Index) Snapshot() *Snapshot {
	return i.current.Load()
}

// Stats reports on the installed snapshot.
func (i *Index) Stats() Stats {
	s := i.current.Load()
	if s == nil {
		return Stats{}
	}
	return Stats{Built: true, Size: s.Len(), Dimension: s.Dimension(), BuiltAt: s.BuiltAt()}
}

// Search scores query against every vector by inner product and returns the
// best topK hits in descending score order. Equal scores keep insertion
// order. topK larger than the snapshot is clamped.
func (i *Index) Search(query []float32, topK int) ([]Hit, error) {
	s := i.current.Load()
	if s == nil {
		return nil, ErrIndexNotBuilt
	}
	if topK <= 0 {
		return nil, ErrInvalidTopK
	}
	if s.Len() == 0 {
		return nil, ErrIndexEmpty
	}
	if len(query) != s.dimension {
		return nil, fmt.Errorf("%w: query has length %d, index has %d", ErrDimensionMismatch, len(query), s.dimension)
	}

	hits := make([]Hit, len(s.ids))
	for j, v := range s.vectors {
		hits[j] = Hit{ID: s.ids[j], Score: core.DotProduct(query, v)}
	}
	slices.SortStableFunc(hits, func(a, b Hit) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})

	return hits[:min(topK, len(hits))], nil
}
