package index

import (
	"fmt"
	"time"
)

// Snapshot is an immutable set of vectors and the record IDs they belong to.
// Position i of ids and vectors describe the same record.
type Snapshot struct {
	ids       []string
	vectors   [][]float32
	dimension int
	builtAt   time.Time
}

// NewSnapshot builds a snapshot from parallel id and vector slices. The
// slices are copied. An empty snapshot is valid and has dimension 0.
func NewSnapshot(ids []string, vectors [][]float32) (*Snapshot, error) {
	if len(ids) != len(vectors) {
		return nil, fmt.Errorf("%w: %d ids, %d vectors", ErrLengthMismatch, len(ids), len(vectors))
	}

	s := &Snapshot{
		ids:     make([]string, len(ids)),
		vectors: make([][]float32, len(vectors)),
		builtAt: time.Now().UTC(),
	}
	copy(s.ids, ids)

	for i, v := range vectors {
		if i == 0 {
			s.dimension = len(v)
			if s.dimension == 0 {
				return nil, fmt.Errorf("%w: vector 0 is empty", ErrDimensionMismatch)
			}
		} else if len(v) != s.dimension {
			return nil, fmt.Errorf("%w: vector %d has length %d, want %d", ErrDimensionMismatch, i, len(v), s.dimension)
		}
		s.vectors[i] = append([]float32(nil), v...)
	}
	return s, nil
}

// Len returns the number of vectors in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.ids)
}

// Dimension returns the shared vector length, or 0 for an empty snapshot.
func (s *Snapshot) Dimension() int {
	return s.dimension
}

// BuiltAt returns when the snapshot was assembled.
func (s *Snapshot) BuiltAt() time.Time {
	return s.builtAt
}

// IDs returns a copy of the record IDs in insertion order.
func (s *Snapshot) IDs() []string {
	return append([]string(nil), s.ids...)
}
