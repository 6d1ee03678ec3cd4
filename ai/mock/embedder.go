package mock

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/poiesic/skillmatch/core"
)

// DefaultDimension is the length of vectors produced by the default mock behavior.
const DefaultDimension = 64

// MockEmbedder is a test double for ai.Embedder.
// It is safe for concurrent use.
type MockEmbedder struct {
	// EmbedTextFunc is called by EmbedText if set.
	// If nil, uses default deterministic behavior.
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)

	// EmbedTextsFunc is called by EmbedTexts if set.
	// If nil, uses default deterministic behavior.
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension is the length of generated vectors. Zero means DefaultDimension.
	Dimension int

	mu        sync.Mutex
	vectors   map[string][]float32
	callCount int
}

// NewMockEmbedder creates a mock embedder with deterministic default behavior.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{vectors: make(map[string][]float32)}
}

// WithVector pins the vector returned for text. Pinned vectors are returned as given.
func (m *MockEmbedder) WithVector(text string, vector []float32) *MockEmbedder {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.vectors == nil {
		m.vectors = make(map[string][]float32)
	}
	m.vectors[text] = vector
	return m
}

// EmbedText returns the pinned vector for text, or a deterministic unit vector.
func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.EmbedTextFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, text)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.vectorFor(text), nil
}

// EmbedTexts embeds each text as EmbedText would, in a single call.
func (m *MockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.EmbedTextsFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, texts)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = m.vectorFor(text)
	}
	return embeddings, nil
}

// CallCount returns the number of EmbedText and EmbedTexts calls.
func (m *MockEmbedder) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count, injected functions, and pinned vectors.
func (m *MockEmbedder) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.EmbedTextFunc = nil
	m.EmbedTextsFunc = nil
	m.vectors = make(map[string][]float32)
}

func (m *MockEmbedder) vectorFor(text string) []float32 {
	m.mu.Lock()
	pinned, ok := m.vectors[text]
	dim := m.Dimension
	m.mu.Unlock()

	if ok {
		out := make([]float32, len(pinned))
		copy(out, pinned)
		return out
	}
	if dim <= 0 {
		dim = DefaultDimension
	}
	return DeterministicVector(text, dim)
}

// DeterministicVector derives a unit vector from a hash of text.
// Components are centered on zero, so unrelated texts are close to orthogonal.
func DeterministicVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float32, dim)
	for i := range vector {
		seed = seed*1664525 + 1013904223 // LCG constants
		vector[i] = float32(seed%1000)/1000.0 - 0.5
	}
	return core.NormalizeVector(vector)
}
