package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/skillmatch/ai"
	"github.com/poiesic/skillmatch/core"
)

// span is a half-open range [start, end) of record positions.
type span struct {
	start, end int
}

// splitBatches divides n positions into consecutive spans of at most size.
func splitBatches(n, size int) []span {
	if size <= 0 {
		size = DefaultBatchSize
	}
	spans := make([]span, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		spans = append(spans, span{start: start, end: min(start+size, n)})
	}
	return spans
}

// BatchEmbedder embeds batches of skill texts with retry and normalization.
type BatchEmbedder struct {
	embedder       ai.Embedder
	maxAttempts    int
	retryBaseDelay time.Duration
}

// NewBatchEmbedder creates a batch embedder.
// maxAttempts: total tries per batch, including the first
// retryBaseDelay: base delay for exponential backoff
func NewBatchEmbedder(embedder ai.Embedder, maxAttempts int, retryBaseDelay time.Duration) *BatchEmbedder {
	return &BatchEmbedder{
		embedder:       embedder,
		maxAttempts:    maxAttempts,
		retryBaseDelay: retryBaseDelay,
	}
}

// Embed returns one unit vector per text, in input order.
// Failures are reported as ai.ErrEmbedding.
func (b *BatchEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = b.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return ai.EmbeddingError(err)
		}
		if len(embeddings) != len(texts) {
			return ai.EmbeddingError(fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingCountMismatch, len(texts), len(embeddings)))
		}
		return nil
	}, b.maxAttempts, b.retryBaseDelay)
	if err != nil {
		return nil, err
	}

	vectors := make([][]float32, len(embeddings))
	for i, v := range embeddings {
		vectors[i] = core.NormalizeVector(v)
	}
	return vectors, nil
}
