package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrEmbedding indicates the embedding provider failed to produce vectors.
	// Timeouts keep their context error in the chain, so errors.Is works for
	// both ErrEmbedding and context.DeadlineExceeded.
	ErrEmbedding = errors.New("embedding provider error")

	// ErrInvalidResponse indicates a model reply could not be parsed.
	ErrInvalidResponse = errors.New("invalid model response")
)

// EmbeddingError wraps err as an ErrEmbedding unless it already is one.
func EmbeddingError(err error) error {
	if err == nil || errors.Is(err, ErrEmbedding) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrEmbedding, err)
}
