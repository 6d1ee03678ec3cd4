package indexer

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrRecordStoreRequired is returned when no record store is supplied.
	ErrRecordStoreRequired = errors.New("record store is required")

	// ErrEmbedderRequired is returned when no embedder is supplied.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrIndexRequired is returned when no vector index is supplied.
	ErrIndexRequired = errors.New("vector index is required")

	// ErrEmbeddingCountMismatch is returned when a batch comes back with the wrong number of vectors.
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")
)
