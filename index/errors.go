package index

import "errors"

var (
	// ErrIndexNotBuilt indicates a search was attempted before any snapshot was installed.
	// It is retryable: build the index and search again.
	ErrIndexNotBuilt = errors.New("index not built: build the index first")

	// ErrIndexEmpty indicates the installed snapshot holds no vectors.
	ErrIndexEmpty = errors.New("index is empty")

	// ErrLengthMismatch indicates ids and vectors differ in length.
	ErrLengthMismatch = errors.New("ids and vectors differ in length")

	// ErrDimensionMismatch indicates vectors of different lengths, or a query
	// whose length differs from the snapshot dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrInvalidTopK indicates a non-positive result count.
	ErrInvalidTopK = errors.New("topK must be positive")

	// ErrSnapshotRequired indicates a nil snapshot was passed to Install.
	ErrSnapshotRequired = errors.New("snapshot is required")
)
