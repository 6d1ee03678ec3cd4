package server

import (
	"errors"
	"net/http"

	"github.com/poiesic/skillmatch/ai"
	"github.com/poiesic/skillmatch/core"
	"github.com/poiesic/skillmatch/index"
	"github.com/poiesic/skillmatch/ingestion"
	"github.com/poiesic/skillmatch/search"
)

var (
	// ErrServiceRequired is returned when a service is not provided.
	ErrServiceRequired = errors.New("service required")

	// ErrUnsupportedUpload is returned for uploads that are not plain text.
	ErrUnsupportedUpload = errors.New("only plain-text resumes are supported")

	// ErrInvalidTopK is returned when top_k is not a positive integer.
	ErrInvalidTopK = errors.New("top_k must be a positive integer")
)

// statusFor maps an operation error to the HTTP status reported for it.
func statusFor(err error) int {
	switch {
	case errors.Is(err, index.ErrIndexNotBuilt):
		return http.StatusConflict
	case errors.Is(err, search.ErrEmptyQuery),
		errors.Is(err, search.ErrInvalidTopK),
		errors.Is(err, ErrInvalidTopK),
		errors.Is(err, ErrUnsupportedUpload),
		errors.Is(err, core.ErrInvalidResume):
		return http.StatusBadRequest
	case errors.Is(err, ingestion.ErrNoResumes):
		return http.StatusNotFound
	case errors.Is(err, ai.ErrEmbedding),
		errors.Is(err, ai.ErrInvalidResponse),
		errors.Is(err, ingestion.ErrExtractionFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
