package ingestion

import "errors"

var (
	// ErrResumeRepositoryRequired is returned when a resume repository is not provided.
	ErrResumeRepositoryRequired = errors.New("resume repository required")

	// ErrCandidateRepositoryRequired is returned when a candidate repository is not provided.
	ErrCandidateRepositoryRequired = errors.New("candidate repository required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrNoResumes is returned by ExtractFields when no resume has been uploaded.
	ErrNoResumes = errors.New("no resumes found")

	// ErrExtractionFailed wraps a field extraction failure on a resume.
	ErrExtractionFailed = errors.New("field extraction failed")
)
