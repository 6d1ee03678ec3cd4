package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector is unit-normalized, so the inner product of two
	// embeddings equals their cosine similarity.
	// Returns an error wrapping ErrEmbedding if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error wrapping ErrEmbedding if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// FieldExtractor extracts structured profile fields from raw resume text.
// Implementations must be thread-safe for concurrent use.
type FieldExtractor interface {
	// ExtractFields parses resume text into profile fields.
	// Returns ErrInvalidResponse if the model reply cannot be parsed.
	ExtractFields(ctx context.Context, text string) (*ExtractedFields, error)
}

// SkillExtractor reduces a free-form skills section to a flat list of
// individual, job-relevant skills.
// Implementations must be thread-safe for concurrent use.
type SkillExtractor interface {
	// ExtractKeySkills returns the individual skills found in skills, in the
	// order the model listed them. Returns an empty slice if none are found.
	ExtractKeySkills(ctx context.Context, skills string) ([]string, error)
}

// ExtractedFields is the structured form of a resume as returned by a FieldExtractor.
type ExtractedFields struct {
	Name                string
	Email               string
	Phone               string
	Education           []string
	Skills              []string
	Experience          []string
	ProfessionalDetails []string
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages the embedder and extractors, ensuring they
// share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// FieldExtractor returns the resume field extraction service.
	FieldExtractor() FieldExtractor

	// SkillExtractor returns the key skill extraction service.
	SkillExtractor() SkillExtractor

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
