// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.FieldExtractor,
// ai.SkillExtractor, and ai.AIProvider for use in unit tests. The mocks run
// without external AI services and are safe for concurrent use.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	vec, err := mockProvider.Embedder().EmbedText(ctx, "python")
//
//	// Pinned vectors for exact similarity checks
//	embedder := mock.NewMockEmbedder().
//	    WithVector("python", []float32{1, 0, 0, 0}).
//	    WithVector("java", []float32{0, 1, 0, 0})
//
//	// Custom behavior injection
//	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
//	    return nil, ai.EmbeddingError(errors.New("unavailable"))
//	}
//
//	// Check call counts
//	count := embedder.CallCount()
//
// # Default Behavior
//
//   - MockEmbedder: unit vectors derived from a hash of the text
//   - MockFieldExtractor: first line is the name, "Skills:" line is split on commas
//   - MockSkillExtractor: splits the skills text on commas and semicolons
//   - MockProvider: aggregates the three mocks
package mock
