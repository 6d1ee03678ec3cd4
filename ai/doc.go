// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ai provides abstractions for AI services used in skillmatch.
//
// This package defines interfaces for text embeddings, resume field
// extraction, and key skill extraction. Business logic depends on these
// abstractions rather than on concrete model clients.
//
// # Design Principles
//
// The package is designed around four interfaces:
//
//   - Embedder: Generates unit-normalized vector embeddings from text
//   - FieldExtractor: Parses raw resume text into profile fields
//   - SkillExtractor: Reduces a skills section to a flat list of skills
//   - AIProvider: Aggregates AI services for convenient initialization
//
// Embedding failures are reported as ErrEmbedding so callers can tell a
// provider outage from a store failure with errors.Is.
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// interface types. Test constructors (mock.NewMockEmbedder and friends) return
// concrete types so tests can pin vectors, inject functions, and read call
// counts. mock.NewMockProvider returns an interface but exposes the concrete
// mocks through GetMockEmbedder, GetMockFieldExtractor and GetMockSkillExtractor.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithAPIKey(os.Getenv("GROQ_API_KEY")))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vec, err := provider.Embedder().EmbedText(ctx, "python developer")
//	skills, err := provider.SkillExtractor().ExtractKeySkills(ctx, "Python, Excel")
package ai
