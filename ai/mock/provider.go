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


package mock

import "github.com/poiesic/skillmatch/ai"

// MockProvider implements ai.AIProvider with mock services.
type MockProvider struct {
	embedder *MockEmbedder
	fields   *MockFieldExtractor
	skills   *MockSkillExtractor
}

// NewMockProvider creates a provider backed by default mocks.
func NewMockProvider() ai.AIProvider {
	return &MockProvider{
		embedder: NewMockEmbedder(),
		fields:   NewMockFieldExtractor(),
		skills:   NewMockSkillExtractor(),
	}
}

// NewMockProviderWithServices creates a provider around the given mocks.
// Nil arguments are replaced with default mocks.
func NewMockProviderWithServices(embedder *MockEmbedder, fields *MockFieldExtractor, skills *MockSkillExtractor) ai.AIProvider {
	if embedder == nil {
		embedder = NewMockEmbedder()
	}
	if fields == nil {
		fields = NewMockFieldExtractor()
	}
	if skills == nil {
		skills = NewMockSkillExtractor()
	}
	return &MockProvider{embedder: embedder, fields: fields, skills: skills}
}

func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

func (p *MockProvider) FieldExtractor() ai.FieldExtractor {
	return p.fields
}

func (p *MockProvider) SkillExtractor() ai.SkillExtractor {
	return p.skills
}

func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the concrete embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockFieldExtractor returns the concrete field extractor for test assertions.
func (p *MockProvider) GetMockFieldExtractor() *MockFieldExtractor {
	return p.fields
}

// GetMockSkillExtractor returns the concrete skill extractor for test assertions.
func (p *MockProvider) GetMockSkillExtractor() *MockSkillExtractor {
	return p.skills
}
