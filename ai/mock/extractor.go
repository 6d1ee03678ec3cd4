package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/poiesic/skillmatch/ai"
)

// MockFieldExtractor is a test double for ai.FieldExtractor.
type MockFieldExtractor struct {
	// ExtractFieldsFunc is called by ExtractFields if set.
	// If nil, the first non-empty line becomes the name and a "Skills:" line
	// is split on commas.
	ExtractFieldsFunc func(ctx context.Context, text string) (*ai.ExtractedFields, error)

	mu        sync.Mutex
	callCount int
}

func NewMockFieldExtractor() *MockFieldExtractor {
	return &MockFieldExtractor{}
}

func (m *MockFieldExtractor) ExtractFields(ctx context.Context, text string) (*ai.ExtractedFields, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.ExtractFieldsFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, text)
	}

	fields := &ai.ExtractedFields{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if fields.Name == "" {
			fields.Name = line
			continue
		}
		label, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(label)) {
		case "email":
			fields.Email = value
		case "phone":
			fields.Phone = value
		case "skills":
			fields.Skills = splitList(value)
		case "education":
			fields.Education = splitList(value)
		case "experience":
			fields.Experience = splitList(value)
		}
	}
	return fields, nil
}

func (m *MockFieldExtractor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

func (m *MockFieldExtractor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.ExtractFieldsFunc = nil
}

// MockSkillExtractor is a test double for ai.SkillExtractor.
type MockSkillExtractor struct {
	// ExtractKeySkillsFunc is called by ExtractKeySkills if set.
	// If nil, the input is split on commas and semicolons.
	ExtractKeySkillsFunc func(ctx context.Context, skills string) ([]string, error)

	mu        sync.Mutex
	callCount int
}

func NewMockSkillExtractor() *MockSkillExtractor {
	return &MockSkillExtractor{}
}

func (m *MockSkillExtractor) ExtractKeySkills(ctx context.Context, skills string) ([]string, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.ExtractKeySkillsFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, skills)
	}
	return splitList(skills), nil
}

func (m *MockSkillExtractor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

func (m *MockSkillExtractor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.ExtractKeySkillsFunc = nil
}

func splitList(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
