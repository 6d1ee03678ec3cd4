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


package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/skillmatch/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const maxParseAttempts = 3

// Extractor implements ai.FieldExtractor and ai.SkillExtractor using
// OpenAI-compatible chat APIs.
type Extractor struct {
	client      llms.Model
	temperature float64
	timeout     time.Duration
	logger      *slog.Logger
}

// fields mirrors the JSON object the field prompt asks for. List fields use
// flexList because models sometimes answer with a bare string.
type fields struct {
	Name                string   `json:"name"`
	Email               string   `json:"email"`
	Phone               string   `json:"phone"`
	Education           flexList `json:"education"`
	Skills              flexList `json:"skills"`
	Experience          flexList `json:"experience"`
	ProfessionalDetails flexList `json:"professionalDetails"`
}

type flexList []string

func (l *flexList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	if strings.TrimSpace(single) == "" {
		*l = nil
		return nil
	}
	*l = []string{single}
	return nil
}

// newExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newExtractor(config *ai.Config) (*Extractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ClassifierHost),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.ClassifierModel),
	)
	if err != nil {
		return nil, err
	}

	return &Extractor{
		client:      client,
		temperature: config.Temperature,
		timeout:     config.Timeout,
		logger:      slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewFieldExtractor creates a resume field extractor using the provided configuration.
func NewFieldExtractor(config *ai.Config) (ai.FieldExtractor, error) {
	return newExtractor(config)
}

// NewSkillExtractor creates a key skill extractor using the provided configuration.
func NewSkillExtractor(config *ai.Config) (ai.SkillExtractor, error) {
	return newExtractor(config)
}

// ExtractFields parses resume text into profile fields.
// Malformed replies are retried up to three times before ErrInvalidResponse is returned.
func (e *Extractor) ExtractFields(ctx context.Context, text string) (*ai.ExtractedFields, error) {
	var result fields
	var lastErr error
	for attempt := 0; attempt < maxParseAttempts; attempt++ {
		reply, err := e.complete(ctx, fieldExtractionPrompt, text, llms.WithJSONMode())
		if err != nil {
			return nil, err
		}

		body, ok := firstJSONObject(stripCodeFence(reply))
		if !ok {
			lastErr = fmt.Errorf("%w: no JSON object in reply", ai.ErrInvalidResponse)
			e.logger.Warn("no JSON object in field reply", "attempt", attempt+1)
			continue
		}
		if err := json.Unmarshal([]byte(repairJSON(body)), &result); err != nil {
			lastErr = fmt.Errorf("%w: %w", ai.ErrInvalidResponse, err)
			e.logger.Warn("error parsing field reply",
				"attempt", attempt+1,
				"response", body,
				"err", err)
			continue
		}
		lastErr = nil
		break
	}
	if lastErr != nil {
		e.logger.Error("failed to parse field reply after retries", "err", lastErr)
		return nil, lastErr
	}

	return &ai.ExtractedFields{
		Name:                strings.TrimSpace(result.Name),
		Email:               strings.TrimSpace(result.Email),
		Phone:               strings.TrimSpace(result.Phone),
		Education:           result.Education,
		Skills:              result.Skills,
		Experience:          result.Experience,
		ProfessionalDetails: result.ProfessionalDetails,
	}, nil
}

// ExtractKeySkills asks the model for a flat list of job-relevant skills and
// decodes the first JSON array in its reply. A reply without an array yields
// an empty list.
func (e *Extractor) ExtractKeySkills(ctx context.Context, skills string) ([]string, error) {
	if strings.TrimSpace(skills) == "" {
		return []string{}, nil
	}

	reply, err := e.complete(ctx, keySkillsPrompt, skills)
	if err != nil {
		return nil, err
	}

	body, ok := firstJSONArray(reply)
	if !ok {
		e.logger.Debug("no JSON array in key skills reply", "response", reply)
		return []string{}, nil
	}

	var list []string
	if err := json.Unmarshal([]byte(repairJSON(body)), &list); err != nil {
		e.logger.Warn("error parsing key skills reply", "response", body, "err", err)
		return nil, fmt.Errorf("%w: %w", ai.ErrInvalidResponse, err)
	}
	if list == nil {
		list = []string{}
	}
	e.logger.Debug("extracted key skills", "count", len(list))
	return list, nil
}

func (e *Extractor) complete(ctx context.Context, system, user string, opts ...llms.CallOption) (string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, user),
	}
	opts = append(opts, llms.WithTemperature(e.temperature))

	response, err := e.client.GenerateContent(ctx, content, opts...)
	if err != nil {
		e.logger.Error("failed to generate content", "err", err)
		return "", err
	}
	if len(response.Choices) < 1 {
		return "", fmt.Errorf("%w: no choices returned from model", ai.ErrInvalidResponse)
	}
	return strings.TrimSpace(response.Choices[0].Content), nil
}
