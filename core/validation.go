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


package core

import (
	"fmt"
	"strings"
	"time"
)

// ValidateResume validates a Resume according to domain rules.
//
// Validation rules:
//   - Contents must not be blank
//   - UploadedAt must not be in the future
//
// NOT validated (populated by storage):
//   - Id (generated on insert when empty)
//   - ContentHash (computed on insert)
func ValidateResume(resume *Resume) error {
	if resume == nil {
		return fmt.Errorf("%w: resume is nil", ErrInvalidResume)
	}

	if strings.TrimSpace(resume.Content) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidResume, ErrEmptyContent)
	}

	if !IsValidTimestamp(resume.UploadedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidResume, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateCandidate validates a CandidateRecord according to domain rules.
//
// Validation rules:
//   - Id must not be empty
//
// NOT validated (degraded at read time instead):
//   - SkillText (may be empty until key skills are extracted)
//   - KeySkills (a malformed payload reads back as an empty skill list)
func ValidateCandidate(record *CandidateRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidCandidate)
	}

	if record.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCandidate, ErrEmptyID)
	}

	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
