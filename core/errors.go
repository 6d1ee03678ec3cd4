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

import "errors"

// Domain validation errors
var (
	// ErrInvalidResume indicates a Resume failed validation.
	ErrInvalidResume = errors.New("invalid resume")

	// ErrInvalidCandidate indicates a CandidateRecord failed validation.
	ErrInvalidCandidate = errors.New("invalid candidate record")

	// ErrEmptyContent indicates the resume Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptyID indicates a record has no identifier.
	ErrEmptyID = errors.New("id cannot be empty")

	// ErrMalformedSkills indicates a stored key-skill payload is not a JSON array of strings.
	ErrMalformedSkills = errors.New("malformed skill data")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")
)
