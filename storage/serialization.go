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


package storage

import (
	"fmt"

	"github.com/poiesic/skillmatch/core"
)

// MarshalResume serializes a Resume to bytes.
func MarshalResume(resume *core.Resume) []byte {
	buf := make([]byte, core.ResumeMUS.Size(*resume))
	core.ResumeMUS.Marshal(*resume, buf)
	return buf
}

// UnmarshalResume deserializes a Resume from bytes.
func UnmarshalResume(data []byte) (*core.Resume, error) {
	resume, _, err := core.ResumeMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: resume: %w", ErrSerializationFailed, err)
	}
	return &resume, nil
}

// MarshalCandidate serializes a CandidateRecord to bytes.
func MarshalCandidate(record *core.CandidateRecord) []byte {
	buf := make([]byte, core.CandidateRecordMUS.Size(*record))
	core.CandidateRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalCandidate deserializes a CandidateRecord from bytes.
func UnmarshalCandidate(data []byte) (*core.CandidateRecord, error) {
	record, _, err := core.CandidateRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: candidate: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}
