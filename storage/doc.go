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


// Package storage provides the storage abstraction layer for skillmatch.
//
// This package defines repository interfaces that decouple storage
// implementation from business logic, so BadgerDB and SQLite backends can be
// used interchangeably.
//
// # Architecture
//
//   - ResumeRepository: raw resume text, de-duplicated by content hash
//   - CandidateRepository: structured candidate profiles
//   - RecordStore: the read-only candidate view used by indexing and search
//
// Both backends keep candidates in insertion order; the vector index relies
// on it for stable tie-breaking.
//
// # Usage
//
//	resumes, candidates, backend, err := badger.OpenRepositories("/path/to/db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
// Use in tests with in-memory storage:
//
//	resumes, candidates, backend, err := badger.NewMemoryRepositories()
//
// # Data Quality
//
// A candidate whose key skills payload is not a JSON array of strings is
// still stored and listed. GetFlatSkills reports it as having no skills and
// logs a warning, so one bad record never fails a search.
//
// # Thread Safety
//
// All repository implementations are safe for concurrent use.
package storage
