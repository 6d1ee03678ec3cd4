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


package ingestion

import (
	"context"

	"github.com/poiesic/skillmatch/core"
)

// processor is an internal interface for one enrichment stage.
// Implementations handle field extraction or key-skill extraction.
type processor interface {
	// name identifies the stage in logs.
	name() string

	// pending returns the IDs still waiting for this stage, in upload order.
	pending(ctx context.Context) ([]string, error)

	// process enriches one record. A nil record with a nil error means there
	// was nothing worth saving.
	process(ctx context.Context, id string) (*core.CandidateRecord, error)
}

// outcome is the result of processing one pending ID.
type outcome struct {
	id     string
	record *core.CandidateRecord
	err    error
}
