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


// Package search ranks candidates against a free-text skills query.
//
// The Searcher runs two stages:
//   - a coarse nearest-neighbor search of the query embedding against the
//     vector index of whole-profile skill embeddings
//   - a re-rank of each coarse hit that embeds the candidate's individual
//     skills and keeps the single skill most similar to the query
//
// A candidate is reported only if its best skill's cosine similarity is
// strictly above the threshold (0.5 by default). Reported candidates keep
// their coarse order; the score is the best similarity rounded to three
// decimals and scaled to 0-100.
package search
