// Package ingestion turns uploaded resume text into candidate records.
//
// The Pipeline runs three stages, each of which can be repeated safely:
//   - Ingest stores resume text, de-duplicated by content hash
//   - ExtractFields asks the LLM for structured fields of every resume that
//     has no candidate record yet
//   - ExtractKeySkills asks the LLM for a flat key-skill list of every
//     candidate record that has none yet
//
// Extraction runs concurrently on a worker pool. Records are saved in resume
// upload order so the vector index sees a stable insertion order.
package ingestion
