// Package indexer builds vector index snapshots from candidate records.
//
// A rebuild reads the eligible records, embeds their skill text in batches
// (concurrently, with retry and exponential backoff), normalizes every vector,
// and installs the finished snapshot in one swap. Rebuilds are all-or-nothing:
// if any batch fails, the previously installed snapshot stays in place.
package indexer
