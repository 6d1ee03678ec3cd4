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


package indexer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/skillmatch/ai"
	"github.com/poiesic/skillmatch/core"
	"github.com/poiesic/skillmatch/index"
	"github.com/poiesic/skillmatch/storage"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultBatchSize is the default number of skill texts per embedding call.
	DefaultBatchSize = 64

	// DefaultConcurrency is the default number of batches embedded at once.
	DefaultConcurrency = 4

	// DefaultMaxAttempts is the default number of tries per batch. One try
	// means a failed batch fails the rebuild at once.
	DefaultMaxAttempts = 1

	// DefaultRetryDelay is the default base delay for exponential backoff.
	DefaultRetryDelay = 500 * time.Millisecond

	// DefaultReportInterval is how many records pass between progress lines.
	DefaultReportInterval = 100
)

// Result summarizes a completed rebuild.
type Result struct {
	Indexed   int           // vectors in the installed snapshot
	Skipped   int           // records left out because they had no skill text
	Dimension int           // vector length, 0 when nothing was indexed
	Elapsed   time.Duration // wall time of the rebuild
}

// Indexer rebuilds the vector index from the record store.
type Indexer struct {
	store          storage.RecordStore
	embedder       ai.Embedder
	index          *index.Index
	batchSize      int
	concurrency    int
	maxAttempts    int
	retryDelay     time.Duration
	progress       io.Writer
	reportInterval int
	logger         *slog.Logger
	mu             sync.Mutex
}

// Option configures an Indexer.
type Option func(*Indexer) error

// WithBatchSize sets the number of texts per embedding call.
func WithBatchSize(size int) Option {
	return func(i *Indexer) error {
		if size <= 0 {
			return fmt.Errorf("batch size must be positive, got %d", size)
		}
		i.batchSize = size
		return nil
	}
}

// WithConcurrency sets how many batches are embedded at once.
func WithConcurrency(n int) Option {
	return func(i *Indexer) error {
		if n <= 0 {
			return fmt.Errorf("concurrency must be positive, got %d", n)
		}
		i.concurrency = n
		return nil
	}
}

// WithRetry sets the attempts per batch and the base backoff delay.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(i *Indexer) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		i.maxAttempts = maxAttempts
		i.retryDelay = baseDelay
		return nil
	}
}

// WithProgress reports progress to w every interval records.
func WithProgress(w io.Writer, interval int) Option {
	return func(i *Indexer) error {
		i.progress = w
		if interval > 0 {
			i.reportInterval = interval
		}
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Indexer) error {
		i.logger = logger
		return nil
	}
}

// New creates an Indexer that reads from store and installs into idx.
func New(store storage.RecordStore, embedder ai.Embedder, idx *index.Index, opts ...Option) (*Indexer, error) {
	if store == nil {
		return nil, ErrRecordStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}

	i := &Indexer{
		store:          store,
		embedder:       embedder,
		index:          idx,
		batchSize:      DefaultBatchSize,
		concurrency:    DefaultConcurrency,
		maxAttempts:    DefaultMaxAttempts,
		retryDelay:     DefaultRetryDelay,
		progress:       io.Discard,
		reportInterval: DefaultReportInterval,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}
	i.logger = i.logger.With("component", "indexer")
	return i, nil
}

// Rebuild indexes every eligible record in the store.
// Store errors propagate and leave the installed snapshot untouched.
func (i *Indexer) Rebuild(ctx context.Context) (*Result, error) {
	records, err := i.store.ListEligibleCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list eligible candidates: %w", err)
	}
	return i.RebuildFrom(ctx, records)
}

// RebuildFrom indexes the eligible records among records, keeping their order.
// Any embedding failure aborts the rebuild and the previous snapshot stays
// visible. An input with no eligible records installs an empty snapshot.
func (i *Indexer) RebuildFrom(ctx context.Context, records []*core.CandidateRecord) (*Result, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	start := time.Now()
	ids := make([]string, 0, len(records))
	texts := make([]string, 0, len(records))
	for _, r := range records {
		if !r.Eligible() {
			continue
		}
		ids = append(ids, r.Id)
		texts = append(texts, r.SkillText)
	}
	skipped := len(records) - len(ids)

	i.logger.Info("rebuilding index", "records", len(ids), "skipped", skipped, "batchSize", i.batchSize)

	vectors, err := i.embedAll(ctx, texts)
	if err != nil {
		i.logger.Error("rebuild aborted", "err", err)
		return nil, err
	}

	snapshot, err := index.NewSnapshot(ids, vectors)
	if err != nil {
		i.logger.Error("rebuild aborted", "err", err)
		return nil, fmt.Errorf("assemble snapshot: %w", err)
	}
	if err := i.index.Install(snapshot); err != nil {
		return nil, err
	}

	result := &Result{
		Indexed:   snapshot.Len(),
		Skipped:   skipped,
		Dimension: snapshot.Dimension(),
		Elapsed:   time.Since(start),
	}
	i.logger.Info("index rebuilt", "indexed", result.Indexed, "dimension", result.Dimension, "elapsed", result.Elapsed)
	return result, nil
}

// embedAll embeds texts batch by batch into fixed slots, so the output order
// matches the input order regardless of which batch finishes first.
func (i *Indexer) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	if len(texts) == 0 {
		return vectors, nil
	}

	tracker := NewProgressTracker(i.progress, len(texts), i.reportInterval)
	tracker.Start()
	defer tracker.Finish()

	batcher := NewBatchEmbedder(i.embedder, i.maxAttempts, i.retryDelay)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.concurrency)

	for _, s := range splitBatches(len(texts), i.batchSize) {
		g.Go(func() error {
			batch, err := batcher.Embed(gctx, texts[s.start:s.end])
			if err != nil {
				return fmt.Errorf("embed records %d-%d: %w", s.start, s.end-1, err)
			}
			copy(vectors[s.start:s.end], batch)
			tracker.Increment(len(batch))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}
