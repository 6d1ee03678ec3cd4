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


package skillmatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/skillmatch/ai"
	"github.com/poiesic/skillmatch/ai/openai"
	"github.com/poiesic/skillmatch/config"
	"github.com/poiesic/skillmatch/core"
	"github.com/poiesic/skillmatch/index"
	"github.com/poiesic/skillmatch/indexer"
	"github.com/poiesic/skillmatch/ingestion"
	"github.com/poiesic/skillmatch/search"
	"github.com/poiesic/skillmatch/storage"
	"github.com/poiesic/skillmatch/storage/badger"
	"github.com/poiesic/skillmatch/storage/sqlite"
)

// Engine wires storage, the AI provider, the vector index and the stages that
// use them into one service.
type Engine struct {
	resumes    storage.ResumeRepository
	candidates storage.CandidateRepository
	closers    []io.Closer
	provider   ai.AIProvider
	index      *index.Index
	indexer    *indexer.Indexer
	searcher   *search.Searcher
	pipeline   *ingestion.Pipeline
	topK       int
	logger     *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	provider ai.AIProvider
	progress io.Writer
	logger   *slog.Logger
}

// WithProvider replaces the OpenAI-compatible provider built from the config.
func WithProvider(provider ai.AIProvider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithProgress reports index rebuild progress to w.
func WithProgress(w io.Writer) EngineOption {
	return func(o *engineOptions) {
		o.progress = w
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewEngine opens the configured store and builds every component. The index
// starts unbuilt; call BuildIndex before FindMatches.
func NewEngine(cfg *config.Config, opts ...EngineOption) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &engineOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	e := &Engine{topK: cfg.Search.TopK, logger: options.logger.With("component", "engine")}
	if err := e.openStorage(cfg.Storage); err != nil {
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		var err error
		provider, err = openai.NewProvider(cfg.AIConfig())
		if err != nil {
			e.Close()
			return nil, err
		}
	}
	e.provider = provider

	if err := e.build(cfg, options); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func (e *Engine) openStorage(cfg config.StorageConfig) error {
	switch cfg.Backend {
	case config.BackendBadger:
		var (
			resumes    storage.ResumeRepository
			candidates storage.CandidateRepository
			backend    *badger.Backend
			err        error
		)
		if cfg.InMemory {
			resumes, candidates, backend, err = badger.NewMemoryRepositories()
		} else {
			resumes, candidates, backend, err = badger.OpenRepositories(cfg.Path)
		}
		if err != nil {
			return err
		}
		e.resumes, e.candidates = resumes, candidates
		e.closers = []io.Closer{candidates, resumes, backend}
	case config.BackendSQLite:
		dsn := cfg.Path
		if cfg.InMemory {
			dsn = ""
		}
		store, err := sqlite.Open(dsn)
		if err != nil {
			return err
		}
		e.resumes, e.candidates = store, store
		e.closers = []io.Closer{store}
	default:
		return fmt.Errorf("%w: %q", storage.ErrUnknownBackend, cfg.Backend)
	}
	e.logger.Info("storage opened", "backend", cfg.Backend, "path", cfg.Path, "inMemory", cfg.InMemory)
	return nil
}

func (e *Engine) build(cfg *config.Config, options *engineOptions) error {
	var err error
	e.index, err = index.New(index.WithLogger(options.logger))
	if err != nil {
		return err
	}

	indexerOpts := []indexer.Option{
		indexer.WithBatchSize(cfg.Indexer.BatchSize),
		indexer.WithConcurrency(cfg.Indexer.Concurrency),
		indexer.WithRetry(cfg.Indexer.MaxAttempts, cfg.Indexer.RetryDelay),
		indexer.WithLogger(options.logger),
	}
	if options.progress != nil {
		indexerOpts = append(indexerOpts, indexer.WithProgress(options.progress, indexer.DefaultReportInterval))
	}
	e.indexer, err = indexer.New(e.candidates, e.provider.Embedder(), e.index, indexerOpts...)
	if err != nil {
		return err
	}

	e.searcher, err = search.NewSearcher(e.candidates, e.provider.Embedder(), e.index,
		search.WithThreshold(cfg.Search.Threshold),
		search.WithCandidatePoolSize(cfg.Search.PoolSize),
		search.WithWorkers(cfg.Search.Workers),
		search.WithLogger(options.logger),
	)
	if err != nil {
		return err
	}

	e.pipeline, err = ingestion.NewPipeline(e.resumes, e.candidates, e.provider,
		ingestion.WithPoolSize(cfg.Ingestion.Workers),
		ingestion.WithLogger(options.logger),
	)
	return err
}

// Close releases worker pools, the provider and storage.
func (e *Engine) Close() error {
	if e.pipeline != nil {
		e.pipeline.Release()
	}
	if e.searcher != nil {
		e.searcher.Release()
	}
	if e.provider != nil {
		if err := e.provider.Close(); err != nil {
			e.logger.Error("error closing AI provider", "err", err)
		}
	}

	var errs []error
	for _, c := range e.closers {
		if err := c.Close(); err != nil {
			e.logger.Error("error closing storage", "err", err)
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}

// Ingest stores one resume text.
func (e *Engine) Ingest(ctx context.Context, content string) (*ingestion.IngestResult, error) {
	return e.pipeline.Ingest(ctx, content)
}

// ExtractFields extracts profile fields for resumes without a candidate record.
func (e *Engine) ExtractFields(ctx context.Context) (*ingestion.Result, error) {
	return e.pipeline.ExtractFields(ctx)
}

// ExtractKeySkills extracts key skills for candidate records without them.
func (e *Engine) ExtractKeySkills(ctx context.Context) (*ingestion.Result, error) {
	return e.pipeline.ExtractKeySkills(ctx)
}

// BuildIndex rebuilds the vector index from every eligible candidate record.
func (e *Engine) BuildIndex(ctx context.Context) (*indexer.Result, error) {
	return e.indexer.Rebuild(ctx)
}

// FindMatches ranks candidates against query. A topK of zero uses the
// configured default.
func (e *Engine) FindMatches(ctx context.Context, query string, topK int) ([]core.Match, error) {
	if topK == 0 {
		topK = e.topK
	}
	return e.searcher.FindMatches(ctx, query, topK)
}

// FindMatchesWithMonitor is FindMatches with search stage callbacks.
func (e *Engine) FindMatchesWithMonitor(ctx context.Context, query string, topK int, monitor search.SearchMonitor) ([]core.Match, error) {
	if topK == 0 {
		topK = e.topK
	}
	return e.searcher.FindMatchesWithMonitor(ctx, query, topK, monitor)
}

// IndexStats describes the installed index snapshot.
func (e *Engine) IndexStats() index.Stats {
	return e.index.Stats()
}

// DefaultTopK returns the configured result count.
func (e *Engine) DefaultTopK() int {
	return e.topK
}

// Resumes returns the resume repository.
func (e *Engine) Resumes() storage.ResumeRepository {
	return e.resumes
}

// Candidates returns the candidate repository.
func (e *Engine) Candidates() storage.CandidateRepository {
	return e.candidates
}
