package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/skillmatch/ai"
	"github.com/poiesic/skillmatch/core"
	"github.com/poiesic/skillmatch/storage"
)

// Pipeline orchestrates resume ingestion and LLM enrichment of candidate records.
type Pipeline struct {
	resumes    storage.ResumeRepository
	candidates storage.CandidateRepository
	pool       *ants.Pool
	fieldProc  processor
	skillProc  processor
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent extraction.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	resumes storage.ResumeRepository,
	candidates storage.CandidateRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if resumes == nil {
		return nil, ErrResumeRepositoryRequired
	}
	if candidates == nil {
		return nil, ErrCandidateRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		resumes:    resumes,
		candidates: candidates,
		pool:       pool,
		logger:     slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	p.logger = p.logger.With("component", "ingestion")

	// Create processors after options are applied (so they get final config)
	p.fieldProc = newFieldProcessor(resumes, candidates, provider.FieldExtractor(), p.logger)
	p.skillProc = newSkillProcessor(candidates, provider.SkillExtractor(), p.logger)

	return p, nil
}

// IngestResult describes a stored resume.
type IngestResult struct {
	Resume    *core.Resume
	Duplicate bool // The content was already stored; Resume is the earlier upload
}

// Ingest stores resume text under a fresh ID. Text identical to an earlier
// upload is not stored twice; the earlier resume is returned instead.
func (p *Pipeline) Ingest(ctx context.Context, content string) (*IngestResult, error) {
	resume := &core.Resume{
		Id:         uuid.NewString(),
		Content:    content,
		UploadedAt: time.Now().UTC(),
	}

	added, err := p.resumes.AddResume(ctx, resume)
	if errors.Is(err, storage.ErrDuplicateKey) {
		p.logger.Info("duplicate resume ignored", "id", added.Id)
		return &IngestResult{Resume: added, Duplicate: true}, nil
	}
	if err != nil {
		return nil, err
	}

	p.logger.Info("resume stored", "id", added.Id)
	return &IngestResult{Resume: added}, nil
}

// Result summarizes one extraction run.
type Result struct {
	Pending int // Records waiting for the stage when the run started
	Saved   int // Records written
	Skipped int // Records with nothing worth saving
	Failed  int // Records whose extraction failed
}

// ExtractFields extracts profile fields for every resume without a candidate
// record. Only extractions that found skills are saved. Successful records
// are saved even when another resume fails, in which case the first failure
// is returned wrapped in ErrExtractionFailed.
func (p *Pipeline) ExtractFields(ctx context.Context) (*Result, error) {
	outcomes, err := p.run(ctx, p.fieldProc)
	if err != nil {
		return nil, err
	}

	result, records := p.tally(outcomes)
	if err := p.save(ctx, records); err != nil {
		return nil, err
	}
	result.Saved = len(records)

	for _, o := range outcomes {
		if o.err != nil {
			return result, fmt.Errorf("%w: resume %s: %w", ErrExtractionFailed, o.id, o.err)
		}
	}
	return result, nil
}

// ExtractKeySkills extracts key skills for every candidate record that has
// none. A record whose extraction fails is logged and left for a later run.
func (p *Pipeline) ExtractKeySkills(ctx context.Context) (*Result, error) {
	outcomes, err := p.run(ctx, p.skillProc)
	if err != nil {
		return nil, err
	}

	result, records := p.tally(outcomes)
	for _, o := range outcomes {
		if o.err != nil {
			p.logger.Warn("key skill extraction failed", "id", o.id, "err", o.err)
		}
	}
	if err := p.save(ctx, records); err != nil {
		return nil, err
	}
	result.Saved = len(records)
	return result, nil
}

// run processes every pending ID of a stage on the worker pool. Outcomes keep
// the pending order. A canceled context fails the whole run.
func (p *Pipeline) run(ctx context.Context, proc processor) ([]outcome, error) {
	ids, err := proc.pending(ctx)
	if err != nil {
		return nil, err
	}
	p.logger.Info("processing records", "stage", proc.name(), "records", len(ids))

	outcomes := make([]outcome, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			record, err := proc.process(ctx, id)
			outcomes[i] = outcome{id: id, record: record, err: err}
		})
		if submitErr != nil {
			wg.Done()
			wg.Wait()
			return nil, submitErr
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (p *Pipeline) tally(outcomes []outcome) (*Result, []*core.CandidateRecord) {
	result := &Result{Pending: len(outcomes)}
	records := make([]*core.CandidateRecord, 0, len(outcomes))
	for _, o := range outcomes {
		switch {
		case o.err != nil:
			result.Failed++
		case o.record == nil:
			result.Skipped++
		default:
			records = append(records, o.record)
		}
	}
	return result, records
}

func (p *Pipeline) save(ctx context.Context, records []*core.CandidateRecord) error {
	if len(records) == 0 {
		return nil
	}
	if _, err := p.candidates.SaveCandidates(ctx, records...); err != nil {
		p.logger.Error("error saving candidate records", "records", len(records), "err", err)
		return err
	}
	return nil
}

// Release releases resources including the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
