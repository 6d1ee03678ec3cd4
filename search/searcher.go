package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/skillmatch/ai"
	"github.com/poiesic/skillmatch/core"
	"github.com/poiesic/skillmatch/index"
	"github.com/poiesic/skillmatch/storage"
)

const (
	// DefaultThreshold is the similarity a candidate's best skill must exceed.
	DefaultThreshold = 0.5

	// DefaultCandidatePoolSize leaves the coarse search at top_k hits.
	DefaultCandidatePoolSize = 0

	// DefaultWorkers is the number of candidates re-ranked concurrently.
	DefaultWorkers = 4
)

// Searcher ranks candidates against a skills query.
type Searcher struct {
	store     storage.RecordStore
	embedder  ai.Embedder
	index     *index.Index
	threshold float64
	poolSize  int
	workers   int
	pool      *ants.Pool
	logger    *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithThreshold sets the similarity a candidate's best skill must strictly exceed.
// Default is DefaultThreshold.
func WithThreshold(threshold float64) Option {
	return func(s *Searcher) error {
		if math.IsNaN(threshold) || threshold < -1 || threshold > 1 {
			return ErrInvalidThreshold
		}
		s.threshold = threshold
		return nil
	}
}

// WithCandidatePoolSize sets how many coarse hits are re-ranked when the
// caller asks for fewer. Zero or less keeps the coarse search at top_k.
// Default is DefaultCandidatePoolSize.
func WithCandidatePoolSize(size int) Option {
	return func(s *Searcher) error {
		if size < 0 {
			size = 0
		}
		s.poolSize = size
		return nil
	}
}

// WithWorkers sets the number of candidates re-ranked concurrently.
// Default is DefaultWorkers.
func WithWorkers(workers int) Option {
	return func(s *Searcher) error {
		if workers < 1 {
			workers = 1
		}
		s.workers = workers
		return nil
	}
}

// NewSearcher creates a new searcher. Call Release when done.
func NewSearcher(store storage.RecordStore, embedder ai.Embedder, idx *index.Index, opts ...Option) (*Searcher, error) {
	if store == nil {
		return nil, ErrRecordStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}

	s := &Searcher{
		store:     store,
		embedder:  embedder,
		index:     idx,
		threshold: DefaultThreshold,
		poolSize:  DefaultCandidatePoolSize,
		workers:   DefaultWorkers,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "searcher")

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, err
	}
	s.pool = pool

	return s, nil
}

// Release frees the worker pool.
func (s *Searcher) Release() {
	s.pool.Release()
}

// Threshold returns the configured similarity threshold.
func (s *Searcher) Threshold() float64 {
	return s.threshold
}

// FindMatches returns up to topK candidates whose best skill matches query.
func (s *Searcher) FindMatches(ctx context.Context, query string, topK int) ([]core.Match, error) {
	return s.FindMatchesWithMonitor(ctx, query, topK, nil)
}

// rerankResult is the outcome of re-ranking one coarse hit.
type rerankResult struct {
	match      core.Match
	similarity float64
	skip       SkipReason
	err        error
}

// FindMatchesWithMonitor is FindMatches with stage callbacks.
// Matches keep the order of the coarse search; an index that was never built
// yields index.ErrIndexNotBuilt, while a built but empty one yields no matches.
func (s *Searcher) FindMatchesWithMonitor(ctx context.Context, query string, topK int, monitor SearchMonitor) ([]core.Match, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if topK <= 0 {
		return nil, ErrInvalidTopK
	}

	monitor.Start(query, topK)

	queryVec, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "err", err)
		return nil, ai.EmbeddingError(err)
	}
	queryVec = core.NormalizeVector(queryVec)
	monitor.AfterQueryEmbedding(len(queryVec))

	hits, err := s.index.Search(queryVec, max(topK, s.poolSize))
	if errors.Is(err, index.ErrIndexEmpty) {
		monitor.Finish(nil)
		return []core.Match{}, nil
	}
	if err != nil {
		return nil, err
	}
	monitor.AfterCoarseSearch(hits)

	results, err := s.rerank(ctx, queryVec, hits)
	if err != nil {
		return nil, err
	}

	matches := make([]core.Match, 0, min(topK, len(results)))
	for i, r := range results {
		if r.skip != "" {
			monitor.CandidateSkipped(hits[i].ID, r.skip, r.similarity)
			continue
		}
		monitor.CandidateMatched(r.match, r.similarity)
		matches = append(matches, r.match)
	}
	if len(matches) > topK {
		matches = matches[:topK]
	}
	monitor.Finish(matches)

	return matches, nil
}

// rerank scores every hit concurrently. Results are slotted by hit position.
// The first failure to occur cancels the remaining work and is returned;
// cancellations it causes in sibling tasks are not reported.
func (s *Searcher) rerank(ctx context.Context, queryVec []float32, hits []index.Hit) ([]rerankResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		failOnce sync.Once
		firstErr error
	)
	fail := func(err error) {
		failOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	results := make([]rerankResult, len(hits))
	for i, hit := range hits {
		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()
			results[i] = s.scoreCandidate(ctx, queryVec, hit.ID)
			if results[i].err != nil {
				fail(results[i].err)
			}
		})
		if err != nil {
			wg.Done()
			fail(fmt.Errorf("submitting re-rank task: %w", err))
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// scoreCandidate picks the candidate's skill most similar to the query.
func (s *Searcher) scoreCandidate(ctx context.Context, queryVec []float32, id string) rerankResult {
	if err := ctx.Err(); err != nil {
		return rerankResult{err: err}
	}

	skills, err := s.store.GetFlatSkills(ctx, id)
	if err != nil {
		return rerankResult{err: err}
	}
	if len(skills) == 0 {
		return rerankResult{skip: SkipNoSkills}
	}

	vectors, err := s.embedder.EmbedTexts(ctx, skills)
	if err != nil {
		s.logger.Error("error embedding candidate skills", "id", id, "err", err)
		return rerankResult{err: ai.EmbeddingError(err)}
	}
	if len(vectors) != len(skills) {
		return rerankResult{err: ai.EmbeddingError(fmt.Errorf("got %d vectors for %d skills", len(vectors), len(skills)))}
	}

	best := math.Inf(-1)
	bestSkill := ""
	for j, vec := range vectors {
		sim := core.CosineSimilarity(queryVec, vec)
		if sim > best {
			best = sim
			bestSkill = skills[j]
		}
	}
	if best <= s.threshold {
		return rerankResult{skip: SkipBelowThreshold, similarity: best}
	}

	record, err := s.store.GetCandidate(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.Warn("indexed candidate no longer stored", "id", id)
		return rerankResult{skip: SkipMissing, similarity: best}
	}
	if err != nil {
		return rerankResult{err: err}
	}

	return rerankResult{
		similarity: best,
		match: core.Match{
			Id:           record.Id,
			Name:         record.Name,
			Email:        record.Email,
			MatchedSkill: bestSkill,
			Score:        Score(best),
		},
	}
}

// Score converts a similarity into a 0-100 score, rounding the similarity to
// three decimals first.
func Score(similarity float64) float64 {
	return math.Round(similarity*1000) / 1000 * 100
}
