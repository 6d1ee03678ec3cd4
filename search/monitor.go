package search

import (
	"log/slog"

	"github.com/poiesic/skillmatch/core"
	"github.com/poiesic/skillmatch/index"
)

// SkipReason says why a coarse hit was left out of the results.
type SkipReason string

const (
	SkipMissing        SkipReason = "record missing"
	SkipNoSkills       SkipReason = "no key skills"
	SkipBelowThreshold SkipReason = "below threshold"
)

// SearchMonitor provides hooks to observe the search process.
// Hooks are called from the goroutine running the search, in coarse order.
type SearchMonitor interface {
	Start(query string, topK int)
	AfterQueryEmbedding(dimension int)
	AfterCoarseSearch(hits []index.Hit)
	CandidateSkipped(id string, reason SkipReason, similarity float64)
	CandidateMatched(match core.Match, similarity float64)
	Finish(matches []core.Match)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ int)                              {}
func (n *noopMonitor) AfterQueryEmbedding(_ int)                          {}
func (n *noopMonitor) AfterCoarseSearch(_ []index.Hit)                    {}
func (n *noopMonitor) CandidateSkipped(_ string, _ SkipReason, _ float64) {}
func (n *noopMonitor) CandidateMatched(_ core.Match, _ float64)           {}
func (n *noopMonitor) Finish(_ []core.Match)                              {}

// LogMonitor writes every search stage to a logger at debug level.
type LogMonitor struct {
	Logger *slog.Logger
}

var _ SearchMonitor = (*LogMonitor)(nil)

func (m *LogMonitor) Start(query string, topK int) {
	m.Logger.Debug("search started", "query", query, "topK", topK)
}

func (m *LogMonitor) AfterQueryEmbedding(dimension int) {
	m.Logger.Debug("query embedded", "dimension", dimension)
}

func (m *LogMonitor) AfterCoarseSearch(hits []index.Hit) {
	for i, h := range hits {
		m.Logger.Debug("coarse hit", "rank", i+1, "id", h.ID, "score", h.Score)
	}
}

func (m *LogMonitor) CandidateSkipped(id string, reason SkipReason, similarity float64) {
	m.Logger.Debug("candidate skipped", "id", id, "reason", string(reason), "similarity", similarity)
}

func (m *LogMonitor) CandidateMatched(match core.Match, similarity float64) {
	m.Logger.Debug("candidate matched", "id", match.Id, "skill", match.MatchedSkill, "similarity", similarity)
}

func (m *LogMonitor) Finish(matches []core.Match) {
	m.Logger.Debug("search finished", "matches", len(matches))
}
