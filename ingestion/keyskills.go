package ingestion

import (
	"context"
	"log/slog"

	"github.com/poiesic/skillmatch/ai"
	"github.com/poiesic/skillmatch/core"
	"github.com/poiesic/skillmatch/storage"
)

// skillProcessor distills the free-form skills text of a candidate into a
// flat list of key skills.
type skillProcessor struct {
	candidates storage.CandidateRepository
	extractor  ai.SkillExtractor
	logger     *slog.Logger
}

var _ processor = (*skillProcessor)(nil)

func newSkillProcessor(candidates storage.CandidateRepository, extractor ai.SkillExtractor, logger *slog.Logger) *skillProcessor {
	return &skillProcessor{
		candidates: candidates,
		extractor:  extractor,
		logger:     logger.With("processor", "key_skills"),
	}
}

func (sp *skillProcessor) name() string {
	return "key_skills"
}

func (sp *skillProcessor) pending(ctx context.Context) ([]string, error) {
	records, err := sp.candidates.ListCandidates(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(records))
	for _, r := range records {
		if !r.HasKeySkills() {
			ids = append(ids, r.Id)
		}
	}
	return ids, nil
}

func (sp *skillProcessor) process(ctx context.Context, id string) (*core.CandidateRecord, error) {
	record, err := sp.candidates.GetCandidate(ctx, id)
	if err != nil {
		return nil, err
	}

	skills, err := sp.extractor.ExtractKeySkills(ctx, record.Skills)
	if err != nil {
		return nil, err
	}
	skills = NormalizeSkills(skills)
	if err := record.SetKeySkills(skills); err != nil {
		return nil, err
	}

	sp.logger.Debug("key skills extracted", "id", id, "count", len(skills))
	return record, nil
}
