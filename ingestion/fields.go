package ingestion

import (
	"context"
	"log/slog"

	"github.com/poiesic/skillmatch/ai"
	"github.com/poiesic/skillmatch/core"
	"github.com/poiesic/skillmatch/storage"
)

// fieldProcessor extracts structured profile fields from resumes that have
// no candidate record yet.
type fieldProcessor struct {
	resumes    storage.ResumeRepository
	candidates storage.CandidateRepository
	extractor  ai.FieldExtractor
	logger     *slog.Logger
}

var _ processor = (*fieldProcessor)(nil)

func newFieldProcessor(resumes storage.ResumeRepository, candidates storage.CandidateRepository, extractor ai.FieldExtractor, logger *slog.Logger) *fieldProcessor {
	return &fieldProcessor{
		resumes:    resumes,
		candidates: candidates,
		extractor:  extractor,
		logger:     logger.With("processor", "fields"),
	}
}

func (fp *fieldProcessor) name() string {
	return "fields"
}

func (fp *fieldProcessor) pending(ctx context.Context) ([]string, error) {
	resumes, err := fp.resumes.ListResumes(ctx)
	if err != nil {
		return nil, err
	}
	if len(resumes) == 0 {
		return nil, ErrNoResumes
	}

	existing, err := fp.candidates.ListCandidates(ctx)
	if err != nil {
		return nil, err
	}
	done := make(map[string]struct{}, len(existing))
	for _, c := range existing {
		done[c.Id] = struct{}{}
	}

	ids := make([]string, 0, len(resumes))
	for _, r := range resumes {
		if _, ok := done[r.Id]; !ok {
			ids = append(ids, r.Id)
		}
	}
	return ids, nil
}

func (fp *fieldProcessor) process(ctx context.Context, id string) (*core.CandidateRecord, error) {
	resume, err := fp.resumes.GetResume(ctx, id)
	if err != nil {
		return nil, err
	}

	fields, err := fp.extractor.ExtractFields(ctx, resume.Content)
	if err != nil {
		return nil, err
	}

	skills := joinList(fields.Skills)
	if skills == "" {
		fp.logger.Debug("no skills extracted, leaving resume for a later run", "id", id)
		return nil, nil
	}

	return &core.CandidateRecord{
		Id:         resume.Id,
		Name:       fields.Name,
		Email:      fields.Email,
		Phone:      fields.Phone,
		Education:  joinList(fields.Education),
		Experience: joinList(fields.Experience),
		Skills:     skills,
		Summary:    joinList(fields.ProfessionalDetails),
	}, nil
}
