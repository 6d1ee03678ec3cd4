package storage

import (
	"context"

	"github.com/poiesic/skillmatch/core"
)

// Repository is the lifecycle surface shared by every repository.
type Repository interface {
	// Close releases resources held by the repository.
	Close() error
}

// ResumeRepository stores raw resume text.
type ResumeRepository interface {
	Repository

	// AddResume stores a resume, assigning ContentHash and UploadedAt when unset.
	// Returns the already stored resume and ErrDuplicateKey if a resume with the
	// same content hash exists.
	AddResume(ctx context.Context, resume *core.Resume) (*core.Resume, error)

	// GetResume retrieves a resume by ID.
	// Returns ErrNotFound if the resume doesn't exist.
	GetResume(ctx context.Context, id string) (*core.Resume, error)

	// FindResumeByHash retrieves a resume by content hash.
	// Returns ErrNotFound if no resume has that hash.
	FindResumeByHash(ctx context.Context, hash string) (*core.Resume, error)

	// ListResumes returns every resume in upload order.
	ListResumes(ctx context.Context) ([]*core.Resume, error)
}

// RecordStore is the read-only view of candidate records used by the index
// builder and the ranking engine.
type RecordStore interface {
	// ListEligibleCandidates returns every record with a non-blank SkillText,
	// in insertion order.
	ListEligibleCandidates(ctx context.Context) ([]*core.CandidateRecord, error)

	// GetCandidate retrieves a record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetCandidate(ctx context.Context, id string) (*core.CandidateRecord, error)

	// GetFlatSkills returns the record's parsed key skills. Unknown IDs and
	// malformed payloads yield an empty list, not an error.
	GetFlatSkills(ctx context.Context, id string) ([]string, error)
}

// CandidateRepository stores the structured profiles extracted from resumes.
type CandidateRepository interface {
	Repository
	RecordStore

	// SaveCandidates inserts or replaces records by ID.
	// New records get InsertedAt and an insertion position; replaced records
	// keep both. UpdatedAt is always refreshed.
	SaveCandidates(ctx context.Context, records ...*core.CandidateRecord) ([]*core.CandidateRecord, error)

	// ListCandidates returns every record in insertion order.
	ListCandidates(ctx context.Context) ([]*core.CandidateRecord, error)

	// DeleteCandidates removes records by ID.
	// Returns ErrNotFound if any record doesn't exist.
	DeleteCandidates(ctx context.Context, ids ...string) error
}
