package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/skillmatch/core"
	"github.com/poiesic/skillmatch/storage"
	"github.com/poiesic/skillmatch/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store implements storage.ResumeRepository and storage.CandidateRepository on SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var (
	_ storage.ResumeRepository    = (*Store)(nil)
	_ storage.CandidateRepository = (*Store)(nil)
)

// Open opens (creating if needed) the SQLite database at dsn and applies migrations.
// An empty dsn opens a private in-memory database.
func Open(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = ":memory:"
	} else if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		dir := filepath.Dir(dsn)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create data directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps in-memory databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{
		db:     db,
		logger: slog.Default().With("component", "sqlite-store"),
	}, nil
}

func runMigrations(db *sql.DB) error {
	names, err := fs.Glob(migrations.FS, "*.sql")
	if err != nil {
		return err
	}
	slices.Sort(names)
	for _, name := range names {
		data, err := migrations.FS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(data)); err != nil {
			return fmt.Errorf("exec migration %s: %w", name, err)
		}
	}
	return nil
}

// Close closes the database. Safe to call more than once.
func (s *Store) Close() error {
	return s.db.Close()
}

// Resumes

func (s *Store) AddResume(ctx context.Context, resume *core.Resume) (*core.Resume, error) {
	if err := core.ValidateResume(resume); err != nil {
		return nil, err
	}
	if resume.Id == "" {
		resume.Id = uuid.NewString()
	}
	if resume.ContentHash == "" {
		resume.ContentHash = core.ContentHash(resume.Content)
	}
	if resume.UploadedAt.IsZero() {
		resume.UploadedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO resumes (id, content, content_hash, uploaded_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(content_hash) DO NOTHING`,
		resume.Id, resume.Content, resume.ContentHash, toMicros(resume.UploadedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert resume: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		existing, err := s.FindResumeByHash(ctx, resume.ContentHash)
		if err != nil {
			return nil, err
		}
		return existing, storage.ErrDuplicateKey
	}
	return resume, nil
}

func (s *Store) GetResume(ctx context.Context, id string) (*core.Resume, error) {
	return s.queryResume(ctx, `WHERE id = ?`, id)
}

func (s *Store) FindResumeByHash(ctx context.Context, hash string) (*core.Resume, error) {
	return s.queryResume(ctx, `WHERE content_hash = ?`, hash)
}

func (s *Store) ListResumes(ctx context.Context) ([]*core.Resume, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, content_hash, uploaded_at FROM resumes ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query resumes: %w", err)
	}
	defer rows.Close()

	resumes := []*core.Resume{}
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		resumes = append(resumes, resume)
	}
	return resumes, rows.Err()
}

func (s *Store) queryResume(ctx context.Context, where string, arg any) (*core.Resume, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, content, content_hash, uploaded_at FROM resumes `+where, arg)
	resume, err := scanResume(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	return resume, err
}

// Candidates

const candidateColumns = `id, name, email, phone, education, experience, skills, summary,
	skill_text, key_skills, inserted_at, updated_at`

func (s *Store) SaveCandidates(ctx context.Context, records ...*core.CandidateRecord) ([]*core.CandidateRecord, error) {
	for _, record := range records {
		if err := core.ValidateCandidate(record); err != nil {
			return nil, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, record := range records {
		if record.InsertedAt.IsZero() {
			record.InsertedAt = now
		}
		record.UpdatedAt = now

		var insertedAt int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO candidates (`+candidateColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				email = excluded.email,
				phone = excluded.phone,
				education = excluded.education,
				experience = excluded.experience,
				skills = excluded.skills,
				summary = excluded.summary,
				skill_text = excluded.skill_text,
				key_skills = excluded.key_skills,
				updated_at = excluded.updated_at
			RETURNING inserted_at`,
			record.Id, record.Name, record.Email, record.Phone, record.Education,
			record.Experience, record.Skills, record.Summary, record.SkillText,
			record.KeySkills, toMicros(record.InsertedAt), toMicros(record.UpdatedAt),
		).Scan(&insertedAt)
		if err != nil {
			return nil, fmt.Errorf("upsert candidate %s: %w", record.Id, err)
		}
		record.InsertedAt = fromMicros(insertedAt)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) DeleteCandidates(ctx context.Context, ids ...string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, id := range ids {
		res, err := tx.ExecContext(ctx, `DELETE FROM candidates WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete candidate %s: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return storage.ErrNotFound
		}
	}
	return tx.Commit()
}

func (s *Store) GetCandidate(ctx context.Context, id string) (*core.CandidateRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = ?`, id)
	record, err := scanCandidate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	return record, err
}

func (s *Store) GetFlatSkills(ctx context.Context, id string) ([]string, error) {
	record, err := s.GetCandidate(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	skills, err := record.FlatSkills()
	if err != nil {
		s.logger.Warn("malformed key skills", "id", id, "err", err)
		return []string{}, nil
	}
	return skills, nil
}

func (s *Store) ListCandidates(ctx context.Context) ([]*core.CandidateRecord, error) {
	return s.listCandidates(ctx, ``)
}

func (s *Store) ListEligibleCandidates(ctx context.Context) ([]*core.CandidateRecord, error) {
	return s.listCandidates(ctx, `WHERE trim(skill_text) <> ''`)
}

func (s *Store) listCandidates(ctx context.Context, where string) ([]*core.CandidateRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+candidateColumns+` FROM candidates `+where+` ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	records := []*core.CandidateRecord{}
	for rows.Next() {
		record, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		// SQLite trim only strips spaces; Eligible is the authority.
		if where != "" && !record.Eligible() {
			continue
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Helper functions

type scanner interface {
	Scan(dest ...any) error
}

func scanResume(row scanner) (*core.Resume, error) {
	var r core.Resume
	var uploadedAt int64
	if err := row.Scan(&r.Id, &r.Content, &r.ContentHash, &uploadedAt); err != nil {
		return nil, err
	}
	r.UploadedAt = fromMicros(uploadedAt)
	return &r, nil
}

func scanCandidate(row scanner) (*core.CandidateRecord, error) {
	var c core.CandidateRecord
	var insertedAt, updatedAt int64
	err := row.Scan(&c.Id, &c.Name, &c.Email, &c.Phone, &c.Education, &c.Experience,
		&c.Skills, &c.Summary, &c.SkillText, &c.KeySkills, &insertedAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	c.InsertedAt = fromMicros(insertedAt)
	c.UpdatedAt = fromMicros(updatedAt)
	return &c, nil
}

func toMicros(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

func fromMicros(us int64) time.Time {
	if us == 0 {
		return time.Time{}
	}
	return time.UnixMicro(us).UTC()
}
