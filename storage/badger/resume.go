package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/poiesic/skillmatch/core"
	"github.com/poiesic/skillmatch/storage"
)

// ResumeRepository implements storage.ResumeRepository for BadgerDB.
type ResumeRepository struct {
	backend *Backend
	posSeq  *badger.Sequence
}

var _ storage.ResumeRepository = (*ResumeRepository)(nil)

// NewResumeRepository creates a new ResumeRepository.
func NewResumeRepository(backend *Backend) (*ResumeRepository, error) {
	posSeq, err := backend.GetSequence(resumeSeq)
	if err != nil {
		return nil, err
	}

	return &ResumeRepository{
		backend: backend,
		posSeq:  posSeq,
	}, nil
}

// Close releases the position sequence.
func (r *ResumeRepository) Close() error {
	return r.posSeq.Release()
}

// AddResume stores a resume unless one with the same content already exists.
// Resumes without an ID are assigned a random UUID.
func (r *ResumeRepository) AddResume(ctx context.Context, resume *core.Resume) (*core.Resume, error) {
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

	var existing *core.Resume
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		existing, err = readResumeByHash(tx, resume.ContentHash)
		if err != nil {
			return err
		}
		if existing != nil {
			return storage.ErrDuplicateKey
		}

		pos, err := nextPosition(r.posSeq)
		if err != nil {
			return err
		}
		if err := tx.Set(makeResumeKey(resume.Id), storage.MarshalResume(resume)); err != nil {
			return err
		}
		if err := tx.Set(makeResumeHashKey(resume.ContentHash), []byte(resume.Id)); err != nil {
			return err
		}
		if err := tx.Set(makeResumeOrderKey(pos), []byte(resume.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	if errors.Is(err, storage.ErrDuplicateKey) {
		return existing, err
	}
	if err != nil {
		return nil, err
	}
	return resume, nil
}

// GetResume retrieves a resume by ID.
func (r *ResumeRepository) GetResume(ctx context.Context, id string) (*core.Resume, error) {
	var result *core.Resume
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readResume(tx, id)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// FindResumeByHash retrieves a resume by content hash.
func (r *ResumeRepository) FindResumeByHash(ctx context.Context, hash string) (*core.Resume, error) {
	var result *core.Resume
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readResumeByHash(tx, hash)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListResumes returns every resume in upload order.
func (r *ResumeRepository) ListResumes(ctx context.Context) ([]*core.Resume, error) {
	results := []*core.Resume{}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(resumeOrderPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			id, err := iter.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			resume, err := readResume(tx, string(id))
			if err != nil {
				return err
			}
			if resume != nil {
				results = append(results, resume)
			}
		}
		return nil
	}, false)
	return results, err
}

// Helper functions

func readResume(tx *badger.Txn, id string) (*core.Resume, error) {
	item, err := tx.Get(makeResumeKey(id))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var resume *core.Resume
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		resume, unmarshalErr = storage.UnmarshalResume(val)
		return unmarshalErr
	})
	return resume, err
}

func readResumeByHash(tx *badger.Txn, hash string) (*core.Resume, error) {
	item, err := tx.Get(makeResumeHashKey(hash))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}
	id, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	return readResume(tx, string(id))
}
