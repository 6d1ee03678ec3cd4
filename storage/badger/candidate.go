package badger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/skillmatch/core"
	"github.com/poiesic/skillmatch/storage"
)

// CandidateRepository implements storage.CandidateRepository for BadgerDB.
type CandidateRepository struct {
	backend *Backend
	posSeq  *badger.Sequence
	logger  *slog.Logger
}

var _ storage.CandidateRepository = (*CandidateRepository)(nil)

// NewCandidateRepository creates a new CandidateRepository.
func NewCandidateRepository(backend *Backend) (*CandidateRepository, error) {
	posSeq, err := backend.GetSequence(candidateSeq)
	if err != nil {
		return nil, err
	}

	return &CandidateRepository{
		backend: backend,
		posSeq:  posSeq,
		logger:  slog.Default().With("component", "candidate-repository"),
	}, nil
}

// Close releases the position sequence.
func (r *CandidateRepository) Close() error {
	return r.posSeq.Release()
}

// SaveCandidates inserts or replaces candidate records by ID.
func (r *CandidateRepository) SaveCandidates(ctx context.Context, records ...*core.CandidateRecord) ([]*core.CandidateRecord, error) {
	for _, record := range records {
		if err := core.ValidateCandidate(record); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, record := range records {
			old, err := readCandidate(tx, record.Id)
			if err != nil {
				return err
			}

			if old == nil {
				pos, err := nextPosition(r.posSeq)
				if err != nil {
					return err
				}
				if err := tx.Set(makeCandidateOrderKey(pos), []byte(record.Id)); err != nil {
					return err
				}
				if err := tx.Set(makeCandidatePosKey(record.Id), encodePosition(pos)); err != nil {
					return err
				}
				if record.InsertedAt.IsZero() {
					record.InsertedAt = now
				}
			} else {
				record.InsertedAt = old.InsertedAt
			}
			record.UpdatedAt = now

			if err := tx.Set(makeCandidateKey(record.Id), storage.MarshalCandidate(record)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteCandidates removes candidate records and their order entries.
func (r *CandidateRepository) DeleteCandidates(ctx context.Context, ids ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			posItem, err := tx.Get(makeCandidatePosKey(id))
			if err != nil {
				if err == badger.ErrKeyNotFound {
					return storage.ErrNotFound
				}
				return err
			}
			posVal, err := posItem.ValueCopy(nil)
			if err != nil {
				return err
			}

			if err := tx.Delete(makeCandidateOrderKey(decodePosition(posVal))); err != nil {
				return err
			}
			if err := tx.Delete(makeCandidatePosKey(id)); err != nil {
				return err
			}
			if err := tx.Delete(makeCandidateKey(id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetCandidate retrieves a single candidate record by ID.
func (r *CandidateRepository) GetCandidate(ctx context.Context, id string) (*core.CandidateRecord, error) {
	var result *core.CandidateRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readCandidate(tx, id)
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

// GetFlatSkills returns the parsed key skills for a record.
func (r *CandidateRepository) GetFlatSkills(ctx context.Context, id string) ([]string, error) {
	record, err := r.GetCandidate(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	skills, err := record.FlatSkills()
	if err != nil {
		r.logger.Warn("malformed key skills", "id", id, "err", err)
		return []string{}, nil
	}
	return skills, nil
}

// ListCandidates returns every candidate record in insertion order.
func (r *CandidateRepository) ListCandidates(ctx context.Context) ([]*core.CandidateRecord, error) {
	return r.scan(ctx, func(*core.CandidateRecord) bool { return true })
}

// ListEligibleCandidates returns records with a non-blank SkillText in insertion order.
func (r *CandidateRepository) ListEligibleCandidates(ctx context.Context) ([]*core.CandidateRecord, error) {
	return r.scan(ctx, (*core.CandidateRecord).Eligible)
}

func (r *CandidateRepository) scan(ctx context.Context, keep func(*core.CandidateRecord) bool) ([]*core.CandidateRecord, error) {
	results := []*core.CandidateRecord{}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(candidateOrderPrefix)
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
			record, err := readCandidate(tx, string(id))
			if err != nil {
				return err
			}
			if record != nil && keep(record) {
				results = append(results, record)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Helper functions

// readCandidate reads a candidate record from the transaction.
// Returns nil, nil if the record doesn't exist.
func readCandidate(tx *badger.Txn, id string) (*core.CandidateRecord, error) {
	item, err := tx.Get(makeCandidateKey(id))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.CandidateRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalCandidate(val)
		return unmarshalErr
	})
	return record, err
}
