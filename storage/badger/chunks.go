package badger

import (
	"context"
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/rjj101202/appalti-knowledge/core"
	"github.com/rjj101202/appalti-knowledge/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
//
// Chunk sets are replaced, never edited in place. Each document carries a
// generation pointer; ReplaceChunks writes the new set under a fresh
// generation, flips the pointer, then removes the superseded generation.
// Readers resolve the pointer first, so they always observe one complete
// set.
type ChunkRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(backend *Backend) (*ChunkRepository, error) {
	idSeq, err := backend.GetSequence(chunkIDSeq)
	if err != nil {
		return nil, err
	}

	return &ChunkRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *ChunkRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *ChunkRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// ReplaceChunks atomically replaces the full chunk set of a document.
func (r *ChunkRepository) ReplaceChunks(ctx context.Context, tenantID string, documentID core.ID, chunks []*core.Chunk) error {
	ordered := slices.Clone(chunks)
	slices.SortFunc(ordered, func(a, b *core.Chunk) int {
		return a.Index - b.Index
	})
	for i, chunk := range ordered {
		if err := core.ValidateChunk(chunk); err != nil {
			return err
		}
		if chunk.TenantID != tenantID || chunk.DocumentID != documentID {
			return fmt.Errorf("%w: chunk %d does not belong to document %d of tenant %q",
				storage.ErrStore, chunk.Id, documentID, tenantID)
		}
		if chunk.Index != i {
			return fmt.Errorf("%w: index %d at position %d", storage.ErrNonContiguousChunks, chunk.Index, i)
		}
	}

	var oldGen uint64
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		oldGen, err = currentGeneration(tx, tenantID, documentID)
		return err
	}, false)
	if err != nil {
		return fmt.Errorf("%w: read generation: %w", storage.ErrStore, err)
	}
	newGen := oldGen + 1

	// Stage 1: write the new set under a generation no reader resolves yet.
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range ordered {
			if chunk.Id == 0 {
				nextID, err := r.idSeq.Next()
				if err != nil {
					return err
				}
				if nextID == 0 {
					nextID, err = r.idSeq.Next()
					if err != nil {
						return err
					}
				}
				chunk.Id = core.ID(nextID)
			}
			key := makeChunkKey(tenantID, documentID, newGen, chunk.Index)
			if err := tx.Set(key, storage.MarshalChunk(chunk)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return fmt.Errorf("%w: write chunks: %w", storage.ErrStore, err)
	}

	// Stage 2: flip the pointer; readers switch to the new set here.
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		genValue := make([]byte, 8)
		binary.BigEndian.PutUint64(genValue, newGen)
		if err := tx.Set(makeGenerationKey(tenantID, documentID), genValue); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return fmt.Errorf("%w: flip generation: %w", storage.ErrStore, err)
	}

	// Stage 3: drop the superseded generation.
	if oldGen > 0 {
		if err := r.deleteGeneration(tenantID, documentID, oldGen); err != nil {
			return fmt.Errorf("%w: drop old generation: %w", storage.ErrStore, err)
		}
	}
	return nil
}

// GetChunks retrieves all chunks of a document, ordered by Index.
func (r *ChunkRepository) GetChunks(ctx context.Context, tenantID string, documentID core.ID) ([]*core.Chunk, error) {
	var results []*core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		gen, err := currentGeneration(tx, tenantID, documentID)
		if err != nil {
			return err
		}
		if gen == 0 {
			return nil
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeChunkGenerationPrefix(tenantID, documentID, gen)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			chunk, err := readChunkItem(iter.Item())
			if err != nil {
				return err
			}
			if chunk != nil && chunk.TenantID == tenantID {
				results = append(results, chunk)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, fmt.Errorf("%w: get chunks: %w", storage.ErrStore, err)
	}
	return results, nil
}

// GetChunkRange retrieves the chunks of a document whose Index lies in
// [from, to], ordered by Index. Out-of-range bounds are clamped.
func (r *ChunkRepository) GetChunkRange(ctx context.Context, tenantID string, documentID core.ID, from, to int) ([]*core.Chunk, error) {
	if from < 0 {
		from = 0
	}
	if to < from {
		return nil, nil
	}

	var results []*core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		gen, err := currentGeneration(tx, tenantID, documentID)
		if err != nil {
			return err
		}
		if gen == 0 {
			return nil
		}

		for i := from; i <= to; i++ {
			item, err := tx.Get(makeChunkKey(tenantID, documentID, gen, i))
			if err != nil {
				if err == badger.ErrKeyNotFound {
					// Past the last chunk of the set.
					return nil
				}
				return err
			}
			chunk, err := readChunkItem(item)
			if err != nil {
				return err
			}
			if chunk != nil && chunk.TenantID == tenantID {
				results = append(results, chunk)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, fmt.Errorf("%w: get chunk range: %w", storage.ErrStore, err)
	}
	return results, nil
}

// CountChunks returns the number of stored chunks for a document.
func (r *ChunkRepository) CountChunks(ctx context.Context, tenantID string, documentID core.ID) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		gen, err := currentGeneration(tx, tenantID, documentID)
		if err != nil {
			return err
		}
		if gen == 0 {
			return nil
		}

		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = makeChunkGenerationPrefix(tenantID, documentID, gen)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, fmt.Errorf("%w: count chunks: %w", storage.ErrStore, err)
	}
	return count, nil
}

// ScanCandidates streams every chunk admitted by the filter to fn.
// Superseded generations still awaiting cleanup are skipped.
func (r *ChunkRepository) ScanCandidates(ctx context.Context, filter core.ScopeFilter, fn func(*core.Chunk) error) error {
	if err := core.ValidateScopeFilter(filter); err != nil {
		return err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		generations := make(map[core.ID]uint64)

		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeChunkTenantPrefix(filter.TenantID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			documentID, gen, ok := chunkKeyFields(filter.TenantID, iter.Item().Key())
			if !ok {
				continue
			}

			current, seen := generations[documentID]
			if !seen {
				var err error
				current, err = currentGeneration(tx, filter.TenantID, documentID)
				if err != nil {
					return err
				}
				generations[documentID] = current
			}
			if gen != current {
				continue
			}

			chunk, err := readChunkItem(iter.Item())
			if err != nil {
				return err
			}
			if chunk == nil || chunk.TenantID != filter.TenantID {
				continue
			}
			if !filter.Admits(chunk) {
				continue
			}
			if err := fn(chunk); err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return fmt.Errorf("%w: scan candidates: %w", storage.ErrStore, err)
	}
	return nil
}

// deleteGeneration removes every chunk of one generation.
func (r *ChunkRepository) deleteGeneration(tenantID string, documentID core.ID, gen uint64) error {
	return r.deleteByPrefix(makeChunkGenerationPrefix(tenantID, documentID, gen))
}

// deleteAllChunks removes every chunk of a document, across generations,
// plus nothing else. Used by the document delete cascade.
func (r *ChunkRepository) deleteAllChunks(tenantID string, documentID core.ID) error {
	return r.deleteByPrefix(makeChunkDocumentPrefix(tenantID, documentID))
}

func (r *ChunkRepository) deleteByPrefix(prefix []byte) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		var keys [][]byte
		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		iter.Close()

		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// currentGeneration reads a document's generation pointer.
// Returns 0 when the document has no chunk set.
func currentGeneration(tx *badger.Txn, tenantID string, documentID core.ID) (uint64, error) {
	item, err := tx.Get(makeGenerationKey(tenantID, documentID))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return 0, nil
		}
		return 0, err
	}

	var gen uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return storage.ErrTruncatedData
		}
		gen = binary.BigEndian.Uint64(val)
		return nil
	})
	return gen, err
}

// readChunkItem unmarshals a chunk from an iterator item.
func readChunkItem(item *badger.Item) (*core.Chunk, error) {
	var chunk *core.Chunk
	err := item.Value(func(val []byte) error {
		var unmarshalErr error
		chunk, unmarshalErr = storage.UnmarshalChunk(val)
		return unmarshalErr
	})
	return chunk, err
}
