package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rjj101202/appalti-knowledge/core"
	"github.com/rjj101202/appalti-knowledge/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
	chunks  *ChunkRepository
	idSeq   *badger.Sequence
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository. The chunk
// repository is needed for delete cascades.
func NewDocumentRepository(backend *Backend, chunks *ChunkRepository) (*DocumentRepository, error) {
	idSeq, err := backend.GetSequence(documentIDSeq)
	if err != nil {
		return nil, err
	}

	return &DocumentRepository{
		backend: backend,
		chunks:  chunks,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *DocumentRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *DocumentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// Upsert creates or updates the document identified by the descriptor's
// natural key. An existing document keeps its ID and CreatedAt.
func (r *DocumentRepository) Upsert(ctx context.Context, desc *core.DocumentDescriptor) (*core.Document, error) {
	if err := core.ValidateDescriptor(desc); err != nil {
		return nil, err
	}

	naturalKey := desc.NaturalKey()
	now := time.Now().UTC()

	var result *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		existing, err := r.lookupByNaturalKey(tx, desc.TenantID, naturalKey)
		if err != nil {
			return err
		}

		if existing != nil {
			existing.SourceURL = desc.SourceURL
			existing.MimeType = desc.MimeType
			existing.Size = desc.Size
			existing.Checksum = desc.Checksum
			existing.UpdatedAt = now
			result = existing
		} else {
			nextID, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			result = &core.Document{
				Id:        core.ID(nextID),
				TenantID:  desc.TenantID,
				Scope:     desc.Scope,
				CompanyID: desc.CompanyID,
				Title:     desc.Title,
				Path:      desc.Path,
				SourceURL: desc.SourceURL,
				MimeType:  desc.MimeType,
				Size:      desc.Size,
				Checksum:  desc.Checksum,
				CreatedAt: now,
				UpdatedAt: now,
			}
		}

		key := makeDocumentKey(result.TenantID, result.Id)
		if err := tx.Set(key, storage.MarshalDocument(result)); err != nil {
			return err
		}

		nkKey := makeNaturalKeyKey(result.TenantID, naturalKey)
		if err := tx.Set(nkKey, storage.MarshalID(result.Id)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)

	if err != nil {
		return nil, fmt.Errorf("%w: upsert document: %w", storage.ErrStore, err)
	}
	return result, nil
}

// Get retrieves a single document by ID within a tenant.
func (r *DocumentRepository) Get(ctx context.Context, tenantID string, id core.ID) (*core.Document, error) {
	var result *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readDocument(tx, makeDocumentKey(tenantID, id))
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

// GetByNaturalKey retrieves a document by its natural-key digest.
func (r *DocumentRepository) GetByNaturalKey(ctx context.Context, tenantID string, key core.ID) (*core.Document, error) {
	var result *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.lookupByNaturalKey(tx, tenantID, key)
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

// List retrieves all documents of a tenant, ordered by ID.
func (r *DocumentRepository) List(ctx context.Context, tenantID string) ([]*core.Document, error) {
	var results []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeDocumentTenantPrefix(tenantID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var doc *core.Document
			err := iter.Item().Value(func(val []byte) error {
				var err error
				doc, err = storage.UnmarshalDocument(val)
				return err
			})
			if err != nil {
				return err
			}
			if doc != nil && doc.TenantID == tenantID {
				results = append(results, doc)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, fmt.Errorf("%w: list documents: %w", storage.ErrStore, err)
	}
	return results, nil
}

// Delete removes a document, its natural-key index entry and all its chunks.
func (r *DocumentRepository) Delete(ctx context.Context, tenantID string, id core.ID) error {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(tenantID, id)
		doc, err := readDocument(tx, key)
		if err != nil {
			return err
		}
		if doc == nil {
			return storage.ErrNotFound
		}

		nkKey := makeNaturalKeyKey(tenantID, doc.NaturalKey())
		if err := tx.Delete(nkKey); err != nil {
			return err
		}
		if err := tx.Delete(makeGenerationKey(tenantID, id)); err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	// Cascade: drop every chunk generation of the document.
	return r.chunks.deleteAllChunks(tenantID, id)
}

// lookupByNaturalKey resolves the natural-key index to a full document.
// Returns nil when no entry exists.
func (r *DocumentRepository) lookupByNaturalKey(tx *badger.Txn, tenantID string, key core.ID) (*core.Document, error) {
	item, err := tx.Get(makeNaturalKeyKey(tenantID, key))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var docID core.ID
	if err := item.Value(func(val []byte) error {
		var err error
		docID, err = storage.UnmarshalID(val)
		return err
	}); err != nil {
		return nil, err
	}

	return readDocument(tx, makeDocumentKey(tenantID, docID))
}

// readDocument reads a document from the transaction.
// Returns nil when the key does not exist.
func readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var doc *core.Document
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		doc, unmarshalErr = storage.UnmarshalDocument(val)
		return unmarshalErr
	})
	return doc, err
}
