package storage

import (
	"context"

	"github.com/rjj101202/appalti-knowledge/core"
)

// Repository provides common storage operations shared across all
// repositories. Implementations must be thread-safe and support concurrent
// access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// DocumentRepository provides operations for managing documents.
type DocumentRepository interface {
	Repository

	// Upsert creates or updates the document identified by the descriptor's
	// natural key (tenant, scope, company, title, path). An existing
	// document keeps its ID and CreatedAt; metadata, checksum and UpdatedAt
	// are replaced. A new document gets a sequence-generated ID.
	Upsert(ctx context.Context, desc *core.DocumentDescriptor) (*core.Document, error)

	// Get retrieves a single document by ID within a tenant.
	// Returns ErrNotFound if the document doesn't exist or belongs to
	// another tenant.
	Get(ctx context.Context, tenantID string, id core.ID) (*core.Document, error)

	// GetByNaturalKey retrieves a document by its natural-key digest.
	// Returns ErrNotFound if no document with that key exists.
	GetByNaturalKey(ctx context.Context, tenantID string, key core.ID) (*core.Document, error)

	// List retrieves all documents of a tenant, ordered by ID.
	List(ctx context.Context, tenantID string) ([]*core.Document, error)

	// Delete removes a document and all its chunks.
	// Returns ErrNotFound if the document doesn't exist.
	Delete(ctx context.Context, tenantID string, id core.ID) error
}

// ChunkRepository provides operations for managing a document's chunk set.
type ChunkRepository interface {
	Repository

	// ReplaceChunks atomically replaces the full chunk set of a document.
	// Readers observe either the previous complete set or the new complete
	// set, never a mix. Chunk indices must form a contiguous 0..N-1 range;
	// ErrNonContiguousChunks otherwise. An empty slice clears the set.
	ReplaceChunks(ctx context.Context, tenantID string, documentID core.ID, chunks []*core.Chunk) error

	// GetChunks retrieves all chunks of a document, ordered by Index.
	GetChunks(ctx context.Context, tenantID string, documentID core.ID) ([]*core.Chunk, error)

	// GetChunkRange retrieves the chunks of a document whose Index lies in
	// [from, to], ordered by Index. Out-of-range bounds are clamped.
	GetChunkRange(ctx context.Context, tenantID string, documentID core.ID, from, to int) ([]*core.Chunk, error)

	// ScanCandidates streams every chunk admitted by the filter to fn.
	// Iteration stops when fn returns an error, which is propagated.
	// Used by the fallback search path; embeddings are included.
	ScanCandidates(ctx context.Context, filter core.ScopeFilter, fn func(*core.Chunk) error) error

	// CountChunks returns the number of stored chunks for a document.
	CountChunks(ctx context.Context, tenantID string, documentID core.ID) (int, error)
}

// VectorIndex abstracts a native approximate-similarity index that mirrors
// chunk embeddings. The engine treats it as an optional accelerator: when
// Available reports false, retrieval falls back to scanning the
// ChunkRepository.
type VectorIndex interface {
	// Available reports whether the index can currently serve queries.
	Available(ctx context.Context) bool

	// IndexChunks upserts the given chunks into the index. Chunks already
	// present (same ID) are overwritten.
	IndexChunks(ctx context.Context, chunks []*core.Chunk) error

	// RemoveDocument deletes every indexed chunk of a document.
	RemoveDocument(ctx context.Context, tenantID string, documentID core.ID) error

	// Query returns up to topK chunks admitted by the filter, ordered by
	// cosine similarity to the vector (highest first). Returned chunks
	// carry no embedding.
	Query(ctx context.Context, filter core.ScopeFilter, vector []float32, topK int) ([]core.ChunkMatch, error)

	// Close releases the index client's resources.
	Close() error
}
