package qdrant

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/qdrant/go-client/qdrant"
	"github.com/rjj101202/appalti-knowledge/core"
	"github.com/rjj101202/appalti-knowledge/storage"
)

const (
	// DefaultCollection is the collection holding all chunk embeddings.
	DefaultCollection = "knowledge_chunks"

	// DefaultVectorSize matches text-embedding-3-small.
	DefaultVectorSize = 1536

	availabilityTimeout = 2 * time.Second
)

// Config holds the connection settings for a Qdrant index.
type Config struct {
	Host       string
	Port       int
	UseTLS     bool
	PoolSize   uint
	Collection string
	VectorSize uint64
}

// Validate normalizes the config, filling defaults for unset fields.
func (c *Config) Validate() error {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 6334
	}
	if c.PoolSize == 0 {
		c.PoolSize = 4
	}
	if c.Collection == "" {
		c.Collection = DefaultCollection
	}
	if c.VectorSize == 0 {
		c.VectorSize = DefaultVectorSize
	}
	return nil
}

// Index implements storage.VectorIndex on a Qdrant collection.
type Index struct {
	client     *qdrant.Client
	collection string
	vectorSize uint64
	logger     *slog.Logger

	mu      sync.Mutex
	ensured bool
}

var _ storage.VectorIndex = (*Index)(nil)

// NewIndex connects to a Qdrant server. The connection is lazy: a server
// that is down at construction time surfaces through Available, not here.
func NewIndex(cfg Config) (*Index, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		UseTLS:   cfg.UseTLS,
		PoolSize: cfg.PoolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: connect qdrant: %w", storage.ErrIndexUnavailable, err)
	}

	return &Index{
		client:     client,
		collection: cfg.Collection,
		vectorSize: cfg.VectorSize,
		logger:     slog.Default().With("component", "qdrant-index"),
	}, nil
}

// Close closes the underlying gRPC client.
func (i *Index) Close() error {
	return i.client.Close()
}

// Available reports whether the index can currently serve queries.
// An unreachable server or a missing collection both report false.
func (i *Index) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, availabilityTimeout)
	defer cancel()

	exists, err := i.client.CollectionExists(ctx, i.collection)
	if err != nil {
		i.logger.Debug("index availability probe failed", "error", err)
		return false
	}
	return exists
}

// IndexChunks upserts the given chunks into the collection.
func (i *Index) IndexChunks(ctx context.Context, chunks []*core.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if err := i.ensureCollection(ctx); err != nil {
		return err
	}

	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for _, chunk := range chunks {
		if len(chunk.Embedding) == 0 {
			return fmt.Errorf("%w: chunk %d has no embedding", storage.ErrStore, chunk.Id)
		}
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(chunk.Id)),
			Vectors: qdrant.NewVectors(chunk.Embedding...),
			Payload: qdrant.NewValueMap(map[string]any{
				"tenant_id":   chunk.TenantID,
				"scope":       string(chunk.Scope),
				"company_id":  chunk.CompanyID,
				"document_id": int64(chunk.DocumentID),
				"chunk_index": int64(chunk.Index),
				"text":        chunk.Text,
			}),
		})
	}

	_, err := i.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: i.collection,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("%w: upsert points: %w", storage.ErrIndexUnavailable, err)
	}
	return nil
}

// RemoveDocument deletes every indexed chunk of a document. The
// collection is created first when missing, so a fresh server can
// bootstrap from the mirror's remove-then-index sequence.
func (i *Index) RemoveDocument(ctx context.Context, tenantID string, documentID core.ID) error {
	if err := i.ensureCollection(ctx); err != nil {
		return err
	}
	_, err := i.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: i.collection,
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("tenant_id", tenantID),
				qdrant.NewMatchInt("document_id", int64(documentID)),
			},
		}),
		Wait: qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("%w: delete points: %w", storage.ErrIndexUnavailable, err)
	}
	return nil
}

// Query returns up to topK chunks admitted by the filter, ordered by cosine
// similarity to the vector. The scope filter is compiled into a Qdrant
// filter so exclusion happens server-side.
func (i *Index) Query(ctx context.Context, filter core.ScopeFilter, vector []float32, topK int) ([]core.ChunkMatch, error) {
	if err := core.ValidateScopeFilter(filter); err != nil {
		return nil, err
	}
	if topK <= 0 {
		return nil, nil
	}

	hits, err := i.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: i.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
		Filter:         scopeCondition(filter),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: query: %w", storage.ErrIndexUnavailable, err)
	}

	matches := make([]core.ChunkMatch, 0, len(hits))
	for _, hit := range hits {
		chunk := &core.Chunk{
			Id:         core.ID(hit.Id.GetNum()),
			DocumentID: core.ID(hit.Payload["document_id"].GetIntegerValue()),
			TenantID:   hit.Payload["tenant_id"].GetStringValue(),
			Scope:      core.Scope(hit.Payload["scope"].GetStringValue()),
			CompanyID:  hit.Payload["company_id"].GetStringValue(),
			Index:      int(hit.Payload["chunk_index"].GetIntegerValue()),
			Text:       hit.Payload["text"].GetStringValue(),
		}
		// Server-side filtering is trusted but re-verified; a chunk the
		// filter does not admit is dropped, never returned.
		if !filter.Admits(chunk) {
			i.logger.Warn("index returned out-of-scope chunk, dropped",
				"chunk", chunk.Id, "tenant", chunk.TenantID)
			continue
		}
		matches = append(matches, core.ChunkMatch{Chunk: chunk, Score: hit.Score})
	}
	return matches, nil
}

// scopeCondition compiles a core.ScopeFilter into a Qdrant filter.
//
// Horizontal chunks carry an empty company_id, so a company_id match alone
// selects exactly the vertical chunks of that company.
func scopeCondition(filter core.ScopeFilter) *qdrant.Filter {
	must := []*qdrant.Condition{
		qdrant.NewMatch("tenant_id", filter.TenantID),
	}

	switch {
	case filter.CompanyID == "":
		must = append(must, qdrant.NewMatch("scope", string(core.ScopeHorizontal)))
		return &qdrant.Filter{Must: must}
	case filter.IncludeShared:
		return &qdrant.Filter{
			Must: must,
			Should: []*qdrant.Condition{
				qdrant.NewMatch("company_id", filter.CompanyID),
				qdrant.NewMatch("scope", string(core.ScopeHorizontal)),
			},
		}
	default:
		must = append(must,
			qdrant.NewMatch("scope", string(core.ScopeVertical)),
			qdrant.NewMatch("company_id", filter.CompanyID),
		)
		return &qdrant.Filter{Must: must}
	}
}

// ensureCollection creates the collection on first use.
func (i *Index) ensureCollection(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.ensured {
		return nil
	}

	exists, err := i.client.CollectionExists(ctx, i.collection)
	if err != nil {
		return fmt.Errorf("%w: probe collection: %w", storage.ErrIndexUnavailable, err)
	}
	if !exists {
		err = i.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: i.collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     i.vectorSize,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("%w: create collection: %w", storage.ErrIndexUnavailable, err)
		}
		i.logger.Info("created collection", "collection", i.collection, "vector_size", i.vectorSize)
	}

	i.ensured = true
	return nil
}
