package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/rjj101202/appalti-knowledge/ai"
	"github.com/rjj101202/appalti-knowledge/chunk"
	"github.com/rjj101202/appalti-knowledge/core"
	"github.com/rjj101202/appalti-knowledge/extract"
	"github.com/rjj101202/appalti-knowledge/storage"
)

// Pipeline orchestrates the ingestion of source documents.
// Documents in a batch are processed concurrently on a worker pool.
type Pipeline struct {
	documents storage.DocumentRepository
	chunks    storage.ChunkRepository
	index     storage.VectorIndex
	extractor extract.Extractor
	embedder  ai.Embedder
	pool      *ants.Pool
	chunkOpts chunk.Options
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithVectorIndex attaches a native vector index for mirroring chunk
// embeddings. Without one, only the fallback search path serves the data.
func WithVectorIndex(index storage.VectorIndex) Option {
	return func(p *Pipeline) error {
		p.index = index
		return nil
	}
}

// WithChunkOptions overrides the default chunk size and overlap.
func WithChunkOptions(opts chunk.Options) Option {
	return func(p *Pipeline) error {
		if err := opts.Validate(); err != nil {
			return err
		}
		p.chunkOpts = opts
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	documents storage.DocumentRepository,
	chunks storage.ChunkRepository,
	extractor extract.Extractor,
	embedder ai.Embedder,
	opts ...Option,
) (*Pipeline, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		documents: documents,
		chunks:    chunks,
		extractor: extractor,
		embedder:  embedder,
		pool:      pool,
		chunkOpts: chunk.DefaultOptions(),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// IngestBatch ingests a batch of sources. Every source gets its own result;
// a failing document never aborts the rest of the batch.
func (p *Pipeline) IngestBatch(ctx context.Context, sources []Source) (*core.IngestReport, error) {
	report := &core.IngestReport{
		RunID:   uuid.NewString(),
		Results: make([]core.IngestResult, len(sources)),
	}

	logger := p.logger.With("run_id", report.RunID)
	logger.Info("starting ingestion batch", "documents", len(sources))

	var wg sync.WaitGroup
	for i, source := range sources {
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			report.Results[i] = p.runDocument(ctx, source, logger)
		})
		if err != nil {
			// Pool rejected the task (released or overloaded beyond its
			// blocking limit); record the failure in place.
			wg.Done()
			report.Results[i] = failedResult(source, fmt.Errorf("submit ingestion task: %w", err))
		}
	}
	wg.Wait()

	for _, result := range report.Results {
		switch result.Status {
		case core.IngestStatusOK:
			report.Ingested++
		case core.IngestStatusSkipped:
			report.Skipped++
		default:
			report.Failed++
		}
	}

	logger.Info("ingestion batch finished",
		"ingested", report.Ingested, "skipped", report.Skipped, "failed", report.Failed)
	return report, nil
}

// IngestDocument runs the pipeline for a single source synchronously.
func (p *Pipeline) IngestDocument(ctx context.Context, source Source) core.IngestResult {
	return p.runDocument(ctx, source, p.logger)
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// runDocument executes the per-document state machine:
// extract -> checksum compare -> (skip | chunk -> embed -> persist -> mirror).
func (p *Pipeline) runDocument(ctx context.Context, source Source, logger *slog.Logger) core.IngestResult {
	desc := source.Descriptor()
	if err := core.ValidateDescriptor(desc); err != nil {
		return failedResult(source, err)
	}

	logger = logger.With("tenant", desc.TenantID, "title", desc.Title)

	text, err := p.extractor.Extract(ctx, source.Path)
	if err != nil {
		logger.Warn("extraction failed", "err", err)
		return failedResult(source, err)
	}
	if strings.TrimSpace(text) == "" {
		// No document record is created for content-free sources.
		return failedResult(source, fmt.Errorf("%w: %s", core.ErrEmptyContent, source.Path))
	}

	newChecksum := chunk.ChecksumString(text)
	if desc.Size == 0 {
		desc.Size = int64(len(text))
	}

	existing, err := p.documents.GetByNaturalKey(ctx, desc.TenantID, desc.NaturalKey())
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return failedResult(source, err)
	}
	if !source.Force && existing != nil && existing.Checksum == newChecksum {
		logger.Debug("content unchanged, skipping")
		return core.IngestResult{
			Title:      desc.Title,
			Path:       source.Path,
			Status:     core.IngestStatusSkipped,
			DocumentID: existing.Id,
			Reason:     "content unchanged",
		}
	}

	texts := chunk.Split(text, p.chunkOpts.Size, p.chunkOpts.Overlap)
	if len(texts) == 0 {
		return failedResult(source, fmt.Errorf("%w: no chunks after split", core.ErrEmptyContent))
	}

	// One provider round-trip per document.
	embeddings, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		logger.Warn("embedding failed", "err", err)
		return failedResult(source, err)
	}
	if len(embeddings) != len(texts) {
		return failedResult(source, fmt.Errorf("%w: %d embeddings for %d chunks",
			ai.ErrProvider, len(embeddings), len(texts)))
	}

	// The stored checksum must always describe the stored chunk set. The
	// document keeps its previous checksum until ReplaceChunks commits;
	// a failed replace therefore leaves the old checksum in place, and a
	// retry of the same content is not mistaken for "unchanged".
	if existing != nil {
		desc.Checksum = existing.Checksum
	}
	doc, err := p.documents.Upsert(ctx, desc)
	if err != nil {
		return failedResult(source, err)
	}

	chunks := make([]*core.Chunk, len(texts))
	for i, chunkText := range texts {
		chunks[i] = &core.Chunk{
			DocumentID: doc.Id,
			TenantID:   doc.TenantID,
			Scope:      doc.Scope,
			CompanyID:  doc.CompanyID,
			Index:      i,
			Text:       chunkText,
			Embedding:  embeddings[i],
		}
	}
	if err := p.chunks.ReplaceChunks(ctx, doc.TenantID, doc.Id, chunks); err != nil {
		return failedResult(source, err)
	}

	desc.Checksum = newChecksum
	doc, err = p.documents.Upsert(ctx, desc)
	if err != nil {
		return failedResult(source, err)
	}

	p.mirrorToIndex(ctx, doc, chunks, logger)

	logger.Info("document ingested", "document", doc.Id, "chunks", len(chunks))
	return core.IngestResult{
		Title:      desc.Title,
		Path:       source.Path,
		Status:     core.IngestStatusOK,
		DocumentID: doc.Id,
		Chunks:     len(chunks),
	}
}

// mirrorToIndex refreshes the native index for one document. The store has
// already committed; index failures are logged and swallowed so the
// fallback path keeps serving the document.
func (p *Pipeline) mirrorToIndex(ctx context.Context, doc *core.Document, chunks []*core.Chunk, logger *slog.Logger) {
	if p.index == nil {
		return
	}
	// A failed remove does not block the upsert: point IDs are stable
	// chunk IDs, so indexing overwrites in place either way.
	if err := p.index.RemoveDocument(ctx, doc.TenantID, doc.Id); err != nil {
		logger.Warn("could not clear document from index", "document", doc.Id, "err", err)
	}
	if err := p.index.IndexChunks(ctx, chunks); err != nil {
		logger.Warn("could not mirror chunks into index", "document", doc.Id, "err", err)
	}
}

func failedResult(source Source, err error) core.IngestResult {
	title := source.Title
	if title == "" {
		title = source.Path
	}
	return core.IngestResult{
		Title:  title,
		Path:   source.Path,
		Status: core.IngestStatusFailed,
		Reason: err.Error(),
		Err:    err,
	}
}
