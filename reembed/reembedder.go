// Copyright 2025 Appalti
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reembed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/rjj101202/appalti-knowledge/ai"
	"github.com/rjj101202/appalti-knowledge/core"
	"github.com/rjj101202/appalti-knowledge/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// ReportInterval is how often to report progress (number of chunks)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder orchestrates the reembedding of a tenant's stored chunks.
type Reembedder struct {
	documents storage.DocumentRepository
	chunks    storage.ChunkRepository
	index     storage.VectorIndex
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *DocumentIterator
	logger    *slog.Logger
}

// NewReembedder creates a new reembedder.
// index may be nil when the deployment runs without a native index.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(documents storage.DocumentRepository, chunks storage.ChunkRepository, index storage.VectorIndex, embedder ai.Embedder, config *Config, progress io.Writer) *Reembedder {
	if config == nil {
		config = DefaultConfig()
	}

	return &Reembedder{
		documents: documents,
		chunks:    chunks,
		index:     index,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(chunks, embedder, config.MaxRetries, config.RetryDelay),
		iterator:  NewDocumentIterator(documents, chunks),
		logger:    slog.Default().With("component", "reembedder"),
	}
}

// Run reembeds every chunk of the tenant, one document batch at a time.
// Progress is reported to the configured writer.
func (r *Reembedder) Run(ctx context.Context, tenantID string) error {
	docs, err := r.documents.List(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	totalChunks := 0
	for _, doc := range docs {
		count, err := r.chunks.CountChunks(ctx, tenantID, doc.Id)
		if err != nil {
			return fmt.Errorf("failed to count chunks: %w", err)
		}
		totalChunks += count
	}

	if totalChunks == 0 {
		fmt.Fprintf(r.progress, "No chunks found for tenant %s (0 chunks)\n", tenantID)
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d chunks across %d documents\n",
		totalChunks, len(docs))

	tracker := NewProgressTracker(r.progress, totalChunks, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = r.iterator.ForEach(ctx, tenantID, func(doc *core.Document, chunks []*core.Chunk) error {
		if err := r.processor.Process(ctx, tenantID, doc.Id, chunks); err != nil {
			return fmt.Errorf("failed to process document %d: %w", doc.Id, err)
		}

		r.mirror(ctx, doc, chunks)

		processed += len(chunks)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d chunks in %v (%.1f chunks/sec)\n",
		totalChunks, elapsed.Round(time.Second), float64(totalChunks)/elapsed.Seconds())

	return nil
}

// mirror refreshes the native index for a reembedded document. The chunk
// store has already committed, so index failures are logged, not fatal.
func (r *Reembedder) mirror(ctx context.Context, doc *core.Document, chunks []*core.Chunk) {
	if r.index == nil {
		return
	}
	// A failed remove does not block the upsert: point IDs are stable
	// chunk IDs, so indexing overwrites in place either way.
	if err := r.index.RemoveDocument(ctx, doc.TenantID, doc.Id); err != nil {
		r.logger.Warn("could not clear document from index", "document", doc.Id, "err", err)
	}
	if err := r.index.IndexChunks(ctx, chunks); err != nil {
		r.logger.Warn("could not re-mirror chunks", "document", doc.Id, "err", err)
	}
}
