package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/rjj101202/appalti-knowledge/ai"
	"github.com/rjj101202/appalti-knowledge/core"
	"github.com/rjj101202/appalti-knowledge/storage"
)

// BatchProcessor regenerates embeddings for one document's chunk set.
type BatchProcessor struct {
	chunks         storage.ChunkRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(chunks storage.ChunkRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		chunks:         chunks,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process re-embeds a document's chunks and writes them back through the
// chunk store's atomic replacement. Vectors are normalized after embedding
// to ensure compatibility with cosine similarity. Chunk IDs are preserved,
// so a native index overwrites its points in place on re-mirroring.
func (bp *BatchProcessor) Process(ctx context.Context, tenantID string, documentID core.ID, chunks []*core.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(embeddings))
	}

	for i := range chunks {
		chunks[i].Embedding = NormalizeVector(embeddings[i])
	}

	if err := bp.chunks.ReplaceChunks(ctx, tenantID, documentID, chunks); err != nil {
		return fmt.Errorf("failed to update chunks: %w", err)
	}

	return nil
}
