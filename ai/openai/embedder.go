package openai

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rjj101202/appalti-knowledge/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
//
// The underlying client is bound to one credential; when the configured
// TokenSource rotates the credential, the client is rebuilt on the next
// call so long-lived processes keep working across token refreshes.
type Embedder struct {
	config *ai.Config
	logger *slog.Logger

	mu       sync.Mutex
	token    string
	embedder embeddings.Embedder
}

var _ ai.Embedder = (*Embedder)(nil)

// NewEmbedder creates an embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Embedder{
		config: config,
		logger: slog.Default().With("component", "openai-embedder"),
	}, nil
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: empty response for single text", ai.ErrProvider)
	}
	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in one
// batched provider call, preserving input order.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	client, err := e.client(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.config.RequestTimeout)
	defer cancel()

	e.logger.Debug("generating embeddings", "count", len(texts))
	vectors, err := client.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, fmt.Errorf("%w: %w", ai.ErrProvider, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d vectors, received %d", ai.ErrProvider, len(texts), len(vectors))
	}
	return vectors, nil
}

// client returns the current langchaingo embedder, rebuilding it when the
// credential has rotated since the last call.
func (e *Embedder) client(ctx context.Context) (embeddings.Embedder, error) {
	token, err := e.config.Tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: credential refresh failed: %w", ai.ErrProvider, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.embedder != nil && e.token == token {
		return e.embedder, nil
	}

	llm, err := openai.New(
		openai.WithBaseURL(e.config.Host),
		openai.WithToken(token),
		openai.WithEmbeddingModel(e.config.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrProvider, err)
	}

	embedder, err := embeddings.NewEmbedder(llm, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrProvider, err)
	}

	if e.embedder != nil {
		e.logger.Info("embedding credential rotated, client rebuilt")
	}
	e.token = token
	e.embedder = embedder
	return embedder, nil
}
