package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error wrapping ErrProvider if the generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in
	// one batched provider call. The returned slice contains embeddings in
	// the same order as the input texts; a count mismatch is a provider
	// error. Returns an error wrapping ErrProvider on failure.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
