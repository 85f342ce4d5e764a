package search

import (
	"context"
	"log/slog"
	"sort"

	"github.com/rjj101202/appalti-knowledge/ai"
	"github.com/rjj101202/appalti-knowledge/core"
	"github.com/rjj101202/appalti-knowledge/storage"
)

// Searcher provides scoped semantic retrieval over stored chunks.
type Searcher struct {
	documents storage.DocumentRepository
	chunks    storage.ChunkRepository
	index     storage.VectorIndex
	embedder  ai.Embedder
	logger    *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithVectorIndex attaches a native vector index. Without one every search
// uses the fallback scan.
func WithVectorIndex(index storage.VectorIndex) Option {
	return func(s *Searcher) error {
		s.index = index
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	documents storage.DocumentRepository,
	chunks storage.ChunkRepository,
	embedder ai.Embedder,
	opts ...Option,
) (*Searcher, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		documents: documents,
		chunks:    chunks,
		embedder:  embedder,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search retrieves up to topK snippets matching the query within the
// caller's scope, ranked by similarity.
func (s *Searcher) Search(ctx context.Context, query string, filter core.ScopeFilter, topK int) ([]*core.Snippet, error) {
	return s.SearchWithMonitor(ctx, query, filter, topK, nil)
}

// SearchWithMonitor retrieves snippets with monitoring. The monitor
// receives callbacks at each stage of the search process.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, filter core.ScopeFilter, topK int, monitor SearchMonitor) ([]*core.Snippet, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if err := core.ValidateScopeFilter(filter); err != nil {
		return nil, err
	}
	if topK <= 0 {
		return []*core.Snippet{}, nil
	}

	monitor.Start(query)

	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "err", err)
		return nil, err
	}

	strategy := selectStrategy(ctx, s.index)
	monitor.StrategySelected(strategy)

	var matches []core.ChunkMatch
	if strategy == NativeIndexAvailable {
		matches, err = s.index.Query(ctx, filter, vector, topK)
		if err != nil {
			// The index went away between the probe and the query; the
			// store is authoritative, so degrade instead of failing.
			s.logger.Warn("native index query failed, degrading to scan", "err", err)
			monitor.Degraded(err.Error())
			strategy = FallbackRequired
		}
	}
	if strategy == FallbackRequired {
		if s.index == nil {
			s.logger.Debug("no vector index configured, scanning candidates")
		}
		matches, err = s.scanAndScore(ctx, filter, vector)
		if err != nil {
			return nil, err
		}
	}

	rankMatches(matches)
	if len(matches) > topK {
		matches = matches[:topK]
	}
	monitor.AfterRanking(matches)

	results := s.enrich(ctx, filter.TenantID, matches)
	monitor.Finish(results)
	return results, nil
}

// Context returns the chunks surrounding one chunk of a document:
// indices index-window .. index+window, in order. Neighbors that do not
// exist are omitted.
func (s *Searcher) Context(ctx context.Context, tenantID string, documentID core.ID, index, window int) ([]*core.Chunk, error) {
	if window < 0 {
		window = 0
	}
	return s.chunks.GetChunkRange(ctx, tenantID, documentID, index-window, index+window)
}

// scanAndScore is the fallback path: score every admitted chunk against
// the query vector. Chunks that were never embedded are skipped.
func (s *Searcher) scanAndScore(ctx context.Context, filter core.ScopeFilter, vector []float32) ([]core.ChunkMatch, error) {
	var matches []core.ChunkMatch
	err := s.chunks.ScanCandidates(ctx, filter, func(chunk *core.Chunk) error {
		if len(chunk.Embedding) == 0 {
			return nil
		}
		score := cosineSimilarity(vector, chunk.Embedding)
		matches = append(matches, core.ChunkMatch{Chunk: chunk, Score: score})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// rankMatches orders by score descending; ties break by ascending chunk
// index, then document ID, so equal-score results are deterministic.
func rankMatches(matches []core.ChunkMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if matches[i].Chunk.Index != matches[j].Chunk.Index {
			return matches[i].Chunk.Index < matches[j].Chunk.Index
		}
		return matches[i].Chunk.DocumentID < matches[j].Chunk.DocumentID
	})
}

// enrich attaches parent document metadata to each match. A document that
// cannot be resolved leaves the snippet's metadata empty; the snippet is
// kept either way.
func (s *Searcher) enrich(ctx context.Context, tenantID string, matches []core.ChunkMatch) []*core.Snippet {
	docs := make(map[core.ID]*core.Document)

	results := make([]*core.Snippet, 0, len(matches))
	for _, match := range matches {
		// Result payloads never carry embeddings. The chunk is copied so
		// stripping does not reach back into the store or the index.
		chunk := *match.Chunk
		chunk.Embedding = nil
		snippet := &core.Snippet{
			Chunk: &chunk,
			Score: match.Score,
		}

		doc, seen := docs[match.Chunk.DocumentID]
		if !seen {
			var err error
			doc, err = s.documents.Get(ctx, tenantID, match.Chunk.DocumentID)
			if err != nil {
				s.logger.Warn("could not resolve parent document",
					"document", match.Chunk.DocumentID, "err", err)
				doc = nil
			}
			docs[match.Chunk.DocumentID] = doc
		}
		if doc != nil {
			snippet.Title = doc.Title
			snippet.SourceURL = doc.SourceURL
			snippet.Path = doc.Path
		}

		results = append(results, snippet)
	}
	return results
}
