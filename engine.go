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


package knowledge

import (
	"io"
	"log/slog"

	"github.com/rjj101202/appalti-knowledge/ai"
	"github.com/rjj101202/appalti-knowledge/ai/openai"
	"github.com/rjj101202/appalti-knowledge/extract"
	"github.com/rjj101202/appalti-knowledge/ingestion"
	"github.com/rjj101202/appalti-knowledge/reembed"
	"github.com/rjj101202/appalti-knowledge/search"
	"github.com/rjj101202/appalti-knowledge/storage"
	"github.com/rjj101202/appalti-knowledge/storage/badger"
	"github.com/rjj101202/appalti-knowledge/storage/qdrant"
)

// Engine is the root aggregate: it owns the storage backend, the
// repositories, the embedding provider and the optional vector index,
// and hands out the pipeline, searcher and reembedder built on them.
type Engine struct {
	backend   *badger.Backend
	documents storage.DocumentRepository
	chunks    storage.ChunkRepository
	index     storage.VectorIndex
	embedder  ai.Embedder
	extractor extract.Extractor
	logger    *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig    *ai.Config
	indexConfig *qdrant.Config
	embedder    ai.Embedder
	index       storage.VectorIndex
	inMemory    bool
}

// WithAIConfig sets the embedding provider configuration.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = config
	}
}

// WithVectorIndexConfig enables the qdrant-backed native index with the
// given configuration. Without it (or WithVectorIndex) the engine runs
// on the fallback scan alone.
func WithVectorIndexConfig(config qdrant.Config) EngineOption {
	return func(o *engineOptions) {
		o.indexConfig = &config
	}
}

// WithVectorIndex supplies an already-built vector index.
func WithVectorIndex(index storage.VectorIndex) EngineOption {
	return func(o *engineOptions) {
		o.index = index
	}
}

// WithEmbedder supplies an already-built embedder, bypassing the
// provider configured via WithAIConfig.
func WithEmbedder(embedder ai.Embedder) EngineOption {
	return func(o *engineOptions) {
		o.embedder = embedder
	}
}

// WithInMemoryStorage keeps all records in memory instead of on disk.
func WithInMemoryStorage() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// NewEngine opens the storage backend at filePath and wires up the
// repositories and the embedding provider.
func NewEngine(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	documentRepo, err := badger.NewDocumentRepository(backend, chunkRepo)
	if err != nil {
		backend.Close()
		return nil, err
	}

	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	index := options.index
	if index == nil && options.indexConfig != nil {
		index, err = qdrant.NewIndex(*options.indexConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	return &Engine{
		backend:   backend,
		documents: documentRepo,
		chunks:    chunkRepo,
		index:     index,
		embedder:  embedder,
		extractor: extract.NewFileExtractor(),
		logger:    slog.Default(),
	}, nil
}

// Close shuts down the vector index and the storage backend. The
// repositories share the backend, so closing it closes them too.
func (e *Engine) Close() error {
	if e.index != nil {
		if err := e.index.Close(); err != nil {
			e.logger.Error("error closing vector index", "err", err)
		}
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (e *Engine) DocumentRepository() storage.DocumentRepository {
	return e.documents
}

func (e *Engine) ChunkRepository() storage.ChunkRepository {
	return e.chunks
}

// VectorIndex returns the native index, or nil when the engine runs
// fallback-only.
func (e *Engine) VectorIndex() storage.VectorIndex {
	return e.index
}

func (e *Engine) NewPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	if e.index != nil {
		opts = append([]ingestion.Option{ingestion.WithVectorIndex(e.index)}, opts...)
	}
	return ingestion.NewPipeline(e.documents, e.chunks, e.extractor, e.embedder, opts...)
}

func (e *Engine) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	if e.index != nil {
		opts = append([]search.Option{search.WithVectorIndex(e.index)}, opts...)
	}
	return search.NewSearcher(e.documents, e.chunks, e.embedder, opts...)
}

// NewReembedder builds a reembedder writing progress to the given
// writer. A nil config selects reembed.DefaultConfig.
func (e *Engine) NewReembedder(config *reembed.Config, progress io.Writer) *reembed.Reembedder {
	if config == nil {
		config = reembed.DefaultConfig()
	}
	return reembed.NewReembedder(e.documents, e.chunks, e.index, e.embedder, config, progress)
}
