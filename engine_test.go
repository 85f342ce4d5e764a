package knowledge

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rjj101202/appalti-knowledge/ai/mock"
	"github.com/rjj101202/appalti-knowledge/core"
	"github.com/rjj101202/appalti-knowledge/ingestion"
)

func TestNewEngine(t *testing.T) {
	t.Run("create new engine", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		engine, err := NewEngine(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, engine)
		defer engine.Close()

		// Verify components are initialized
		assert.NotNil(t, engine.DocumentRepository())
		assert.NotNil(t, engine.ChunkRepository())
		assert.Nil(t, engine.VectorIndex())
		assert.NotNil(t, engine.backend)
		assert.NotNil(t, engine.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// Try to open at a file path instead of a directory
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		engine, err := NewEngine(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, engine)
	})
}

func TestEngine_Close(t *testing.T) {
	engine, err := NewEngine(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, engine)

	err = engine.Close()
	assert.NoError(t, err)
}

func TestEngine_FactoryMethods(t *testing.T) {
	engine, err := NewEngine(t.TempDir(), WithInMemoryStorage())
	require.NoError(t, err)
	require.NotNil(t, engine)
	defer engine.Close()

	t.Run("can create ingestion pipeline", func(t *testing.T) {
		pipeline, err := engine.NewPipeline()
		require.NoError(t, err)
		require.NotNil(t, pipeline)
		pipeline.Release()
	})

	t.Run("can create searcher", func(t *testing.T) {
		searcher, err := engine.NewSearcher()
		require.NoError(t, err)
		require.NotNil(t, searcher)
	})

	t.Run("can create reembedder", func(t *testing.T) {
		reembedder := engine.NewReembedder(nil, os.Stderr)
		require.NotNil(t, reembedder)
	})
}

func TestEngine_EndToEnd(t *testing.T) {
	ctx := context.Background()

	engine, err := NewEngine(t.TempDir(), WithInMemoryStorage(), WithEmbedder(mock.NewMockEmbedder()))
	require.NoError(t, err)
	defer engine.Close()

	path := filepath.Join(t.TempDir(), "handbook.txt")
	require.NoError(t, os.WriteFile(path, []byte("Tender deadlines are strict. Submit before noon."), 0644))

	pipeline, err := engine.NewPipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	result := pipeline.IngestDocument(ctx, ingestion.Source{
		TenantID:  "tenant-a",
		Scope:     core.ScopeVertical,
		CompanyID: "company-1",
		Title:     "Handbook",
		Path:      path,
		MimeType:  "text/plain",
	})
	require.NoError(t, result.Err)
	require.Equal(t, core.IngestStatusOK, result.Status)

	searcher, err := engine.NewSearcher()
	require.NoError(t, err)

	snippets, err := searcher.Search(ctx, "Tender deadlines are strict. Submit before noon.", core.ScopeFilter{
		TenantID:  "tenant-a",
		CompanyID: "company-1",
	}, 5)
	require.NoError(t, err)
	require.NotEmpty(t, snippets)
	assert.Equal(t, "Handbook", snippets[0].Title)
}
