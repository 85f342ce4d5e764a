package storage

import (
	"testing"
	"time"

	"github.com/rjj101202/appalti-knowledge/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("tender document")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.Error(t, err)
}

func TestMarshalUnmarshalDocument(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name string
		doc  *core.Document
	}{
		{
			name: "horizontal document",
			doc: &core.Document{
				Id:        core.ID(1),
				TenantID:  "tenant-a",
				Scope:     core.ScopeHorizontal,
				Title:     "Algemene voorwaarden",
				Path:      "/uploads/voorwaarden.pdf",
				SourceURL: "https://example.com/voorwaarden.pdf",
				MimeType:  "application/pdf",
				Size:      2048,
				Checksum:  "abc123",
				CreatedAt: now,
				UpdatedAt: now,
			},
		},
		{
			name: "vertical document",
			doc: &core.Document{
				Id:        core.ID(77),
				TenantID:  "tenant-a",
				Scope:     core.ScopeVertical,
				CompanyID: "company-1",
				Title:     "Bestek 2025",
				Path:      "/uploads/bestek.docx",
				Checksum:  "def456",
				CreatedAt: now,
				UpdatedAt: now,
			},
		},
		{
			name: "empty optional fields",
			doc: &core.Document{
				Id:        core.ID(3),
				TenantID:  "tenant-b",
				Scope:     core.ScopeHorizontal,
				Title:     "Notes",
				Path:      "notes.txt",
				CreatedAt: now,
				UpdatedAt: now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalDocument(tt.doc)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalDocument(data)
			require.NoError(t, err)
			assert.Equal(t, tt.doc, decoded)
		})
	}
}

func TestUnmarshalDocument_Invalid(t *testing.T) {
	_, err := UnmarshalDocument([]byte{0x01})
	assert.Error(t, err)
}

func TestMarshalUnmarshalChunk(t *testing.T) {
	tests := []struct {
		name  string
		chunk *core.Chunk
	}{
		{
			name: "chunk with embedding",
			chunk: &core.Chunk{
				Id:         core.ID(10),
				DocumentID: core.ID(1),
				TenantID:   "tenant-a",
				Scope:      core.ScopeVertical,
				CompanyID:  "company-1",
				Index:      0,
				Text:       "De aanbestedende dienst behoudt zich het recht voor",
				Embedding:  []float32{0.1, -0.5, 0.33, 0.0},
			},
		},
		{
			name: "chunk without embedding",
			chunk: &core.Chunk{
				Id:         core.ID(11),
				DocumentID: core.ID(1),
				TenantID:   "tenant-a",
				Scope:      core.ScopeHorizontal,
				Index:      3,
				Text:       "slotbepalingen",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalChunk(tt.chunk)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalChunk(data)
			require.NoError(t, err)
			assert.Equal(t, tt.chunk.Id, decoded.Id)
			assert.Equal(t, tt.chunk.DocumentID, decoded.DocumentID)
			assert.Equal(t, tt.chunk.TenantID, decoded.TenantID)
			assert.Equal(t, tt.chunk.Scope, decoded.Scope)
			assert.Equal(t, tt.chunk.CompanyID, decoded.CompanyID)
			assert.Equal(t, tt.chunk.Index, decoded.Index)
			assert.Equal(t, tt.chunk.Text, decoded.Text)
			assert.Equal(t, len(tt.chunk.Embedding), len(decoded.Embedding))
			for i := range tt.chunk.Embedding {
				assert.Equal(t, tt.chunk.Embedding[i], decoded.Embedding[i])
			}
		})
	}
}

func TestUnmarshalChunk_Invalid(t *testing.T) {
	_, err := UnmarshalChunk([]byte{})
	assert.Error(t, err)
}

func TestRoundTripConsistency(t *testing.T) {
	// Marshal output must be byte-stable for identical input.
	doc := &core.Document{
		Id:        core.ID(5),
		TenantID:  "tenant-a",
		Scope:     core.ScopeHorizontal,
		Title:     "Handleiding",
		Path:      "/docs/handleiding.md",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	assert.Equal(t, MarshalDocument(doc), MarshalDocument(doc))

	chunk := &core.Chunk{Id: 9, DocumentID: 5, TenantID: "tenant-a", Scope: core.ScopeHorizontal, Text: "x", Embedding: []float32{1, 2}}
	assert.Equal(t, MarshalChunk(chunk), MarshalChunk(chunk))
}
