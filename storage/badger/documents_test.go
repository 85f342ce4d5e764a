package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/rjj101202/appalti-knowledge/core"
	"github.com/rjj101202/appalti-knowledge/storage"
)

func TestDocumentUpsertBasics(t *testing.T) {
	docRepo, chunkRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { docRepo.Close(); chunkRepo.Close(); backend.Close() }()

	ctx := context.Background()

	desc := &core.DocumentDescriptor{
		TenantID: "tenant-a",
		Scope:    core.ScopeHorizontal,
		Title:    "Inkoopvoorwaarden",
		Path:     "/uploads/inkoop.pdf",
		MimeType: "application/pdf",
		Size:     1024,
		Checksum: "aaa",
	}

	doc, err := docRepo.Upsert(ctx, desc)
	if err != nil {
		t.Fatalf("Failed to upsert document: %v", err)
	}
	if doc.Id == 0 {
		t.Fatal("Expected non-zero ID")
	}
	if doc.CreatedAt.IsZero() || doc.UpdatedAt.IsZero() {
		t.Fatal("Expected timestamps to be set")
	}

	retrieved, err := docRepo.Get(ctx, "tenant-a", doc.Id)
	if err != nil {
		t.Fatalf("Failed to get document: %v", err)
	}
	if retrieved.Title != "Inkoopvoorwaarden" {
		t.Fatalf("Expected title 'Inkoopvoorwaarden', got %q", retrieved.Title)
	}
}

func TestDocumentUpsertStableID(t *testing.T) {
	docRepo, chunkRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { docRepo.Close(); chunkRepo.Close(); backend.Close() }()

	ctx := context.Background()

	desc := &core.DocumentDescriptor{
		TenantID: "tenant-a",
		Scope:    core.ScopeHorizontal,
		Title:    "Bestek",
		Path:     "/uploads/bestek.pdf",
		Checksum: "v1",
	}

	first, err := docRepo.Upsert(ctx, desc)
	if err != nil {
		t.Fatalf("Failed first upsert: %v", err)
	}

	// Same natural key, new checksum: must update in place.
	desc.Checksum = "v2"
	desc.Size = 2048
	second, err := docRepo.Upsert(ctx, desc)
	if err != nil {
		t.Fatalf("Failed second upsert: %v", err)
	}

	if second.Id != first.Id {
		t.Fatalf("Expected stable ID %d, got %d", first.Id, second.Id)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatal("Expected CreatedAt to be preserved")
	}
	if second.Checksum != "v2" {
		t.Fatalf("Expected updated checksum, got %q", second.Checksum)
	}

	docs, err := docRepo.List(ctx, "tenant-a")
	if err != nil {
		t.Fatalf("Failed to list documents: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("Expected 1 document after re-upsert, got %d", len(docs))
	}
}

func TestDocumentUpsertDistinctNaturalKeys(t *testing.T) {
	docRepo, chunkRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { docRepo.Close(); chunkRepo.Close(); backend.Close() }()

	ctx := context.Background()

	// Identical content fields, different title: distinct documents.
	a, err := docRepo.Upsert(ctx, &core.DocumentDescriptor{
		TenantID: "tenant-a", Scope: core.ScopeHorizontal, Title: "Versie A", Path: "/x.txt", Checksum: "same",
	})
	if err != nil {
		t.Fatalf("Failed upsert A: %v", err)
	}
	b, err := docRepo.Upsert(ctx, &core.DocumentDescriptor{
		TenantID: "tenant-a", Scope: core.ScopeHorizontal, Title: "Versie B", Path: "/x.txt", Checksum: "same",
	})
	if err != nil {
		t.Fatalf("Failed upsert B: %v", err)
	}
	if a.Id == b.Id {
		t.Fatal("Expected distinct IDs for distinct natural keys")
	}
}

func TestDocumentGetTenantIsolation(t *testing.T) {
	docRepo, chunkRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { docRepo.Close(); chunkRepo.Close(); backend.Close() }()

	ctx := context.Background()

	doc, err := docRepo.Upsert(ctx, &core.DocumentDescriptor{
		TenantID: "tenant-a", Scope: core.ScopeHorizontal, Title: "Privé", Path: "/p.txt",
	})
	if err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}

	// Another tenant cannot resolve the document even with the right ID.
	if _, err := docRepo.Get(ctx, "tenant-b", doc.Id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for foreign tenant, got %v", err)
	}
	if _, err := docRepo.GetByNaturalKey(ctx, "tenant-b", doc.NaturalKey()); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for foreign tenant natural key, got %v", err)
	}

	docs, err := docRepo.List(ctx, "tenant-b")
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("Expected empty list for foreign tenant, got %d", len(docs))
	}
}

func TestDocumentDeleteCascades(t *testing.T) {
	docRepo, chunkRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { docRepo.Close(); chunkRepo.Close(); backend.Close() }()

	ctx := context.Background()

	doc, err := docRepo.Upsert(ctx, &core.DocumentDescriptor{
		TenantID: "tenant-a", Scope: core.ScopeHorizontal, Title: "Weg", Path: "/weg.txt",
	})
	if err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}

	chunks := []*core.Chunk{
		{DocumentID: doc.Id, TenantID: "tenant-a", Scope: core.ScopeHorizontal, Index: 0, Text: "eerste"},
		{DocumentID: doc.Id, TenantID: "tenant-a", Scope: core.ScopeHorizontal, Index: 1, Text: "tweede"},
	}
	if err := chunkRepo.ReplaceChunks(ctx, "tenant-a", doc.Id, chunks); err != nil {
		t.Fatalf("Failed to replace chunks: %v", err)
	}

	if err := docRepo.Delete(ctx, "tenant-a", doc.Id); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}

	if _, err := docRepo.Get(ctx, "tenant-a", doc.Id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}
	count, err := chunkRepo.CountChunks(ctx, "tenant-a", doc.Id)
	if err != nil {
		t.Fatalf("Failed to count chunks: %v", err)
	}
	if count != 0 {
		t.Fatalf("Expected 0 chunks after cascade, got %d", count)
	}

	// Deleting again reports not found.
	if err := docRepo.Delete(ctx, "tenant-a", doc.Id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDocumentUpsertValidation(t *testing.T) {
	docRepo, chunkRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { docRepo.Close(); chunkRepo.Close(); backend.Close() }()

	ctx := context.Background()

	// Vertical scope requires a company.
	_, err = docRepo.Upsert(ctx, &core.DocumentDescriptor{
		TenantID: "tenant-a", Scope: core.ScopeVertical, Title: "Zonder bedrijf", Path: "/z.txt",
	})
	if !errors.Is(err, core.ErrMissingCompany) {
		t.Fatalf("Expected ErrMissingCompany, got %v", err)
	}

	// Missing tenant is rejected.
	_, err = docRepo.Upsert(ctx, &core.DocumentDescriptor{
		Scope: core.ScopeHorizontal, Title: "Zonder tenant", Path: "/z.txt",
	})
	if !errors.Is(err, core.ErrMissingTenant) {
		t.Fatalf("Expected ErrMissingTenant, got %v", err)
	}
}
