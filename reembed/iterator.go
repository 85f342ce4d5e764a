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

	"github.com/rjj101202/appalti-knowledge/core"
	"github.com/rjj101202/appalti-knowledge/storage"
)

// DocumentIterator walks a tenant's documents and their chunk sets.
type DocumentIterator struct {
	documents storage.DocumentRepository
	chunks    storage.ChunkRepository
}

// NewDocumentIterator creates a new document iterator.
func NewDocumentIterator(documents storage.DocumentRepository, chunks storage.ChunkRepository) *DocumentIterator {
	return &DocumentIterator{
		documents: documents,
		chunks:    chunks,
	}
}

// ForEach iterates over the tenant's documents, calling fn once per
// document with its full chunk set. Documents without chunks are skipped.
// Iteration stops on first error from fn. Context cancellation is checked
// between documents.
func (it *DocumentIterator) ForEach(ctx context.Context, tenantID string, fn func(*core.Document, []*core.Chunk) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	docs, err := it.documents.List(ctx, tenantID)
	if err != nil {
		return err
	}

	for _, doc := range docs {
		chunks, err := it.chunks.GetChunks(ctx, tenantID, doc.Id)
		if err != nil {
			return err
		}
		if len(chunks) == 0 {
			continue
		}

		if err := fn(doc, chunks); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}
