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


// Package storage provides the storage abstraction layer for the knowledge
// engine.
//
// This package defines repository interfaces that decouple storage
// implementation from business logic. Documents and chunks are persisted by a
// DocumentRepository and ChunkRepository (BadgerDB is the built-in backend);
// an optional VectorIndex mirrors chunk embeddings into a native
// similarity index (Qdrant is the built-in backend).
//
// # Constructor Return Type Pattern
//
// Public backend constructors return the interfaces defined here:
//
//	repo, err := badger.NewRepository(path)  // returns storage.Repository
//
// Internal backend constructors (newBackend, newChunkRepository, etc.) may
// return concrete types since they're only used within the implementation
// package.
//
// # Tenancy
//
// Every repository and index operation takes the owning tenant explicitly,
// either as a tenantID argument or inside a core.ScopeFilter. Implementations
// must guarantee that no operation can read or modify data belonging to a
// different tenant, regardless of the IDs supplied.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support concurrent
// access from multiple goroutines.
package storage
