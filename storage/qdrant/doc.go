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


// Package qdrant implements storage.VectorIndex on a Qdrant collection.
//
// Chunk embeddings are mirrored into one collection with cosine distance.
// The payload carries the tenant, scope and company of every chunk, and
// every query attaches a filter built from the caller's core.ScopeFilter,
// so a native-index query can never return a chunk from outside the
// caller's boundary.
//
// The index is an accelerator, not the system of record: when the Qdrant
// server is unreachable the engine falls back to scanning the chunk
// repository, and ingestion treats index failures as non-fatal.
package qdrant
