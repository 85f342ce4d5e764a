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


// Package ai defines the embedding provider abstraction used by the
// ingestion pipeline and the retrieval engine.
//
// The Embedder interface turns text into fixed-length vectors through an
// external provider. Provider failures are wrapped in ErrProvider so
// callers can classify them without inspecting provider-specific errors;
// a failed embedding call aborts the calling operation, it is never
// silently replaced by zero vectors.
//
// Production implementations live in the openai subpackage; the mock
// subpackage provides deterministic test doubles.
package ai
