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


// Package search provides scoped semantic retrieval over stored chunks.
//
// The Searcher embeds the query, picks a retrieval strategy, and ranks the
// admitted chunks by cosine similarity. Two strategies exist:
//
//   - NativeIndexAvailable: the query is delegated to the vector index,
//     which filters and ranks server-side.
//   - FallbackRequired: every chunk admitted by the scope filter is scanned
//     from the chunk repository and scored in process. Slower, but
//     available whenever the store is.
//
// Both strategies apply the same scope predicate, so results are identical
// up to ranking ties. Results are enriched with parent document metadata
// before they are returned.
package search
