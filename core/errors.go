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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidScope indicates an unknown Scope value.
	ErrInvalidScope = errors.New("invalid scope")

	// ErrScopeViolation indicates an operation without a valid tenant/scope
	// context, or one that crosses a scope boundary. It is always fatal for
	// the call and never downgraded to an empty result.
	ErrScopeViolation = errors.New("scope violation")

	// ErrEmptyContent indicates extraction succeeded but yielded no usable text.
	ErrEmptyContent = errors.New("no usable text content")

	// ErrMissingTenant indicates the tenant identifier is absent.
	ErrMissingTenant = errors.New("tenant id required")

	// ErrMissingCompany indicates a vertical-scope record without a company.
	ErrMissingCompany = errors.New("company id required for vertical scope")

	// ErrUnexpectedCompany indicates a horizontal-scope record carrying a company.
	ErrUnexpectedCompany = errors.New("company id must be empty for horizontal scope")

	// ErrEmptyChunkText indicates a chunk with empty text.
	ErrEmptyChunkText = errors.New("chunk text cannot be empty")
)
