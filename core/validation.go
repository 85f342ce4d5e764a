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

import (
	"fmt"
	"strings"
)

// ValidateScope validates that a Scope has a known value.
func ValidateScope(scope Scope) error {
	if scope != ScopeVertical && scope != ScopeHorizontal {
		return fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}
	return nil
}

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - TenantID must not be empty
//   - Scope must be vertical or horizontal
//   - CompanyID must be set iff Scope is vertical
//   - Title or Path must identify the source
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}
	if doc.TenantID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrMissingTenant)
	}
	if err := ValidateScope(doc.Scope); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if err := validateScopeCompany(doc.Scope, doc.CompanyID); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if doc.Title == "" && doc.Path == "" {
		return fmt.Errorf("%w: title or path required", ErrInvalidDocument)
	}
	return nil
}

// ValidateDescriptor validates a DocumentDescriptor before upsert.
// The rules mirror ValidateDocument; the checksum may be empty because
// it is assigned by the ingestion pipeline.
func ValidateDescriptor(desc *DocumentDescriptor) error {
	if desc == nil {
		return fmt.Errorf("%w: descriptor is nil", ErrInvalidDocument)
	}
	if desc.TenantID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrMissingTenant)
	}
	if err := ValidateScope(desc.Scope); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if err := validateScopeCompany(desc.Scope, desc.CompanyID); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if desc.Title == "" && desc.Path == "" {
		return fmt.Errorf("%w: title or path required", ErrInvalidDocument)
	}
	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - TenantID must not be empty
//   - DocumentID must be set
//   - Text must be non-empty after trimming
//   - Index must not be negative
//
// NOT validated:
//   - Embedding (can be empty until the embedding step runs)
//   - ID (0 is valid before a database sequence assigns one)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}
	if chunk.TenantID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrMissingTenant)
	}
	if chunk.DocumentID == 0 {
		return fmt.Errorf("%w: document id required", ErrInvalidChunk)
	}
	if strings.TrimSpace(chunk.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyChunkText)
	}
	if chunk.Index < 0 {
		return fmt.Errorf("%w: negative chunk index %d", ErrInvalidChunk, chunk.Index)
	}
	return nil
}

// ValidateScopeFilter validates the tenant/scope guard for a call.
// A missing tenant is a scope violation, never an empty result.
func ValidateScopeFilter(filter ScopeFilter) error {
	if filter.TenantID == "" {
		return fmt.Errorf("%w: %w", ErrScopeViolation, ErrMissingTenant)
	}
	return nil
}

func validateScopeCompany(scope Scope, companyID string) error {
	switch scope {
	case ScopeVertical:
		if companyID == "" {
			return ErrMissingCompany
		}
	case ScopeHorizontal:
		if companyID != "" {
			return ErrUnexpectedCompany
		}
	}
	return nil
}
