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


package extract

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// Extractor derives plain text from a source document on disk.
// Implementations must respect the context deadline.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// DocType identifies the extraction strategy for a source file.
type DocType string

const (
	TypePDF       DocType = "pdf"
	TypeOffice    DocType = "office"
	TypePlaintext DocType = "plaintext"
	TypeUnknown   DocType = "unknown"
)

// TypeFor resolves the extraction strategy from a file path's extension.
func TypeFor(path string) DocType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return TypePDF
	case ".docx", ".odt", ".rtf":
		return TypeOffice
	case ".txt", ".md", ".csv", ".html":
		return TypePlaintext
	default:
		return TypeUnknown
	}
}

// FileExtractor dispatches extraction on file type.
type FileExtractor struct {
	logger *slog.Logger
}

var _ Extractor = (*FileExtractor)(nil)

// NewFileExtractor creates the built-in file-type dispatching extractor.
func NewFileExtractor() *FileExtractor {
	return &FileExtractor{
		logger: slog.Default().With("component", "extractor"),
	}
}

// Extract derives plain text from the file at path.
// Unknown file types return ErrUnsupportedType; parse failures return
// errors wrapping ErrExtraction.
func (e *FileExtractor) Extract(ctx context.Context, path string) (string, error) {
	docType := TypeFor(path)
	e.logger.Debug("extracting document", "path", path, "type", docType)

	switch docType {
	case TypePDF:
		return e.extractPDF(ctx, path)
	case TypeOffice:
		return e.extractOffice(path)
	case TypePlaintext:
		return e.extractPlaintext(path)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Ext(path))
	}
}
