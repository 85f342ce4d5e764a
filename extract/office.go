package extract

import (
	"fmt"
	"os"

	"github.com/lu4p/cat"
)

// extractOffice reads a .docx, .odt or .rtf file and returns its text.
func (e *FileExtractor) extractOffice(path string) (string, error) {
	text, err := cat.File(path)
	if err != nil {
		return "", fmt.Errorf("%w: office document %s: %w", ErrExtraction, path, err)
	}
	return text, nil
}

// extractPlaintext reads a plaintext-like file as-is.
func (e *FileExtractor) extractPlaintext(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %w", ErrExtraction, path, err)
	}
	return string(data), nil
}
