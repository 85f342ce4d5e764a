package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeFor(t *testing.T) {
	cases := []struct {
		path string
		want DocType
	}{
		{"bestek.pdf", TypePDF},
		{"uploads/Bestek.PDF", TypePDF},
		{"inschrijving.docx", TypeOffice},
		{"notities.odt", TypeOffice},
		{"oud.rtf", TypeOffice},
		{"readme.txt", TypePlaintext},
		{"notes.md", TypePlaintext},
		{"prices.csv", TypePlaintext},
		{"archive.zip", TypeUnknown},
		{"no-extension", TypeUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TypeFor(tc.path), tc.path)
	}
}

func TestFileExtractorPlaintext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "terms.txt")
	require.NoError(t, os.WriteFile(path, []byte("algemene voorwaarden\n"), 0644))

	extractor := NewFileExtractor()
	text, err := extractor.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "algemene voorwaarden\n", text)
}

func TestFileExtractorUnsupportedType(t *testing.T) {
	extractor := NewFileExtractor()
	_, err := extractor.Extract(context.Background(), "archive.zip")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestFileExtractorMissingFile(t *testing.T) {
	extractor := NewFileExtractor()
	_, err := extractor.Extract(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))
	assert.ErrorIs(t, err, ErrExtraction)
}
