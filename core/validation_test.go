package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDocument() *Document {
	return &Document{
		TenantID:  "tenant-a",
		Scope:     ScopeVertical,
		CompanyID: "company-x",
		Title:     "Reference project",
		Path:      "uploads/reference.docx",
	}
}

func TestValidateDocument(t *testing.T) {
	t.Run("valid vertical document", func(t *testing.T) {
		assert.NoError(t, ValidateDocument(validDocument()))
	})

	t.Run("valid horizontal document", func(t *testing.T) {
		doc := validDocument()
		doc.Scope = ScopeHorizontal
		doc.CompanyID = ""
		assert.NoError(t, ValidateDocument(doc))
	})

	t.Run("nil document", func(t *testing.T) {
		err := ValidateDocument(nil)
		assert.ErrorIs(t, err, ErrInvalidDocument)
	})

	t.Run("missing tenant", func(t *testing.T) {
		doc := validDocument()
		doc.TenantID = ""
		err := ValidateDocument(doc)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingTenant)
	})

	t.Run("unknown scope", func(t *testing.T) {
		doc := validDocument()
		doc.Scope = Scope("diagonal")
		assert.ErrorIs(t, ValidateDocument(doc), ErrInvalidScope)
	})

	t.Run("vertical without company", func(t *testing.T) {
		doc := validDocument()
		doc.CompanyID = ""
		assert.ErrorIs(t, ValidateDocument(doc), ErrMissingCompany)
	})

	t.Run("horizontal with company", func(t *testing.T) {
		doc := validDocument()
		doc.Scope = ScopeHorizontal
		assert.ErrorIs(t, ValidateDocument(doc), ErrUnexpectedCompany)
	})

	t.Run("missing title and path", func(t *testing.T) {
		doc := validDocument()
		doc.Title = ""
		doc.Path = ""
		assert.ErrorIs(t, ValidateDocument(doc), ErrInvalidDocument)
	})
}

func TestValidateDescriptor(t *testing.T) {
	t.Run("valid descriptor without checksum", func(t *testing.T) {
		desc := &DocumentDescriptor{
			TenantID: "tenant-a",
			Scope:    ScopeHorizontal,
			Title:    "Shared terms",
		}
		assert.NoError(t, ValidateDescriptor(desc))
	})

	t.Run("vertical descriptor without company", func(t *testing.T) {
		desc := &DocumentDescriptor{
			TenantID: "tenant-a",
			Scope:    ScopeVertical,
			Title:    "Private bid",
		}
		assert.ErrorIs(t, ValidateDescriptor(desc), ErrMissingCompany)
	})
}

func TestValidateChunk(t *testing.T) {
	valid := func() *Chunk {
		return &Chunk{
			DocumentID: 7,
			TenantID:   "tenant-a",
			Scope:      ScopeHorizontal,
			Index:      0,
			Text:       "chunk text",
		}
	}

	t.Run("valid chunk", func(t *testing.T) {
		assert.NoError(t, ValidateChunk(valid()))
	})

	t.Run("whitespace-only text", func(t *testing.T) {
		c := valid()
		c.Text = "  \n\t "
		assert.ErrorIs(t, ValidateChunk(c), ErrEmptyChunkText)
	})

	t.Run("missing document id", func(t *testing.T) {
		c := valid()
		c.DocumentID = 0
		assert.ErrorIs(t, ValidateChunk(c), ErrInvalidChunk)
	})

	t.Run("negative index", func(t *testing.T) {
		c := valid()
		c.Index = -1
		assert.ErrorIs(t, ValidateChunk(c), ErrInvalidChunk)
	})
}

func TestValidateScopeFilter(t *testing.T) {
	t.Run("tenant required", func(t *testing.T) {
		err := ValidateScopeFilter(ScopeFilter{})
		assert.ErrorIs(t, err, ErrScopeViolation)
	})

	t.Run("tenant-wide filter is valid", func(t *testing.T) {
		assert.NoError(t, ValidateScopeFilter(ScopeFilter{TenantID: "tenant-a"}))
	})

	t.Run("company filter is valid", func(t *testing.T) {
		f := ScopeFilter{TenantID: "tenant-a", CompanyID: "company-x", IncludeShared: true}
		assert.NoError(t, ValidateScopeFilter(f))
	})
}
