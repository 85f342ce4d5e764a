package ingestion

import (
	"path/filepath"

	"github.com/rjj101202/appalti-knowledge/core"
)

// Source describes one raw document offered for ingestion.
type Source struct {
	TenantID  string
	Scope     core.Scope
	CompanyID string

	// Title defaults to the file name when empty.
	Title string

	// Path locates the file on disk and is part of the document identity.
	Path string

	SourceURL string
	MimeType  string

	// Force re-ingests the document even when its content is unchanged.
	Force bool
}

// Descriptor builds the document descriptor for this source.
// Checksum and Size are filled by the pipeline after extraction.
func (s Source) Descriptor() *core.DocumentDescriptor {
	title := s.Title
	if title == "" {
		title = filepath.Base(s.Path)
	}
	return &core.DocumentDescriptor{
		TenantID:  s.TenantID,
		Scope:     s.Scope,
		CompanyID: s.CompanyID,
		Title:     title,
		Path:      s.Path,
		SourceURL: s.SourceURL,
		MimeType:  s.MimeType,
	}
}
