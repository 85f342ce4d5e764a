package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Scope is the sharing boundary of a document within a tenant.
type Scope string

const (
	// ScopeVertical marks a document private to a single company.
	ScopeVertical Scope = "vertical"
	// ScopeHorizontal marks a document shared across the whole tenant.
	ScopeHorizontal Scope = "horizontal"
)

// Document describes one ingested source artifact. A document owns
// a replaceable set of chunks; deleting the document removes them.
type Document struct {
	Id        ID
	TenantID  string
	Scope     Scope
	CompanyID string // set iff Scope == ScopeVertical
	Title     string
	Path      string
	SourceURL string
	MimeType  string
	Size      int64
	Checksum  string // content hash of the extracted text at last ingestion
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NaturalKey returns the stable identity digest for a document source.
// Two descriptors with the same tenant, scope, company, title and path
// resolve to the same document across ingestion runs.
func (d *Document) NaturalKey() ID {
	return naturalKey(d.TenantID, d.Scope, d.CompanyID, d.Title, d.Path)
}

// DocumentDescriptor carries the identity and metadata of a source
// document into an upsert. The natural key is derived from the tuple
// (TenantID, Scope, CompanyID, Title, Path) by exact equality.
type DocumentDescriptor struct {
	TenantID  string
	Scope     Scope
	CompanyID string
	Title     string
	Path      string
	SourceURL string
	MimeType  string
	Size      int64
	Checksum  string
}

// NaturalKey returns the stable identity digest for the descriptor.
func (d *DocumentDescriptor) NaturalKey() ID {
	return naturalKey(d.TenantID, d.Scope, d.CompanyID, d.Title, d.Path)
}

func naturalKey(tenantID string, scope Scope, companyID, title, path string) ID {
	return IDFromContent(tenantID + "|" + string(scope) + "|" + companyID + "|" + title + "|" + path)
}

// Chunk is a bounded-length substring of a document's extracted text,
// individually embedded and searchable. TenantID, Scope and CompanyID are
// denormalized from the owning document so both search paths can filter
// candidates without a join.
type Chunk struct {
	Id         ID
	DocumentID ID
	TenantID   string
	Scope      Scope
	CompanyID  string
	Index      int // zero-based position within the document, contiguous 0..N-1
	Text       string
	Embedding  []float32
}

// ScopeFilter restricts retrieval and mutation to an authorized tenant
// and sharing boundary. It is supplied explicitly by the caller; the
// engine never reads ambient request state.
//
// CompanyID set selects vertical chunks of that company, plus horizontal
// chunks when IncludeShared is true. CompanyID empty selects horizontal
// chunks only.
type ScopeFilter struct {
	TenantID      string
	CompanyID     string
	IncludeShared bool
}

// Admits reports whether a chunk falls inside the filter's boundary.
// Both the native index and the fallback scan apply the same predicate.
func (f ScopeFilter) Admits(c *Chunk) bool {
	if c.TenantID != f.TenantID {
		return false
	}
	if f.CompanyID == "" {
		return c.Scope == ScopeHorizontal
	}
	if c.Scope == ScopeVertical {
		return c.CompanyID == f.CompanyID
	}
	return f.IncludeShared
}

// ChunkMatch pairs a chunk with its similarity score.
type ChunkMatch struct {
	Chunk *Chunk
	Score float32
}

// Snippet is a ranked retrieval result enriched with display metadata
// from the parent document. Metadata fields stay empty when the parent
// document cannot be resolved; the snippet itself is never dropped.
type Snippet struct {
	Chunk     *Chunk
	Score     float32
	Title     string
	SourceURL string
	Path      string
}

// IngestStatus is the per-document outcome of an ingestion run.
type IngestStatus string

const (
	IngestStatusOK      IngestStatus = "ok"
	IngestStatusSkipped IngestStatus = "skipped"
	IngestStatusFailed  IngestStatus = "failed"
)

// IngestResult reports the outcome of one document's pipeline run.
type IngestResult struct {
	Title      string
	Path       string
	Status     IngestStatus
	DocumentID ID
	Chunks     int
	Reason     string
	Err        error
}

// IngestReport aggregates per-document results for one batch run.
type IngestReport struct {
	RunID    string
	Results  []IngestResult
	Ingested int
	Skipped  int
	Failed   int
}
