// Package ingestion provides pipeline orchestration for turning source
// documents into searchable chunks.
//
// The Pipeline type runs one state machine per document: extract text,
// compare checksums, split into chunks, embed, persist, and mirror into the
// vector index. Documents in a batch are processed concurrently on a worker
// pool and fail independently; one broken PDF never aborts the batch.
//
// The chunk store is authoritative. Mirroring into the vector index is
// best-effort: a failed mirror is logged and the document stays searchable
// through the fallback path.
package ingestion
