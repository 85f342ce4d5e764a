// Package reembed provides functionality for reembedding stored chunks
// with a new or updated embedding model.
//
// Migration runs per tenant, one document at a time: the document's chunks
// are re-embedded in one provider batch, normalized, written back through
// the chunk store's atomic replacement, and re-mirrored into the vector
// index. The package supports progress tracking and retry logic with
// exponential backoff around provider calls.
package reembed
