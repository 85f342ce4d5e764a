// Package chunk provides deterministic text chunking and content
// checksumming for the ingestion pipeline.
//
// Split walks a text in fixed-size overlapping windows so that a fact
// crossing a window boundary remains retrievable in at least one chunk.
// Checksum produces a stable content digest used to detect unchanged
// re-ingestion.
package chunk
