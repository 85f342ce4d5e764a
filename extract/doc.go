// Package extract derives plain text from raw source documents.
//
// The ingestion pipeline consumes extraction through the Extractor
// interface only; the built-in implementation dispatches on file type
// and covers PDF, office formats (docx/odt/rtf) and plaintext. Callers
// that extract elsewhere (remote document libraries, external parsers)
// supply their own Extractor.
package extract
