package extract

import "errors"

var (
	// ErrExtraction indicates text could not be derived from the source.
	ErrExtraction = errors.New("text extraction failed")

	// ErrUnsupportedType indicates no extractor handles the source's file type.
	ErrUnsupportedType = errors.New("unsupported document type")
)
