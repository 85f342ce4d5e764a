// Copyright 2025 Appalti
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package chunk

import (
	"fmt"
	"strings"
)

const (
	// DefaultSize is the default chunk window size in characters.
	DefaultSize = 1000
	// DefaultOverlap is the default number of characters shared with the
	// preceding window.
	DefaultOverlap = 150
)

// Options configures the chunking walk. The zero value is not valid;
// use DefaultOptions.
type Options struct {
	Size    int
	Overlap int
}

// DefaultOptions returns the standard window configuration.
func DefaultOptions() Options {
	return Options{Size: DefaultSize, Overlap: DefaultOverlap}
}

// Validate enforces the chunking invariant 0 <= Overlap < Size.
func (o Options) Validate() error {
	if o.Size <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", o.Size)
	}
	if o.Overlap < 0 || o.Overlap >= o.Size {
		return fmt.Errorf("chunk overlap must be in [0, size), got %d for size %d", o.Overlap, o.Size)
	}
	return nil
}

// Split walks text in windows of size characters. The cursor advances by
// size on every step and each window begins overlap characters before the
// cursor, clamped to zero, so a window shares context with its predecessor
// and the walk always makes forward progress. The walk ends only once a
// window's end has reached the end of the text, so every character appears
// in at least one window. Windows are trimmed of whitespace; windows that
// are empty after trimming are dropped.
//
// Split is a pure function: the same (text, size, overlap) always yields
// the same sequence. Empty text yields an empty sequence; text shorter
// than size yields a single trimmed chunk.
func Split(text string, size, overlap int) []string {
	if size <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}

	runes := []rune(text)
	var chunks []string
	for i, end := 0, 0; end < len(runes); i += size {
		start := i - overlap
		if start < 0 {
			start = 0
		}
		end = start + size
		if end > len(runes) {
			end = len(runes)
		}
		window := strings.TrimSpace(string(runes[start:end]))
		if window != "" {
			chunks = append(chunks, window)
		}
	}
	return chunks
}

// SplitDefault chunks text with the default window configuration.
func SplitDefault(text string) []string {
	return Split(text, DefaultSize, DefaultOverlap)
}
