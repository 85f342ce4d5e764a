package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dslipak/pdf"
)

// pageTimeout bounds text extraction of a single PDF page; malformed
// pages can send the parser into very long walks.
const pageTimeout = 10 * time.Second

func (e *FileExtractor) extractPDF(ctx context.Context, path string) (string, error) {
	f, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: open pdf: %w", ErrExtraction, err)
	}

	var sb strings.Builder
	numPages := f.NumPage()
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("%w: %w", ErrExtraction, err)
		}

		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := extractPage(ctx, page)
		if err != nil {
			// A single unreadable page does not discard the document.
			e.logger.Warn("skipping unreadable pdf page", "path", path, "page", i, "err", err)
			continue
		}

		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(content)
	}
	return sb.String(), nil
}

// extractPage guards page parsing with a timeout; GetPlainText has no
// context support and can stall on malformed content streams.
func extractPage(ctx context.Context, page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()

	select {
	case r := <-resChan:
		return r.content, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(pageTimeout):
		return "", fmt.Errorf("page extraction timed out after %s", pageTimeout)
	}
}
