package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// EngineLedongthuc is the name of the ledongthuc/pdf engine.
const EngineLedongthuc = "ledongthuc"

// LedongthucEngine extracts plain text page by page with ledongthuc/pdf.
type LedongthucEngine struct{}

// NewLedongthucEngine creates the ledongthuc/pdf engine.
func NewLedongthucEngine() *LedongthucEngine {
	return &LedongthucEngine{}
}

// Name returns the engine name.
func (l *LedongthucEngine) Name() string {
	return EngineLedongthuc
}

// Text reads every page and joins the page texts with newlines. A page that
// fails to decode is skipped.
func (l *LedongthucEngine) Text(ctx context.Context, path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", &EngineError{
			Engine: EngineLedongthuc,
			Op:     "open",
			Err:    fmt.Errorf("failed to open PDF: %w", err),
		}
	}
	defer f.Close()

	var b strings.Builder
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(content)
	}
	return b.String(), nil
}
