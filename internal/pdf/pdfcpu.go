package pdf

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// EnginePDFCPU is the name of the pdfcpu content-stream engine.
const EnginePDFCPU = "pdfcpu"

// PDFCPUEngine decodes page content streams with pdfcpu and reads the text
// operators directly. It copes with files ledongthuc/pdf rejects.
type PDFCPUEngine struct {
	conf *model.Configuration
}

// NewPDFCPUEngine creates the pdfcpu engine with relaxed validation.
func NewPDFCPUEngine() *PDFCPUEngine {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFCPUEngine{conf: conf}
}

// Name returns the engine name.
func (p *PDFCPUEngine) Name() string {
	return EnginePDFCPU
}

// Text decodes every page's content stream. Pages without content are
// skipped.
func (p *PDFCPUEngine) Text(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &EngineError{Engine: EnginePDFCPU, Op: "open", Err: err}
	}
	defer f.Close()

	pctx, err := api.ReadContext(f, p.conf)
	if err != nil {
		return "", &EngineError{
			Engine: EnginePDFCPU,
			Op:     "open",
			Err:    fmt.Errorf("failed to read PDF context: %w", err),
		}
	}
	if err := pctx.EnsurePageCount(); err != nil {
		return "", &EngineError{
			Engine: EnginePDFCPU,
			Op:     "open",
			Err:    fmt.Errorf("failed to ensure page count: %w", err),
		}
	}

	var b strings.Builder
	for pageNr := 1; pageNr <= pctx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		r, err := pdfcpu.ExtractPageContent(pctx, pageNr)
		if err != nil || r == nil {
			continue
		}
		data, err := io.ReadAll(r)
		if err != nil || len(data) == 0 {
			continue
		}
		if text := ContentStreamText(data); text != "" {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(text)
		}
	}
	return b.String(), nil
}
