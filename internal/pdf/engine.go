package pdf

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Engine turns a PDF file into plain text.
type Engine interface {
	Name() string
	Text(ctx context.Context, path string) (string, error)
}

// TextExtractor tries its engines in order until one returns non-blank text.
type TextExtractor struct {
	engines []Engine
	logger  *zap.Logger
}

// NewTextExtractor creates an extractor over the given engines. With no
// engines it uses the default chain: ledongthuc/pdf, then pdfcpu.
func NewTextExtractor(logger *zap.Logger, engines ...Engine) *TextExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(engines) == 0 {
		engines = DefaultEngines()
	}
	return &TextExtractor{engines: engines, logger: logger}
}

// DefaultEngines returns the built-in engine chain.
func DefaultEngines() []Engine {
	return []Engine{NewLedongthucEngine(), NewPDFCPUEngine()}
}

// ExtractText returns the text of the first engine that produces any. If
// none does, the last engine error is returned, or ErrNoText when every
// engine ran cleanly.
func (t *TextExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	var lastErr error
	for _, e := range t.engines {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		text, err := t.run(ctx, e, path)
		if err != nil {
			t.logger.Warn("pdf: engine failed",
				zap.String("engine", e.Name()),
				zap.String("file", path),
				zap.Error(err),
			)
			lastErr = err
			continue
		}
		if strings.TrimSpace(text) == "" {
			t.logger.Debug("pdf: engine returned no text",
				zap.String("engine", e.Name()),
				zap.String("file", path),
			)
			continue
		}

		t.logger.Debug("pdf: text extracted",
			zap.String("engine", e.Name()),
			zap.String("file", path),
			zap.Int("chars", len(text)),
		)
		return text, nil
	}

	if lastErr != nil {
		return "", lastErr
	}
	return "", ErrNoText
}

// run shields the chain from engines that panic on malformed input.
func (t *TextExtractor) run(ctx context.Context, e Engine, path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &EngineError{Engine: e.Name(), Op: "extract_text", Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return e.Text(ctx, path)
}
