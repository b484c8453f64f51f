package pdf

import (
	"errors"
	"fmt"
)

var (
	// ErrNoText is returned when every engine produced blank output.
	ErrNoText = errors.New("no text extracted")
	// ErrInvalidFile marks inputs rejected before any engine runs.
	ErrInvalidFile = errors.New("invalid PDF file")
)

// EngineError is a failure inside one text extraction engine.
type EngineError struct {
	Engine string `json:"engine"`
	Op     string `json:"operation"`
	Err    error  `json:"error"`
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("PDF %s engine error in %s: %v", e.Engine, e.Op, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}
