package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Validator checks input files before extraction.
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a validator rejecting files above maxFileSize bytes.
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// ValidateFile checks that path names a readable, non-empty PDF within the
// size limit. Failures wrap ErrInvalidFile.
func (v *Validator) ValidateFile(path string) error {
	if path == "" {
		return fmt.Errorf("%w: path cannot be empty", ErrInvalidFile)
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: file does not exist: %s", ErrInvalidFile, path)
	}
	if err != nil {
		return fmt.Errorf("%w: cannot access file: %w", ErrInvalidFile, err)
	}

	return v.ValidateFileInfo(path, info)
}

// ValidateFileInfo performs the same checks on already stat'ed file info.
func (v *Validator) ValidateFileInfo(path string, info os.FileInfo) error {
	if info.IsDir() {
		return fmt.Errorf("%w: path is a directory, not a file: %s", ErrInvalidFile, path)
	}

	if !IsPDFName(path) {
		return fmt.Errorf("%w: file is not a PDF: %s", ErrInvalidFile, filepath.Base(path))
	}

	if info.Size() == 0 {
		return fmt.Errorf("%w: file is empty: %s", ErrInvalidFile, path)
	}

	if v.maxFileSize > 0 && info.Size() > v.maxFileSize {
		return fmt.Errorf("%w: file too large: %d bytes (max: %d bytes)",
			ErrInvalidFile, info.Size(), v.maxFileSize)
	}

	return nil
}

// IsPDFName reports whether a filename has the .pdf extension.
func IsPDFName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
