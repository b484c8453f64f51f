package pdf

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileSize names one file and its size in bytes.
type FileSize struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// FileSetStats summarises a set of PDF files before a batch run.
type FileSetStats struct {
	Files       []FileSize `json:"files"`
	TotalSize   int64      `json:"totalSize"`
	AverageSize int64      `json:"averageSize"`
	Largest     FileSize   `json:"largest"`
	Smallest    FileSize   `json:"smallest"`
	// Rejected lists files the validator would refuse, with the reason.
	Rejected map[string]string `json:"rejected,omitempty"`
}

// Summarize stats every path and checks it against the validator.
// Files that cannot be accessed are reported as rejected.
func (v *Validator) Summarize(paths []string) *FileSetStats {
	st := &FileSetStats{Files: make([]FileSize, 0, len(paths))}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			st.reject(path, fmt.Errorf("cannot access file: %w", err))
			continue
		}
		if err := v.ValidateFileInfo(path, info); err != nil {
			st.reject(path, err)
		}

		f := FileSize{Path: path, Size: info.Size()}
		st.Files = append(st.Files, f)
		st.TotalSize += f.Size

		if len(st.Files) == 1 || f.Size > st.Largest.Size {
			st.Largest = f
		}
		if len(st.Files) == 1 || f.Size < st.Smallest.Size {
			st.Smallest = f
		}
	}

	if n := int64(len(st.Files)); n > 0 {
		st.AverageSize = st.TotalSize / n
	}
	return st
}

func (st *FileSetStats) reject(path string, err error) {
	if st.Rejected == nil {
		st.Rejected = make(map[string]string)
	}
	st.Rejected[filepath.Base(path)] = err.Error()
}
