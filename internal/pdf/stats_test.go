package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, size int) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, make([]byte, size), 0o600))
		return p
	}

	small := write("small.pdf", 10)
	mid := write("mid.pdf", 200)
	big := write("big.pdf", 2048)
	missing := filepath.Join(dir, "gone.pdf")

	st := NewValidator(1024).Summarize([]string{small, mid, big, missing})

	require.Len(t, st.Files, 3)
	assert.Equal(t, int64(2258), st.TotalSize)
	assert.Equal(t, int64(752), st.AverageSize)
	assert.Equal(t, FileSize{Path: big, Size: 2048}, st.Largest)
	assert.Equal(t, FileSize{Path: small, Size: 10}, st.Smallest)

	require.Len(t, st.Rejected, 2)
	assert.Contains(t, st.Rejected["big.pdf"], "file too large")
	assert.Contains(t, st.Rejected["gone.pdf"], "cannot access file")
}

func TestSummarizeEmpty(t *testing.T) {
	st := NewValidator(1024).Summarize(nil)
	assert.Empty(t, st.Files)
	assert.Zero(t, st.AverageSize)
	assert.Nil(t, st.Rejected)
}
