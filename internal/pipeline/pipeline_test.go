package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/a3tai/mcp-sds-extractor/internal/pdf"
	"github.com/a3tai/mcp-sds-extractor/internal/sds"
	"github.com/a3tai/mcp-sds-extractor/internal/table"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeExtractor returns canned text keyed by file base name.
type fakeExtractor struct {
	texts map[string]string
	errs  map[string]error
}

func (f *fakeExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := filepath.Base(path)
	if err, ok := f.errs[name]; ok {
		return "", err
	}
	return f.texts[name], nil
}

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte("%PDF-1.4"), 0o600))
	return p
}

const acetoneText = "Product name: Acetone\nCAS-No.: 67-64-1\nFlash point: -20 °C\n"
const ethanolText = "Product name: Ethanol\nCAS No. 64-17-5\nFlash point: 13 °C\n"

func newTestService(x TextExtractor) *Service {
	return NewService(x, table.NewFileStore(""), pdf.NewValidator(1024), zap.NewNop())
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	inputs := []string{
		touch(t, dir, "acetone.pdf"),
		touch(t, dir, "broken.pdf"),
		touch(t, dir, "ethanol.pdf"),
	}

	existing := filepath.Join(dir, "existing.csv")
	require.NoError(t, os.WriteFile(existing, []byte("Description,CAS Number,Flash Point\nwater,7732-18-5,n/a\n"), 0o600))
	output := filepath.Join(dir, "out.csv")

	x := &fakeExtractor{
		texts: map[string]string{"acetone.pdf": acetoneText, "ethanol.pdf": ethanolText},
		errs:  map[string]error{"broken.pdf": &pdf.EngineError{Engine: "pdfcpu", Op: "open", Err: errors.New("eof")}},
	}

	res, err := newTestService(x).Run(context.Background(), Request{
		Inputs:   inputs,
		Existing: existing,
		Output:   output,
		Options:  sds.Options{DuplicateCheck: sds.CheckCAS, Workers: 2},
	})
	require.NoError(t, err)

	_, err = uuid.Parse(res.BatchID)
	assert.NoError(t, err)
	assert.Equal(t, 2, res.Stats.ProcessedFiles)
	require.Len(t, res.Stats.Skipped, 1)
	assert.Equal(t, "broken.pdf", res.Stats.Skipped[0].Filename)
	assert.Contains(t, res.Stats.Skipped[0].Reason, "processing error:")
	assert.Equal(t, "Successfully processed 2 PDF files, added 2 new entries", res.Message)

	written, err := table.NewFileStore("").Read(output)
	require.NoError(t, err)
	assert.Equal(t, sds.Header(), written.Header)
	require.Len(t, written.Rows, 3)
	assert.Equal(t, "water", written.Rows[0][sds.ColDescription])
	assert.Equal(t, sds.NDA, written.Rows[0][sds.ColFlashPoint])
	assert.Equal(t, "acetone", written.Rows[1][sds.ColDescription])
	assert.Equal(t, "-20", written.Rows[1][sds.ColFlashPoint])
	assert.Equal(t, "ethanol", written.Rows[2][sds.ColDescription])
}

func TestRunSkipsFilesFailingValidation(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "corrupt.pdf")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	big := filepath.Join(dir, "big.pdf")
	require.NoError(t, os.WriteFile(big, make([]byte, 4096), 0o600))
	inputs := []string{
		touch(t, dir, "acetone.pdf"),
		big,
		empty,
		touch(t, dir, "ethanol.pdf"),
	}
	output := filepath.Join(dir, "out.csv")

	x := &fakeExtractor{texts: map[string]string{
		"acetone.pdf": acetoneText,
		"ethanol.pdf": ethanolText,
		"big.pdf":     acetoneText,
		"corrupt.pdf": acetoneText,
	}}
	res, err := newTestService(x).Run(context.Background(), Request{
		Inputs:  inputs,
		Output:  output,
		Options: sds.Options{Workers: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Stats.ProcessedFiles)
	require.Len(t, res.Stats.Skipped, 2)

	tests := []struct {
		file   string
		reason string
	}{
		{"big.pdf", "file too large"},
		{"corrupt.pdf", "file is empty"},
	}
	for i, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			assert.Equal(t, tt.file, res.Stats.Skipped[i].Filename)
			assert.Contains(t, res.Stats.Skipped[i].Reason, "processing error:")
			assert.Contains(t, res.Stats.Skipped[i].Reason, tt.reason)
		})
	}

	written, err := table.NewFileStore("").Read(output)
	require.NoError(t, err)
	require.Len(t, written.Rows, 2)
	assert.Equal(t, "acetone", written.Rows[0][sds.ColDescription])
	assert.Equal(t, "ethanol", written.Rows[1][sds.ColDescription])
}

func TestRunUnreadableExistingKeepsNewData(t *testing.T) {
	dir := t.TempDir()
	in := touch(t, dir, "acetone.pdf")
	output := filepath.Join(dir, "out.csv")

	x := &fakeExtractor{texts: map[string]string{"acetone.pdf": acetoneText}}
	res, err := newTestService(x).Run(context.Background(), Request{
		Inputs:   []string{in},
		Existing: filepath.Join(dir, "missing.xlsx"),
		Output:   output,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.TotalEntriesInOutput)

	written, err := table.NewFileStore("").Read(output)
	require.NoError(t, err)
	assert.Len(t, written.Rows, 1)
}

func TestRunNoData(t *testing.T) {
	dir := t.TempDir()
	in := touch(t, dir, "scan.pdf")
	output := filepath.Join(dir, "out.csv")

	x := &fakeExtractor{errs: map[string]error{"scan.pdf": pdf.ErrNoText}}
	_, err := newTestService(x).Run(context.Background(), Request{Inputs: []string{in}, Output: output})
	assert.ErrorIs(t, err, sds.ErrNoData)

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunInvalidRequests(t *testing.T) {
	dir := t.TempDir()
	good := touch(t, dir, "a.pdf")
	notes := touch(t, dir, "notes.txt")
	out := filepath.Join(dir, "out.xlsx")

	tests := []struct {
		name string
		req  Request
	}{
		{"no inputs", Request{Output: out}},
		{"non pdf input", Request{Inputs: []string{notes}, Output: out}},
		{"missing input", Request{Inputs: []string{filepath.Join(dir, "nope.pdf")}, Output: out}},
		{"no output", Request{Inputs: []string{good}}},
		{"bad output format", Request{Inputs: []string{good}, Output: "out.json"}},
		{"bad existing format", Request{Inputs: []string{good}, Existing: "old.xls", Output: out}},
		{"bad duplicate check", Request{Inputs: []string{good}, Output: out, Options: sds.Options{DuplicateCheck: "name"}}},
	}

	svc := newTestService(&fakeExtractor{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Run(context.Background(), tt.req)
			assert.ErrorIs(t, err, sds.ErrInvalidRequest)
		})
	}
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	b := touch(t, dir, "b.pdf")
	a := touch(t, dir, "a.PDF")
	nested := touch(t, dir, "sub/c.pdf")
	touch(t, dir, "readme.txt")
	extra := touch(t, t.TempDir(), "z.pdf")

	files, err := ExpandInputs([]string{dir, extra})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b, nested, extra}, files)

	_, err = ExpandInputs([]string{t.TempDir()})
	assert.ErrorIs(t, err, sds.ErrInvalidRequest)
}

func TestRunCancelled(t *testing.T) {
	dir := t.TempDir()
	in := touch(t, dir, "a.pdf")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	x := &fakeExtractor{texts: map[string]string{"a.pdf": acetoneText}}
	_, err := newTestService(x).Run(ctx, Request{Inputs: []string{in}, Output: filepath.Join(dir, "out.csv")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "acetone.txt")
	require.NoError(t, os.WriteFile(txt, []byte(acetoneText), 0o600))
	pdfPath := touch(t, dir, "ethanol.pdf")

	svc := newTestService(&fakeExtractor{texts: map[string]string{"ethanol.pdf": ethanolText}})

	rec, err := svc.Inspect(context.Background(), txt)
	require.NoError(t, err)
	assert.Equal(t, "67-64-1", rec.Get(sds.ColCASNumber).String())
	assert.Equal(t, "acetone", rec.Get(sds.ColDescription).String())

	rec, err = svc.Inspect(context.Background(), pdfPath)
	require.NoError(t, err)
	assert.Equal(t, "Ethanol", rec.Get(sds.ColMaterialName).String())
}
