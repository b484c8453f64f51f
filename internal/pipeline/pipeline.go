// Package pipeline runs a complete extraction job: validate inputs, pull
// text from every PDF, consolidate against an existing table and write the
// result.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/a3tai/mcp-sds-extractor/internal/pdf"
	"github.com/a3tai/mcp-sds-extractor/internal/sds"
	"github.com/a3tai/mcp-sds-extractor/internal/table"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TextExtractor produces plain text from a PDF file.
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// Request describes one batch job.
type Request struct {
	// Inputs are PDF files or directories searched for PDF files.
	Inputs []string
	// Existing is an optional table the new entries are appended to.
	Existing string
	// Output is the table written on success.
	Output  string
	Options sds.Options
}

// Result reports a finished job.
type Result struct {
	BatchID string     `json:"batchId"`
	Output  string     `json:"outputFile"`
	Message string     `json:"message"`
	Stats   *sds.Stats `json:"stats"`
}

// Service wires text extraction, consolidation and table storage.
type Service struct {
	extractor TextExtractor
	store     table.Store
	validator *pdf.Validator
	processor *sds.Processor
	assembler *sds.Assembler
	logger    *zap.Logger
}

// NewService creates a pipeline service.
func NewService(extractor TextExtractor, store table.Store, validator *pdf.Validator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		extractor: extractor,
		store:     store,
		validator: validator,
		processor: sds.NewProcessor(logger),
		assembler: sds.NewAssembler(logger),
		logger:    logger,
	}
}

// Run executes the job. Caller mistakes wrap sds.ErrInvalidRequest and are
// reported before any file is read. A PDF that fails validation is skipped
// like one that cannot be parsed; a batch without usable text returns
// sds.ErrNoData.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	files, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	log := s.logger.With(zap.String("batch_id", id))
	log.Info("pipeline: starting batch",
		zap.Int("files", len(files)),
		zap.String("output", req.Output),
	)

	docs, err := s.extractAll(ctx, log, files, req.Options.Workers)
	if err != nil {
		return nil, err
	}

	existing := s.readExisting(log, req.Existing)

	ds, stats, err := s.processor.ProcessBatch(ctx, docs, req.Options, existing)
	if err != nil {
		return nil, err
	}

	out := &table.Table{Header: ds.Header(), Rows: ds.Rows()}
	if err := s.store.Write(req.Output, out); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", req.Output, err)
	}

	msg := stats.Message()
	log.Info("pipeline: batch complete",
		zap.String("message", msg),
		zap.Int("skipped", len(stats.Skipped)),
		zap.Int("total_entries", stats.TotalEntriesInOutput),
	)

	return &Result{BatchID: id, Output: req.Output, Message: msg, Stats: stats}, nil
}

func (s *Service) validate(req Request) ([]string, error) {
	if strings.TrimSpace(req.Output) == "" {
		return nil, fmt.Errorf("%w: output path is required", sds.ErrInvalidRequest)
	}
	if !table.Supported(req.Output) {
		return nil, fmt.Errorf("%w: output must be an .xlsx or .csv file: %s", sds.ErrInvalidRequest, req.Output)
	}
	if req.Existing != "" && !table.Supported(req.Existing) {
		return nil, fmt.Errorf("%w: existing table must be an .xlsx or .csv file: %s", sds.ErrInvalidRequest, req.Existing)
	}
	if _, err := sds.ParseDuplicateCheck(string(req.Options.DuplicateCheck)); err != nil {
		return nil, err
	}

	return ExpandInputs(req.Inputs)
}

// ExpandInputs resolves files and directories to the list of PDF files to
// process. Directories are searched recursively in lexical order; a file
// named explicitly must be a PDF.
func ExpandInputs(inputs []string) ([]string, error) {
	var files []string
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, fmt.Errorf("%w: cannot access %s: %w", sds.ErrInvalidRequest, in, err)
		}
		if !info.IsDir() {
			if !pdf.IsPDFName(in) {
				return nil, fmt.Errorf("%w: invalid PDF file format: %s", sds.ErrInvalidRequest, filepath.Base(in))
			}
			files = append(files, in)
			continue
		}

		err = filepath.WalkDir(in, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && pdf.IsPDFName(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to search %s: %w", in, err)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no PDF files given", sds.ErrInvalidRequest)
	}
	return files, nil
}

// extractAll pulls text concurrently; documents keep the order of files.
// Per-file failures are recorded on the document, not returned.
func (s *Service) extractAll(ctx context.Context, log *zap.Logger, files []string, workers int) ([]sds.Document, error) {
	if workers < 1 {
		workers = 1
	}
	docs := make([]sds.Document, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range files {
		g.Go(func() error {
			name := filepath.Base(path)
			if s.validator != nil {
				if err := s.validator.ValidateFile(path); err != nil {
					log.Warn("pipeline: skipping invalid file", zap.String("file", name), zap.Error(err))
					docs[i] = sds.Document{Filename: name, Err: err}
					return nil
				}
			}
			text, err := s.extractor.ExtractText(gctx, path)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			if errors.Is(err, pdf.ErrNoText) {
				text, err = "", nil
			}
			docs[i] = sds.Document{Filename: name, Text: text, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// readExisting loads the table to append to. An unreadable table is logged
// and treated as empty so that new data is still written.
func (s *Service) readExisting(log *zap.Logger, path string) sds.Dataset {
	if path == "" {
		return nil
	}
	t, err := s.store.Read(path)
	if err != nil {
		log.Warn("pipeline: cannot read existing table, writing new data only",
			zap.String("path", path),
			zap.Error(err),
		)
		return nil
	}
	ds := sds.FromTable(t.Header, t.Rows)
	log.Info("pipeline: read existing table", zap.String("path", path), zap.Int("rows", len(ds)))
	return ds
}

// Inspect extracts a single record from a PDF, or from a .txt file holding
// already extracted text.
func (s *Service) Inspect(ctx context.Context, path string) (sds.Record, error) {
	var text string
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		b, err := os.ReadFile(path)
		if err != nil {
			return sds.Record{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
		text = string(b)
	} else {
		if s.validator != nil {
			if err := s.validator.ValidateFile(path); err != nil {
				return sds.Record{}, fmt.Errorf("%w: %w", sds.ErrInvalidRequest, err)
			}
		}
		var err error
		if text, err = s.extractor.ExtractText(ctx, path); err != nil {
			return sds.Record{}, err
		}
	}
	return s.assembler.Assemble(text, filepath.Base(path)), nil
}
