package sds

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoData is returned when no document in a batch yielded text.
	ErrNoData = errors.New("no valid SDS data could be extracted from any PDF file")
	// ErrInvalidRequest marks caller mistakes detected before extraction.
	ErrInvalidRequest = errors.New("invalid request")
)

// Document is the extracted text of one source file. Err records a text
// extraction failure; such documents are skipped.
type Document struct {
	Filename string
	Text     string
	Err      error
}

// Options control consolidation of a batch.
type Options struct {
	MergeDuplicates bool           `json:"mergeDuplicates"`
	DuplicateCheck  DuplicateCheck `json:"duplicateCheck"`
	// Workers bounds concurrent assembly; values below 2 run sequentially.
	Workers int `json:"-"`
}

// SkippedFile names a document left out of the batch and why.
type SkippedFile struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

func (s SkippedFile) String() string {
	return fmt.Sprintf("%s (%s)", s.Filename, s.Reason)
}

// Stats describes the outcome of a batch.
type Stats struct {
	TotalFiles           int           `json:"totalFiles"`
	ProcessedFiles       int           `json:"processedFiles"`
	Skipped              []SkippedFile `json:"skippedFiles,omitempty"`
	MergedEntries        int           `json:"mergedEntries"`
	UniqueEntries        int           `json:"uniqueEntries"`
	NewEntriesAdded      int           `json:"newEntriesAdded"`
	TotalEntriesInOutput int           `json:"totalEntriesInOutput"`
	Options              Options       `json:"processingOptions"`
}

// Message renders a one-line summary of the batch.
func (s *Stats) Message() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Successfully processed %d PDF files", s.ProcessedFiles)
	if s.NewEntriesAdded > 0 {
		fmt.Fprintf(&b, ", added %d new entries", s.NewEntriesAdded)
	} else {
		b.WriteString(", no new entries added")
		if s.Options.DuplicateCheck != CheckNone && s.Options.DuplicateCheck != "" {
			fmt.Fprintf(&b, " (duplicate check: %s)", s.Options.DuplicateCheck)
		}
	}
	if s.Options.MergeDuplicates && s.MergedEntries > 0 {
		fmt.Fprintf(&b, " (merged %d entries into %d unique entries by CAS Number)",
			s.UniqueEntries+s.MergedEntries, s.UniqueEntries)
	}
	return b.String()
}

// Processor turns document texts into a consolidated dataset.
type Processor struct {
	logger    *zap.Logger
	assembler *Assembler
}

// NewProcessor creates a processor with the built-in extractors.
func NewProcessor(logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{logger: logger, assembler: NewAssembler(logger)}
}

// ProcessBatch assembles one record per usable document, merges and
// de-duplicates them against existing, and returns existing followed by the
// new records. The result is in input order regardless of Workers.
func (p *Processor) ProcessBatch(ctx context.Context, docs []Document, opts Options, existing Dataset) (Dataset, *Stats, error) {
	if len(docs) == 0 {
		return nil, nil, fmt.Errorf("%w: no documents", ErrInvalidRequest)
	}
	check, err := ParseDuplicateCheck(string(opts.DuplicateCheck))
	if err != nil {
		return nil, nil, err
	}
	opts.DuplicateCheck = check

	p.logger.Info("sds: processing batch",
		zap.Int("documents", len(docs)),
		zap.Bool("merge_duplicates", opts.MergeDuplicates),
		zap.String("duplicate_check", string(check)),
	)

	records, skipped, err := p.assembleAll(ctx, docs, opts.Workers)
	if err != nil {
		return nil, nil, err
	}

	stats := &Stats{
		TotalFiles:     len(docs),
		ProcessedFiles: len(records),
		Skipped:        skipped,
		Options:        opts,
	}
	if len(records) == 0 {
		return nil, stats, ErrNoData
	}

	merged, mr := Merge(records, opts.MergeDuplicates)
	stats.MergedEntries = mr.Merged
	stats.UniqueEntries = mr.Unique
	if mr.Merged > 0 {
		p.logger.Info("sds: merged entries",
			zap.Int("entries", len(records)),
			zap.Int("unique", mr.Unique),
		)
	}

	fresh := FilterDuplicates(existing, merged, check)
	if dropped := len(merged) - len(fresh); dropped > 0 {
		p.logger.Info("sds: dropped duplicates",
			zap.Int("dropped", dropped),
			zap.String("duplicate_check", string(check)),
		)
	}

	out := Append(existing, fresh)
	stats.NewEntriesAdded = len(fresh)
	stats.TotalEntriesInOutput = len(out)
	return out, stats, nil
}

type slot struct {
	record  Record
	skipped *SkippedFile
}

func (p *Processor) assembleAll(ctx context.Context, docs []Document, workers int) ([]Record, []SkippedFile, error) {
	if workers < 1 {
		workers = 1
	}
	slots := make([]slot, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range docs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[i] = p.assembleOne(docs[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var (
		records []Record
		skipped []SkippedFile
	)
	for _, s := range slots {
		if s.skipped != nil {
			skipped = append(skipped, *s.skipped)
			continue
		}
		records = append(records, s.record)
	}
	return records, skipped, nil
}

func (p *Processor) assembleOne(doc Document) slot {
	switch {
	case doc.Err != nil:
		p.logger.Error("sds: processing error", zap.String("file", doc.Filename), zap.Error(doc.Err))
		return slot{skipped: &SkippedFile{Filename: doc.Filename, Reason: "processing error: " + doc.Err.Error()}}
	case strings.TrimSpace(doc.Text) == "":
		p.logger.Warn("sds: no text extracted", zap.String("file", doc.Filename))
		return slot{skipped: &SkippedFile{Filename: doc.Filename, Reason: "no text extracted"}}
	}
	rec := p.assembler.Assemble(doc.Text, doc.Filename)
	p.logger.Info("sds: processed document", zap.String("file", doc.Filename))
	return slot{record: rec}
}
