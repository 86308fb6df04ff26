package ingest

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"creerlio-backend/internal/extract"
	"creerlio-backend/internal/shared/metrics"
)

// State is a step of one ingestion run.
type State string

const (
	StateExtracting  State = "extracting"
	StateNormalizing State = "normalizing"
	StateDone        State = "done"
	StateFailed      State = "failed"
)

// TextExtractor converts document bytes to text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, filename string) (string, error)
}

// RecordNormalizer converts text to a Record.
type RecordNormalizer interface {
	Normalize(ctx context.Context, text, filename string) (Record, error)
}

// Result is the outcome of one run. FailedIn is the active state that failed.
type Result struct {
	State    State
	FailedIn State
	Record   Record
	Err      error
}

// Pipeline runs Extracting then Normalizing once per document, without retries.
// It is safe for concurrent use.
type Pipeline struct {
	extractor  TextExtractor
	normalizer RecordNormalizer
	logger     *zap.Logger
}

// NewPipeline wires an extractor and a normalizer. A nil logger disables logging.
func NewPipeline(extractor TextExtractor, normalizer RecordNormalizer, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{extractor: extractor, normalizer: normalizer, logger: logger}
}

// Ingest returns the normalized record for data or an *Error.
func (p *Pipeline) Ingest(ctx context.Context, data []byte, filename string) (Record, error) {
	res := p.Run(ctx, data, filename)
	if res.Err != nil {
		return Record{}, res.Err
	}
	return res.Record, nil
}

// Run executes the pipeline and reports the terminal state.
func (p *Pipeline) Run(ctx context.Context, data []byte, filename string) Result {
	start := time.Now()
	fileType := extract.FileType(filename)
	if fileType == "" {
		fileType = "unknown"
	}
	log := p.logger.With(
		zap.String("filename", filename),
		zap.String("file_type", fileType),
		zap.Int("file_size", len(data)),
	)

	fail := func(in State, err *Error) Result {
		log.Warn("ingest.failed",
			zap.String("state", string(in)),
			zap.String("kind", string(err.Kind)),
			zap.Error(err),
		)
		metrics.ObserveIngest(string(err.Kind), time.Since(start))
		return Result{State: StateFailed, FailedIn: in, Err: err}
	}

	log.Debug("ingest.state", zap.String("state", string(StateExtracting)))
	text, err := p.extractor.Extract(ctx, data, filename)
	if err != nil {
		return fail(StateExtracting, extractionError(err))
	}
	if strings.TrimSpace(text) == "" {
		return fail(StateExtracting, newError(KindEmptyDocument, "no extractable text", nil))
	}

	log.Debug("ingest.state", zap.String("state", string(StateNormalizing)), zap.Int("text_len", len(text)))
	rec, err := p.normalizer.Normalize(ctx, text, filename)
	if err != nil {
		return fail(StateNormalizing, normalizationError(err))
	}

	rec.OriginalFilename = filename
	rec.FileType = fileType
	rec.FileSize = int64(len(data))
	rec.Normalize()

	elapsed := time.Since(start)
	log.Info("ingest.done", zap.String("parsing_model", rec.RawData.ParsingModel), zap.Duration("elapsed", elapsed))
	metrics.ObserveIngest(string(StateDone), elapsed)
	return Result{State: StateDone, Record: rec}
}

func extractionError(err error) *Error {
	if errors.Is(err, extract.ErrUnsupportedFormat) {
		return newError(KindUnsupportedFormat, "unsupported format", err)
	}
	return newError(KindExtractionFailure, "extraction failed", err)
}

// normalizationError keeps a normalizer's own *Error and folds anything else into
// a normalization_failure.
func normalizationError(err error) *Error {
	var ie *Error
	if errors.As(err, &ie) && ie.Kind == KindNormalizationFailure {
		return ie
	}
	return newError(KindNormalizationFailure, "normalization failed", err)
}

var (
	_ TextExtractor    = (*extract.Extractor)(nil)
	_ RecordNormalizer = (*Normalizer)(nil)
)
