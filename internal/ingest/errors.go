package ingest

import "errors"

// Kind classifies an ingestion failure.
type Kind string

const (
	KindUnsupportedFormat    Kind = "unsupported_format"
	KindExtractionFailure    Kind = "extraction_failure"
	KindEmptyDocument        Kind = "empty_document"
	KindNormalizationFailure Kind = "normalization_failure"
	KindEnhancementFailure   Kind = "enhancement_failure"
)

// Error is the single failure value returned by the ingestion core.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrUnsupportedFormat    = &Error{Kind: KindUnsupportedFormat, Message: "unsupported format"}
	ErrExtractionFailure    = &Error{Kind: KindExtractionFailure, Message: "extraction failed"}
	ErrEmptyDocument        = &Error{Kind: KindEmptyDocument, Message: "no extractable text"}
	ErrNormalizationFailure = &Error{Kind: KindNormalizationFailure, Message: "normalization failed"}
	ErrEnhancementFailure   = &Error{Kind: KindEnhancementFailure, Message: "enhancement failed"}
)

// KindOf returns the Kind carried by err, or "" when err is not an ingestion error.
func KindOf(err error) Kind {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return ""
}

func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}
