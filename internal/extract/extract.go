package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrUnsupportedFormat marks payloads whose container is recognised but cannot be read.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrUnreadable marks corrupt, truncated, encrypted or empty PDF/DOCX payloads.
	ErrUnreadable = errors.New("unreadable document")
)

// Format is the extraction variant selected for a file.
type Format string

const (
	FormatText Format = "text"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

var formatsByExt = map[string]Format{
	"pdf":  FormatPDF,
	"docx": FormatDOCX,
	"doc":  FormatDOCX,
}

var readers = map[Format]func(data []byte) (string, error){
	FormatPDF:  readPDF,
	FormatDOCX: readDOCX,
	FormatText: readText,
}

// FileType returns the lower-cased substring after the last '.' of filename,
// or "" when the name has no '.'.
func FileType(filename string) string {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(filename[i+1:]))
}

// FormatFor returns the extraction variant for filename. Unknown and missing
// extensions fall back to lossy text.
func FormatFor(filename string) Format {
	if f, ok := formatsByExt[FileType(filename)]; ok {
		return f
	}
	return FormatText
}

// Extractor converts uploaded document bytes into plain text. It holds no state
// and is safe for concurrent use.
type Extractor struct{}

// New returns an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the plain text of data, choosing the reader from filename.
// Empty output is not an error here; callers decide whether it is usable.
func (e *Extractor) Extract(ctx context.Context, data []byte, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	format := FormatFor(filename)
	text, err := readers[format](data)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", format, err)
	}
	return cleanText(text), nil
}

// cleanText drops invalid UTF-8 and NUL characters, which Postgres cannot
// store in text or JSONB columns.
func cleanText(s string) string {
	s = strings.ToValidUTF8(s, "")
	return strings.ReplaceAll(s, "\x00", "")
}

func readPDF(data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty payload", ErrUnreadable)
	}
	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: %v", ErrUnreadable, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	total := reader.NumPage()
	if total == 0 {
		return "", fmt.Errorf("%w: no pages", ErrUnreadable)
	}
	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %w", ErrUnreadable, i, err)
		}
		pages = append(pages, content)
	}
	return strings.Join(pages, "\n"), nil
}

func readText(data []byte) (string, error) {
	return strings.TrimPrefix(cleanText(string(data)), "\ufeff"), nil
}
