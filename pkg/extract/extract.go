// Package extract converts stored submission files into plain text.
//
// Supported formats:
//   - text — UTF-8 with invalid byte sequences replaced
//   - pdf  — per-page text concatenated in page order
//   - docx — paragraph texts joined with single newlines
//
// Extraction is a pure transform over the supplied bytes; callers own any
// caching of the result.
package extract

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
)

// Format tags the declared encoding of a submission file.
type Format string

const (
	// FormatText marks plain UTF-8 text files.
	FormatText Format = "text"
	// FormatPDF marks PDF documents.
	FormatPDF Format = "pdf"
	// FormatDocx marks Microsoft Word documents.
	FormatDocx Format = "docx"
)

// ErrUnsupportedFormat indicates the format tag is not one of text, pdf or docx.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Extractor turns raw file bytes into plain text.
type Extractor struct {
	logger zerolog.Logger
}

// New constructs an Extractor.
func New(logger zerolog.Logger) *Extractor {
	return &Extractor{logger: logger.With().Str("component", "extractor").Logger()}
}

// Extract converts the file content into plain text according to its format
// tag. Identical bytes and format always yield identical text.
func (e *Extractor) Extract(data []byte, format Format) (string, error) {
	switch format {
	case FormatText:
		return decodeText(data), nil
	case FormatPDF:
		return e.extractPDF(data)
	case FormatDocx:
		return extractDocx(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ParseFormat validates a format tag supplied by a caller.
func ParseFormat(tag string) (Format, error) {
	switch Format(tag) {
	case FormatText, FormatPDF, FormatDocx:
		return Format(tag), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, tag)
	}
}

// DetectFormat derives the format tag from the file name and sniffs the
// content to reject mislabelled uploads.
func DetectFormat(filename string, data []byte) (Format, error) {
	var format Format
	switch {
	case strings.HasSuffix(strings.ToLower(filename), ".txt"):
		format = FormatText
	case strings.HasSuffix(strings.ToLower(filename), ".pdf"):
		format = FormatPDF
	case strings.HasSuffix(strings.ToLower(filename), ".docx"):
		format = FormatDocx
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	}

	detected := mimetype.Detect(data)
	switch format {
	case FormatPDF:
		if !detected.Is("application/pdf") {
			return "", fmt.Errorf("%w: %s content is not a pdf", ErrUnsupportedFormat, filename)
		}
	case FormatDocx:
		if !detected.Is("application/vnd.openxmlformats-officedocument.wordprocessingml.document") &&
			!detected.Is("application/zip") {
			return "", fmt.Errorf("%w: %s content is not a docx", ErrUnsupportedFormat, filename)
		}
	}

	return format, nil
}

// decodeText replaces invalid UTF-8 sequences instead of aborting so a stray
// byte never sinks a whole submission.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	var b strings.Builder
	b.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(utf8.RuneError)
		} else {
			b.WriteRune(r)
		}
		data = data[size:]
	}

	return b.String()
}
