// Package document converts uploaded résumé files into plain text.
package document

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

type Format string

const (
	FormatPDF Format = "pdf"
	// FormatWord is an OOXML (.docx) word-processing document. Legacy binary
	// .doc files and application/msword content resolve to it as well but
	// always fail extraction with an ExtractionError.
	FormatWord Format = "word-doc"
	FormatText Format = "plain-text"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrExtraction        = errors.New("document extraction failed")
)

// UnsupportedFormatError is returned when the declared format is not recognized.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.Format)
}

func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// ExtractionError is returned when content cannot be parsed as its declared format.
type ExtractionError struct {
	Format Format
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s text: %v", e.Format, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtraction
}

var mimeFormats = map[string]Format{
	"application/pdf":    FormatPDF,
	"application/msword": FormatWord,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FormatWord,
	"text/plain": FormatText,
}

var extFormats = map[string]Format{
	".pdf":  FormatPDF,
	".doc":  FormatWord,
	".docx": FormatWord,
	".txt":  FormatText,
}

// ParseFormat resolves a declared format given as a format identifier, a MIME
// type or a file extension.
func ParseFormat(declared string) (Format, error) {
	value := strings.ToLower(strings.TrimSpace(declared))

	switch Format(value) {
	case FormatPDF, FormatWord, FormatText:
		return Format(value), nil
	}

	if mediaType, _, err := mime.ParseMediaType(value); err == nil {
		if f, ok := mimeFormats[mediaType]; ok {
			return f, nil
		}
	}

	if f, ok := extFormats[value]; ok {
		return f, nil
	}

	return "", &UnsupportedFormatError{Format: declared}
}

// FormatFromFilename resolves the format from the file extension.
func FormatFromFilename(name string) (Format, error) {
	ext := filepath.Ext(name)
	if ext == "" {
		return "", &UnsupportedFormatError{Format: name}
	}
	return ParseFormat(ext)
}

// Extractor turns document bytes into text. It holds no state besides the logger.
type Extractor struct {
	logger *zap.Logger
}

func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Extract returns the text of content decoded as format. On failure the
// returned text is always empty.
func (e *Extractor) Extract(content []byte, format Format) (string, error) {
	var (
		text string
		err  error
	)

	switch format {
	case FormatPDF:
		text, err = extractPDF(content)
	case FormatWord:
		text, err = extractWord(content)
	case FormatText:
		text = extractPlain(content)
	default:
		return "", &UnsupportedFormatError{Format: string(format)}
	}

	if err != nil {
		e.logger.Debug("document extraction failed",
			zap.String("format", string(format)),
			zap.Int("size", len(content)),
			zap.Error(err),
		)
		return "", &ExtractionError{Format: format, Err: err}
	}

	e.logger.Debug("document extracted",
		zap.String("format", string(format)),
		zap.Int("size", len(content)),
		zap.Int("text_length", len(text)),
	)

	return text, nil
}
