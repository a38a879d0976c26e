package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"

	"github.com/djvaroli/brevity/internal/domain/summarizer"
)

// ErrUnsupported is returned for content types without an extractor.
var ErrUnsupported = errors.New("unsupported document type")

// Extractor turns PDF, HTML and plain text files into text.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor constructs an Extractor.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger.With("component", "document.extractor")}
}

// ExtractText sniffs the file content and dispatches to a format extractor.
func (e *Extractor) ExtractText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("detect content type: %w", err)
	}
	e.logger.Debug("document type detected", "path", path, "mime", mt.String())

	var text string
	switch {
	case mt.Is("application/pdf"):
		text, err = extractPDF(path)
	case mt.Is("text/html"), mt.Is("application/xhtml+xml"):
		text, err = extractHTML(path)
	case isText(mt):
		text, err = extractPlain(path)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, mt.String())
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		e.logger.Warn("document contains no text", "path", path, "mime", mt.String())
	}
	return text, nil
}

func isText(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// The pdf reader panics on some malformed files.
func extractPDF(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read pdf: %v", r)
		}
	}()
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

func extractHTML(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open html: %w", err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript, template").Remove()
	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}
	return compactLines(root.Text()), nil
}

func extractPlain(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	return string(raw), nil
}

// compactLines trims every line and drops blank ones.
func compactLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if trimmed := strings.Join(strings.Fields(line), " "); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, "\n")
}

var _ summarizer.TextExtractor = (*Extractor)(nil)
