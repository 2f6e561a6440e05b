package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/verdantiq/greenlens/helper"
	"github.com/verdantiq/greenlens/model"
)

// Extractor turns filing documents (PDF or plain text) into plain text for
// indexing. PDF parsing runs under a deadline because malformed filings can
// stall the parser; on parse failure the raw bytes are salvaged for printable
// text so that a broken PDF still yields whatever readable content it holds.
type Extractor struct {
	parseTimeout time.Duration
	tempDir      string
	log          *slog.Logger
}

// NewExtractor creates an Extractor with the given parse timeout. A zero
// timeout falls back to the configured default.
func NewExtractor(parseTimeout time.Duration, logger *slog.Logger) *Extractor {
	if parseTimeout <= 0 {
		parseTimeout = model.DefaultModelConfig().ParseTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	tempDir := filepath.Join(os.TempDir(), "greenlens-extract")
	_ = os.MkdirAll(tempDir, 0755)

	return &Extractor{
		parseTimeout: parseTimeout,
		tempDir:      tempDir,
		log:          logger,
	}
}

// ExtractFile reads a document from disk and returns its plain text.
// PDFs go through structured extraction with a salvage fallback, everything
// else is treated as text. An empty result is model.ErrEmptyDocument.
func (e *Extractor) ExtractFile(ctx context.Context, filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", helper.NewError("read document file", err)
	}

	var text string
	if strings.EqualFold(filepath.Ext(filePath), ".pdf") {
		text, err = e.ExtractPDF(ctx, content)
		if err != nil {
			return "", err
		}
	} else {
		text = string(content)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", helper.NewError("extract document", model.ErrEmptyDocument)
	}
	return text, nil
}

// ExtractPDF extracts text from PDF bytes under the parse timeout.
// When structured parsing fails or times out, the printable runs of the raw
// bytes are returned instead, so partial content survives a corrupt file.
func (e *Extractor) ExtractPDF(ctx context.Context, content []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.parseTimeout)
	defer cancel()

	type parseResult struct {
		text string
		err  error
	}
	done := make(chan parseResult, 1)
	go func() {
		text, err := e.parsePDF(content)
		done <- parseResult{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		e.log.Warn("PDF parse timed out, salvaging printable text", "timeout", e.parseTimeout)
		salvaged := salvageText(content)
		if strings.TrimSpace(salvaged) == "" {
			return "", helper.NewError("extract pdf", fmt.Errorf("%w: %v", model.ErrParseTimeout, ctx.Err()))
		}
		return salvaged, nil
	case result := <-done:
		if result.err != nil {
			e.log.Warn("PDF parse failed, salvaging printable text", "error", result.err)
			salvaged := salvageText(content)
			if strings.TrimSpace(salvaged) == "" {
				return "", helper.NewError("extract pdf", result.err)
			}
			return salvaged, nil
		}
		return result.text, nil
	}
}

// parsePDF runs pdfcpu content extraction into a scratch directory and
// stitches the per-page output back together in page order.
func (e *Extractor) parsePDF(content []byte) (string, error) {
	tempFile := filepath.Join(e.tempDir, fmt.Sprintf("filing_%d_%d.pdf", os.Getpid(), time.Now().UnixNano()))
	err := os.WriteFile(tempFile, content, 0644)
	if err != nil {
		return "", helper.NewError("write temp pdf", err)
	}
	defer os.Remove(tempFile)

	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return "", helper.NewError("read pdf context", err)
	}
	pageCount := pdfCtx.PageCount

	outDir := tempFile + "_pages"
	err = os.MkdirAll(outDir, 0755)
	if err != nil {
		return "", helper.NewError("create pdf scratch dir", err)
	}
	defer os.RemoveAll(outDir)

	conf := pdfmodel.NewDefaultConfiguration()
	err = api.ExtractContentFile(tempFile, outDir, nil, conf)
	if err != nil {
		return "", helper.NewError("extract pdf content", err)
	}

	pageTexts := map[int]string{}
	files, _ := os.ReadDir(outDir)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		pageContent, err := os.ReadFile(filepath.Join(outDir, file.Name()))
		if err != nil {
			continue
		}
		var pageNum int
		if _, err := fmt.Sscanf(file.Name(), "Content_page_%d", &pageNum); err == nil {
			pageTexts[pageNum] = string(pageContent)
		}
	}

	var builder strings.Builder
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		text, ok := pageTexts[pageNum]
		if !ok {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString("\n\n")
		}
		builder.WriteString(text)
	}
	return builder.String(), nil
}

// salvageText keeps runs of printable characters from raw bytes, dropping
// runs too short to be words. Good enough to recover headings and body text
// from a PDF whose structure is broken.
func salvageText(content []byte) string {
	const minRunLength = 4

	var builder strings.Builder
	var run []rune
	flush := func() {
		if len(run) >= minRunLength {
			if builder.Len() > 0 {
				builder.WriteString(" ")
			}
			builder.WriteString(string(run))
		}
		run = run[:0]
	}

	for _, r := range string(content) {
		if r == unicode.ReplacementChar {
			flush()
			continue
		}
		if unicode.IsPrint(r) || r == '\n' || r == '\t' {
			run = append(run, r)
		} else {
			flush()
		}
	}
	flush()

	return builder.String()
}
