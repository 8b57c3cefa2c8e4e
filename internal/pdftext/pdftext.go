// Package pdftext converts statement PDFs into the plain text the pipeline
// consumes. Extraction is best effort: row-based extraction first for layout
// preservation, whole-document plain text as the fallback.
package pdftext

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractText reads a PDF file and returns its text content.
func ExtractText(filePath string) (text string, err error) {
	// The pdf library panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdftext: extraction crashed on %q: %v", filePath, r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("pdftext: open %q: %w", filePath, err)
	}
	defer f.Close()

	if r.NumPage() == 0 {
		return "", fmt.Errorf("pdftext: %q has no pages", filePath)
	}

	text = extractByRow(r)
	if strings.TrimSpace(text) != "" {
		return text, nil
	}

	text = extractPlainText(r)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("pdftext: no extractable text in %q", filePath)
	}
	return text, nil
}

// extractByRow walks each page row by row, preserving the line structure
// the downstream regex heuristics depend on.
func extractByRow(r *pdf.Reader) string {
	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			line := strings.TrimSpace(strings.Join(parts, " "))
			if line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			pages = append(pages, strings.Join(lines, "\n"))
		}
	}
	return strings.Join(pages, "\n\n")
}

func extractPlainText(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// ConvertDir extracts text from every PDF in srcDir and writes numbered
// statement<N>.txt files to dstDir, numbering PDFs in sorted filename order.
// It returns the written text filenames.
func ConvertDir(srcDir, dstDir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(srcDir, "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("pdftext: list PDFs in %q: %w", srcDir, err)
	}
	sort.Strings(matches)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return nil, fmt.Errorf("pdftext: create %q: %w", dstDir, err)
	}

	var written []string
	for i, src := range matches {
		text, err := ExtractText(src)
		if err != nil {
			return written, err
		}
		name := fmt.Sprintf("statement%d.txt", i+1)
		if err := os.WriteFile(filepath.Join(dstDir, name), []byte(text), 0o644); err != nil {
			return written, fmt.Errorf("pdftext: write %q: %w", name, err)
		}
		written = append(written, name)
	}
	return written, nil
}
