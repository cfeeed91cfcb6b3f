// Package pdf converts exported transcripts to PDF.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mandolyte/mdtopdf"
)

var boldPattern = regexp.MustCompile(`\*\*([^*]+)\*\*`)

// The PDF core fonts cover Latin-1 only. Symbols produced by render.Format
// outside of it are spelled out; ², ³, ×, ·, ° and • are kept.
var symbolReplacer = strings.NewReplacer(
	"√", "sqrt",
	"π", "pi",
	"θ", "theta",
	"≈", "~",
	"≤", "<=",
	"≥", ">=",
	"∞", "inf",
)

// ConvertMarkdownToPDF writes a PDF next to markdownPath and returns its
// absolute path.
func ConvertMarkdownToPDF(markdownPath string) (string, error) {
	if !strings.HasSuffix(markdownPath, ".md") {
		return "", fmt.Errorf("input file must have .md extension: %s", markdownPath)
	}

	content, err := os.ReadFile(markdownPath)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", markdownPath, err)
	}

	pdfPath := strings.TrimSuffix(markdownPath, ".md") + ".pdf"
	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	renderer.UpdateBlockquoteStyler()
	if err := renderer.Process(preprocess(content)); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}
	return absPath, nil
}

func preprocess(content []byte) []byte {
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		line = symbolReplacer.Replace(line)
		// blockquotes are italic already and mdtopdf drops inline bold in them
		if strings.HasPrefix(line, "> ") {
			line = boldPattern.ReplaceAllString(line, "$1")
		}
		lines[i] = line
	}
	return []byte(strings.Join(lines, "\n"))
}
