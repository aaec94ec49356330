// Package corpus reads corpus sources (files in several formats, or inline
// text) and turns them into a speller vocabulary.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extractor extracts plain text from corpus files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the file at path and returns its text content.
// Plain text is returned with invalid UTF-8 replaced; office and PDF files
// have their text extracted from the binary format.
func (e *Extractor) Extract(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read corpus: %w", err)
	}
	return e.ExtractBytes(content, strings.ToLower(filepath.Ext(path)))
}

// ExtractBytes extracts text from content based on the given extension,
// which includes the leading dot (e.g. ".pdf"). Unknown extensions are read
// as plain text.
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	switch ext {
	case ".pdf":
		return extractPDF(content)
	case ".docx":
		return extractDOCX(content)
	case ".xlsx":
		return extractExcel(content)
	case ".pptx":
		return extractPPTX(content)
	case ".odt", ".ods", ".odp":
		return extractOpenDocument(content)
	default:
		return extractPlain(content), nil
	}
}

// SupportedExtensions lists the extensions with a dedicated extractor.
func SupportedExtensions() []string {
	return []string{".txt", ".md", ".pdf", ".docx", ".xlsx", ".pptx", ".odt", ".ods", ".odp"}
}
