package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// TextExtractor is the boundary to raw document extraction: bytes in, text
// out. Extraction failures are the caller's problem to skip and log; the
// pipeline never aborts on one bad document.
type TextExtractor interface {
	Extract(path string) (string, error)
	Supported(path string) bool
}

// FileExtractor extracts text from the corpus file types: plain text,
// markdown and PDF (via UniPDF).
type FileExtractor struct{}

// NewFileExtractor configures the UniPDF license from the environment and
// returns an extractor. A missing license key only breaks PDF extraction,
// so it is logged rather than fatal.
func NewFileExtractor() *FileExtractor {
	if err := license.SetMeteredKey(os.Getenv("UNIDOC_LICENSE_KEY")); err != nil {
		log.Printf("EXTRACTOR: failed to set UniPDF license key: %v. PDF extraction will fail.", err)
	}
	return &FileExtractor{}
}

// Supported reports whether the file extension is one the extractor handles.
func (e *FileExtractor) Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".pdf":
		return true
	}
	return false
}

// Extract reads a file and returns its text content, dispatching on
// extension.
func (e *FileExtractor) Extract(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt", ".md":
		content, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(content), nil
	case ".pdf":
		return extractPDF(path)
	default:
		return "", fmt.Errorf("unsupported file type: %s", ext)
	}
}

// extractPDF pulls the text of every page, separated by blank lines.
func extractPDF(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader, err := model.NewPdfReader(f)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	numPages, err := reader.GetNumPages()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d: %w", i, err)
		}
		ex, err := extractor.New(page)
		if err != nil {
			return "", err
		}
		text, err := ex.ExtractText()
		if err != nil {
			return "", fmt.Errorf("failed to extract page %d: %w", i, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}
	log.Printf("EXTRACTOR: extracted %d characters from %d pages of %s", sb.Len(), numPages, filepath.Base(path))
	return sb.String(), nil
}
