// Package extract turns submitted documents into idea text and import records.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/DolphinWorld/demandsolution-codex/internal/intake"
	"github.com/DolphinWorld/demandsolution-codex/internal/models"
	"github.com/DolphinWorld/demandsolution-codex/pkg/utils"
)

// ErrNoRecords is returned when a document holds nothing importable.
var ErrNoRecords = errors.New("no importable records")

// Extractor extracts text and idea records from document files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the file at path and returns its text content.
// Plain text and markdown are returned as-is (UTF-8 validated); PDF, DOCX and
// XLSX text is pulled out of the binary format.
func (e *Extractor) Extract(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return e.ExtractBytes(content, strings.ToLower(filepath.Ext(path)))
}

// ExtractBytes extracts text from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf").
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	switch ext {
	case ".pdf":
		return extractPDF(content)
	case ".docx":
		return extractDOCX(content)
	case ".xlsx":
		return extractExcel(content)
	default:
		return extractPlain(content)
	}
}

// Records reads the file at path and splits it into import records.
func (e *Extractor) Records(path string) ([]intake.Record, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return e.RecordsBytes(content, strings.ToLower(filepath.Ext(path)))
}

// RecordsBytes splits content into import records:
//   - .xlsx: one record per row under a header row naming the columns
//   - .txt, .md: one record per paragraph
//   - .pdf, .docx: the whole document is one idea
func (e *Extractor) RecordsBytes(content []byte, ext string) ([]intake.Record, error) {
	var (
		records []intake.Record
		err     error
	)
	switch ext {
	case ".xlsx":
		records, err = excelRecords(content)
	case ".pdf", ".docx":
		var text string
		text, err = e.ExtractBytes(content, ext)
		if raw := utils.FirstNRunes(utils.CollapseWhitespace(text), models.MaxRawInputLength); raw != "" {
			records = []intake.Record{{Input: models.IdeaInput{RawInputText: raw}}}
		}
	default:
		var text string
		text, err = extractPlain(content)
		records = paragraphRecords(text)
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}
