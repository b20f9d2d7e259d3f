package domain

import (
	"path/filepath"
	"strings"
)

// DocumentType is the declared type of an uploaded document.
type DocumentType string

// Supported document types.
const (
	DocumentTypePDF     DocumentType = "pdf"
	DocumentTypeDOCX    DocumentType = "docx"
	DocumentTypeText    DocumentType = "txt"
	DocumentTypeUnknown DocumentType = ""
)

// DocumentTypeOf returns the document type declared by a file name's extension.
func DocumentTypeOf(name string) DocumentType {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return DocumentTypePDF
	case ".docx":
		return DocumentTypeDOCX
	case ".txt":
		return DocumentTypeText
	default:
		return DocumentTypeUnknown
	}
}

// Document is an uploaded file. It is consumed once during ingest and
// never retained.
type Document struct {
	// Name is the original file name, including its extension.
	Name string

	// Content holds the raw file bytes.
	Content []byte
}

// Type returns the document's declared type.
func (d Document) Type() DocumentType {
	return DocumentTypeOf(d.Name)
}

// Extension returns the lower-cased file extension, including the dot.
func (d Document) Extension() string {
	return strings.ToLower(filepath.Ext(d.Name))
}

// Chunk is a slice of session text returned by retrieval.
// Position within the source is implicit in index order.
type Chunk struct {
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// IngestSummary describes the outcome of a successful ingest.
type IngestSummary struct {
	// Documents is the number of files that contributed text.
	Documents int `json:"documents"`

	// Characters is the length of the concatenated text.
	Characters int `json:"characters"`

	// Chunks is the number of chunks written to the index.
	Chunks int `json:"chunks"`

	// Skipped lists files that contributed no text.
	Skipped []string `json:"skipped,omitempty"`
}
