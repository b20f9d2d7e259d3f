package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentTypeOf(t *testing.T) {
	tests := []struct {
		name     string
		expected DocumentType
	}{
		{"report.pdf", DocumentTypePDF},
		{"REPORT.PDF", DocumentTypePDF},
		{"notes.docx", DocumentTypeDOCX},
		{"readme.txt", DocumentTypeText},
		{"archive.tar.gz", DocumentTypeUnknown},
		{"slides.pptx", DocumentTypeUnknown},
		{"noext", DocumentTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DocumentTypeOf(tt.name))
		})
	}
}

func TestDocument_Extension(t *testing.T) {
	doc := Document{Name: "Quarterly.Report.DOCX"}
	assert.Equal(t, ".docx", doc.Extension())
	assert.Equal(t, DocumentTypeDOCX, doc.Type())
}
