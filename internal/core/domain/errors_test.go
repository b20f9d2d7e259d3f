package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrInvalidSessionID", ErrInvalidSessionID},
		{"ErrNoDocuments", ErrNoDocuments},
		{"ErrNoText", ErrNoText},
		{"ErrIndexUnavailable", ErrIndexUnavailable},
		{"ErrEmbeddingModelMismatch", ErrEmbeddingModelMismatch},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrRateLimited", ErrRateLimited},
		{"ErrExtractorUnavailable", ErrExtractorUnavailable},
		{"ErrVideoTooLong", ErrVideoTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_WrappedCategory(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, cause)

	assert.ErrorIs(t, err, ErrEmbeddingUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrLLMUnavailable)
}
