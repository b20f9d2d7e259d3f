package sessionid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestNew_IsValid(t *testing.T) {
	id := New()
	require.NoError(t, Validate(id))
	assert.NotEqual(t, id, New())
}

func TestValidate(t *testing.T) {
	valid := "3f1c2a9e-8d4b-4c1e-9a6f-2b7d5e0c1a34"

	tests := []struct {
		name string
		id   string
		ok   bool
	}{
		{"canonical", valid, true},
		{"empty", "", false},
		{"path traversal", "../../etc/passwd", false},
		{"upper case", strings.ToUpper(valid), false},
		{"braced", "{" + valid + "}", false},
		{"urn", "urn:uuid:" + valid, false},
		{"no hyphens", strings.ReplaceAll(valid, "-", ""), false},
		{"not hex", "zzzzzzzz-8d4b-4c1e-9a6f-2b7d5e0c1a34", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.id)
			if tt.ok {
				assert.NoError(t, err)
				assert.True(t, IsValid(tt.id))
				return
			}
			assert.ErrorIs(t, err, domain.ErrInvalidSessionID)
			assert.False(t, IsValid(tt.id))
		})
	}
}
