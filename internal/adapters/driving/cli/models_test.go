package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestModelsCmd_ListsAllowedModels(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "models")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(domain.AllowedModels()))
	for i, m := range domain.AllowedModels() {
		assert.Contains(t, lines[i], m.ID)
		assert.Contains(t, lines[i], m.Label)
	}
	assert.True(t, strings.HasPrefix(lines[0], "*"))
}

func TestModelsCmd_ListsConfiguredProviderModels(t *testing.T) {
	ts := setupTestServices(t)
	ts.chat.models = domain.LocalCatalog("llama3.2")

	out, err := execute(t, "models")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "*"))
	assert.Contains(t, lines[0], "llama3.2")
}
