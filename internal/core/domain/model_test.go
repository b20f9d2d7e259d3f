package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowedModels(t *testing.T) {
	models := AllowedModels()

	assert.Len(t, models, 3)
	assert.Equal(t, DefaultModel, models[0].ID)
	for _, m := range models {
		assert.NotEmpty(t, m.Label)
		assert.True(t, IsAllowedModel(m.ID))
	}
}

func TestIsAllowedModel_Rejects(t *testing.T) {
	assert.False(t, IsAllowedModel(""))
	assert.False(t, IsAllowedModel("gpt-4o"))
	assert.False(t, IsAllowedModel(DefaultVisionModel))
}

func TestHostedCatalog(t *testing.T) {
	c := HostedCatalog()

	assert.Equal(t, DefaultModel, c.Default)
	assert.Equal(t, AllowedModels(), c.Options)
	assert.True(t, c.Allows(ModelQwen))
	assert.False(t, c.Allows("llama3.2"))
}

func TestModelCatalog_WithDefault(t *testing.T) {
	t.Run("listed model", func(t *testing.T) {
		c := HostedCatalog().WithDefault(ModelQwen)

		assert.Equal(t, ModelQwen, c.Default)
		assert.Len(t, c.Options, 3)
	})

	t.Run("unlisted model is added first", func(t *testing.T) {
		c := HostedCatalog().WithDefault("mistralai/mistral-7b-instruct:free")

		require.Len(t, c.Options, 4)
		assert.Equal(t, "mistralai/mistral-7b-instruct:free", c.Options[0].ID)
		assert.Equal(t, "mistralai/mistral-7b-instruct:free", c.Default)
		assert.True(t, c.Allows(ModelGPTOSS))
	})

	t.Run("empty id", func(t *testing.T) {
		assert.Equal(t, HostedCatalog(), HostedCatalog().WithDefault(""))
	})
}

func TestModelCatalog_Resolve(t *testing.T) {
	c := LocalCatalog("llama3.2")

	id, ok := c.Resolve("")
	assert.True(t, ok)
	assert.Equal(t, "llama3.2", id)

	id, ok = c.Resolve("llama3.2")
	assert.True(t, ok)
	assert.Equal(t, "llama3.2", id)

	_, ok = c.Resolve(DefaultModel)
	assert.False(t, ok)
}

func TestModelCatalog_Label(t *testing.T) {
	c := HostedCatalog()

	assert.Equal(t, "Qwen3 Coder", c.Label(ModelQwen))
	assert.Equal(t, "llama3.2", c.Label("llama3.2"))
}
