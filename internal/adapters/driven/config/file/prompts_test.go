package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/config"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

func TestPromptStore_ImplementsInterface(t *testing.T) {
	var _ driven.PromptStore = (*PromptStore)(nil)
}

func TestNewPromptStore_WithCustomDir(t *testing.T) {
	dir := t.TempDir()

	store, err := NewPromptStore(dir)

	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())
}

func TestNewPromptStore_DefaultDir(t *testing.T) {
	store, err := NewPromptStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(config.DefaultDataDir(), "prompts"), store.Dir())
}

func TestPromptStore_Load_CreatesDefaultFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	// Load triggers lazy init
	_, err = store.Load(driven.PromptAnswer)
	require.NoError(t, err)

	for _, f := range []string{"answer.txt", "video_summary.txt", "README.md"} {
		assert.FileExists(t, filepath.Join(dir, f))
	}
}

func TestPromptStore_Load_ReturnsDefaultContent(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	answer, err := store.Load(driven.PromptAnswer)
	require.NoError(t, err)
	assert.Contains(t, answer, domain.AnswerNotAvailable)

	filled := fmt.Sprintf(answer, "CTX", "QUESTION")
	assert.Contains(t, filled, "CTX")
	assert.Contains(t, filled, "QUESTION")
	assert.Less(t, strings.Index(filled, "CTX"), strings.Index(filled, "QUESTION"))

	video, err := store.Load(driven.PromptVideoSummary)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultVideoSummaryPrompt, video)
}

func TestPromptStore_Load_ReturnsCustomContent(t *testing.T) {
	dir := t.TempDir()
	custom := "Use only this:\n%s\n\nQ: %s"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "answer.txt"), []byte(custom), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptAnswer)
	require.NoError(t, err)
	assert.Equal(t, custom, prompt)
}

func TestPromptStore_Load_RejectsBrokenPlaceholders(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "answer.txt"), []byte("Only %s here"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "video_summary.txt"), []byte("Frames: %s"), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	answer, err := store.Load(driven.PromptAnswer)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAnswerPrompt, answer)

	video, err := store.Load(driven.PromptVideoSummary)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultVideoSummaryPrompt, video)
}

func TestPromptStore_Load_FallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, _ = store.Load(driven.PromptAnswer) // Trigger init
	store.Reload()
	require.NoError(t, os.Remove(filepath.Join(dir, "answer.txt")))

	prompt, err := store.Load(driven.PromptAnswer)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAnswerPrompt, prompt)
}

func TestPromptStore_Load_UnknownPrompt(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("does_not_exist")
	assert.Error(t, err)
}

func TestPromptStore_Load_InitFailureUsesDefaults(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))

	store, err := NewPromptStore(filepath.Join(file, "prompts"))
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptVideoSummary)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultVideoSummaryPrompt, prompt)

	_, err = store.Load("unknown")
	assert.Error(t, err)
}

func TestPromptStore_Load_CachesResults(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	first, err := store.Load(driven.PromptAnswer)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "answer.txt"), []byte("changed %s %s"), 0600))

	second, err := store.Load(driven.PromptAnswer)
	require.NoError(t, err)
	assert.Equal(t, first, second, "cached value should be returned until Reload")
}

func TestPromptStore_Reload_ClearsCache(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = store.Load(driven.PromptAnswer)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "answer.txt"), []byte("changed %s %s"), 0600))
	store.Reload()

	prompt, err := store.Load(driven.PromptAnswer)
	require.NoError(t, err)
	assert.Equal(t, "changed %s %s", prompt)
}

func TestPromptStore_Load_ConcurrentAccess(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%5 == 0 {
				store.Reload()
			}
			prompt, err := store.Load(driven.PromptAnswer)
			assert.NoError(t, err)
			assert.NotEmpty(t, prompt)
		}(i)
	}
	wg.Wait()
}

func TestPromptStore_DoesNotOverwriteExistingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "video_summary.txt")
	require.NoError(t, os.WriteFile(path, []byte("my summary prompt"), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)
	_, _ = store.Load(driven.PromptAnswer)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "my summary prompt", string(data))
}

func TestPromptStore_TrimsWhitespace(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "video_summary.txt"), []byte("\n  Describe it.  \n\n"), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptVideoSummary)
	require.NoError(t, err)
	assert.Equal(t, "Describe it.", prompt)
}
