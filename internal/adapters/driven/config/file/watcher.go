package file

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docchat/internal/logger"
)

// watchDebounce coalesces bursts of events from editors that write a file
// in several steps.
const watchDebounce = 100 * time.Millisecond

// Watch reloads the prompt cache whenever a prompt file in the store's
// directory changes. It blocks until ctx is cancelled.
func (s *PromptStore) Watch(ctx context.Context) error {
	// Ensure the directory exists before watching it.
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		return s.initErr
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create prompt watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(s.promptDir); err != nil {
		return fmt.Errorf("watch %s: %w", s.promptDir, err)
	}
	logger.Debug("watching prompts in %s", s.promptDir)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if s.handleFsEvent(event) {
				pending = time.After(watchDebounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("prompt watcher: %v", err)
		case <-pending:
			pending = nil
			s.Reload()
			logger.Info("prompts reloaded from %s", s.promptDir)
		}
	}
}

// handleFsEvent reports whether the event should trigger a reload.
// Only changes to top-level .txt files count; chmod events and hidden or
// temporary files are ignored.
func (s *PromptStore) handleFsEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || filepath.Ext(name) != ".txt" {
		return false
	}
	return filepath.Dir(event.Name) == filepath.Clean(s.promptDir)
}
