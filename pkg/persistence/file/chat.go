package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/manishsingh1309/ai-planet/pkg/models"
)

// AppendChatEntry appends one history entry to the session's log file.
// Entries are never updated.
func (fp *Persistence) AppendChatEntry(_ context.Context, entry *models.ChatHistoryEntry) error {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	dir, err := fp.entityDir("chat")
	if err != nil {
		return err
	}

	path := filepath.Join(dir, entry.SessionID+".json")

	entries, err := readSession(path)
	if err != nil {
		return err
	}

	entries = append(entries, entry)

	return writeJSON(path, entries)
}

// ChatHistory returns a session's entries in chronological order. Unknown
// sessions yield an empty history, not an error.
func (fp *Persistence) ChatHistory(_ context.Context, sessionID string) ([]*models.ChatHistoryEntry, error) {
	fp.mu.RLock()
	defer fp.mu.RUnlock()

	dir, err := fp.entityDir("chat")
	if err != nil {
		return nil, err
	}

	return readSession(filepath.Join(dir, sessionID+".json"))
}

// DeleteChatHistory removes all entries of a session.
func (fp *Persistence) DeleteChatHistory(_ context.Context, sessionID string) error {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	dir, err := fp.entityDir("chat")
	if err != nil {
		return err
	}

	err = os.Remove(filepath.Join(dir, sessionID+".json"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete chat history %s: %w", sessionID, err)
	}

	return nil
}

// PurgeChatHistoryBefore removes all entries older than the cutoff across
// every session and reports how many went away.
func (fp *Persistence) PurgeChatHistoryBefore(_ context.Context, cutoff time.Time) (int64, error) {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	dir, err := fp.entityDir("chat")
	if err != nil {
		return 0, err
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read chat directory: %w", err)
	}

	var purged int64

	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}

		path := filepath.Join(dir, f.Name())

		entries, err := readSession(path)
		if err != nil {
			return purged, err
		}

		kept := make([]*models.ChatHistoryEntry, 0, len(entries))

		for _, entry := range entries {
			if entry.CreatedAt.Before(cutoff) {
				purged++
				continue
			}

			kept = append(kept, entry)
		}

		if len(kept) == len(entries) {
			continue
		}

		if len(kept) == 0 {
			if err := os.Remove(path); err != nil {
				return purged, fmt.Errorf("failed to remove session file %s: %w", f.Name(), err)
			}

			continue
		}

		if err := writeJSON(path, kept); err != nil {
			return purged, err
		}
	}

	return purged, nil
}

func readSession(path string) ([]*models.ChatHistoryEntry, error) {
	entries := make([]*models.ChatHistoryEntry, 0)

	err := readJSON(path, &entries)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entries, nil
		}

		return nil, fmt.Errorf("failed to read session %s: %w", filepath.Base(path), err)
	}

	return entries, nil
}
