package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/manishsingh1309/ai-planet/pkg/models"
	"github.com/manishsingh1309/ai-planet/pkg/persistence"
)

// Documents returns all documents, newest first. Content stays on disk; list
// callers only render metadata.
func (fp *Persistence) Documents(_ context.Context) ([]*models.Document, error) {
	fp.mu.RLock()
	defer fp.mu.RUnlock()

	dir, err := fp.entityDir("documents")
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read documents directory: %w", err)
	}

	documents := make([]*models.Document, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		var document models.Document
		if err := readJSON(filepath.Join(dir, entry.Name()), &document); err != nil {
			return nil, fmt.Errorf("failed to read document %s: %w", entry.Name(), err)
		}

		document.Content = ""
		documents = append(documents, &document)
	}

	sort.Slice(documents, func(i, j int) bool {
		return documents[i].CreatedAt.After(documents[j].CreatedAt)
	})

	return documents, nil
}

// DocumentByID returns a document including its extracted content.
func (fp *Persistence) DocumentByID(_ context.Context, id string) (*models.Document, error) {
	fp.mu.RLock()
	defer fp.mu.RUnlock()

	dir, err := fp.entityDir("documents")
	if err != nil {
		return nil, err
	}

	var document models.Document

	err = readJSON(filepath.Join(dir, id+".json"), &document)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, persistence.NewStoreError("DocumentByID", id, persistence.ErrDocumentNotFound)
		}

		return nil, fmt.Errorf("failed to read document %s: %w", id, err)
	}

	return &document, nil
}

// SaveDocument writes a document record, assigning an id and timestamp as
// needed.
func (fp *Persistence) SaveDocument(_ context.Context, document *models.Document) error {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	if document.CreatedAt.IsZero() {
		document.CreatedAt = time.Now().UTC()
	}

	if document.ID == "" {
		document.ID = uuid.NewString()
	}

	dir, err := fp.entityDir("documents")
	if err != nil {
		return err
	}

	return writeJSON(filepath.Join(dir, document.ID+".json"), document)
}

// DeleteDocument removes a document record. Vector-store chunks are deleted
// by the service layer before this is called.
func (fp *Persistence) DeleteDocument(_ context.Context, id string) error {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	dir, err := fp.entityDir("documents")
	if err != nil {
		return err
	}

	err = os.Remove(filepath.Join(dir, id+".json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return persistence.NewStoreError("DeleteDocument", id, persistence.ErrDocumentNotFound)
		}

		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}

	return nil
}
