// Package file provides a file-based persistence implementation backed by one
// JSON document per entity. It serves tests and the zero-dependency profile.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/manishsingh1309/ai-planet/pkg/models"
	"github.com/manishsingh1309/ai-planet/pkg/persistence"
)

const dirPerm = 0o755

// Persistence implements the persistence.Persistence interface on the file
// system. A single mutex serializes writers; the store is meant for tests and
// single-user demo runs, not for contention.
type Persistence struct {
	root string
	mu   sync.RWMutex
}

// NewPersistence creates a file persistence rooted at the given directory.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{root: cleanRoot}
}

// Close performs any necessary cleanup. Nothing to do for files.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (fp *Persistence) entityDir(kind string) (string, error) {
	dir := filepath.Join(fp.root, kind)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("failed to create %s directory: %w", kind, err)
	}

	return dir, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}

	return os.WriteFile(path, data, 0o644)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, v)
}

// Workflows returns all active workflows ordered by last update, newest first.
func (fp *Persistence) Workflows(_ context.Context) ([]*models.Workflow, error) {
	fp.mu.RLock()
	defer fp.mu.RUnlock()

	dir, err := fp.entityDir("workflows")
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflows directory: %w", err)
	}

	workflows := make([]*models.Workflow, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		var workflow models.Workflow
		if err := readJSON(filepath.Join(dir, entry.Name()), &workflow); err != nil {
			return nil, fmt.Errorf("failed to read workflow %s: %w", entry.Name(), err)
		}

		if workflow.Active {
			workflows = append(workflows, &workflow)
		}
	}

	sort.Slice(workflows, func(i, j int) bool {
		return workflows[i].UpdatedAt.After(workflows[j].UpdatedAt)
	})

	return workflows, nil
}

// WorkflowByID returns an active workflow by id.
func (fp *Persistence) WorkflowByID(_ context.Context, id string) (*models.Workflow, error) {
	fp.mu.RLock()
	defer fp.mu.RUnlock()

	return fp.workflowByIDLocked(id)
}

func (fp *Persistence) workflowByIDLocked(id string) (*models.Workflow, error) {
	dir, err := fp.entityDir("workflows")
	if err != nil {
		return nil, err
	}

	var workflow models.Workflow

	err = readJSON(filepath.Join(dir, id+".json"), &workflow)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, persistence.NewStoreError("WorkflowByID", id, persistence.ErrWorkflowNotFound)
		}

		return nil, fmt.Errorf("failed to read workflow %s: %w", id, err)
	}

	if !workflow.Active {
		return nil, persistence.NewStoreError("WorkflowByID", id, persistence.ErrWorkflowNotFound)
	}

	return &workflow, nil
}

// SaveWorkflow writes a workflow document, assigning an id and timestamps as
// needed.
func (fp *Persistence) SaveWorkflow(_ context.Context, workflow *models.Workflow) error {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	now := time.Now().UTC()

	if workflow.CreatedAt.IsZero() {
		workflow.CreatedAt = now
	}

	workflow.UpdatedAt = now

	if workflow.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate workflow ID: %w", err)
		}

		workflow.ID = id.String()
	}

	dir, err := fp.entityDir("workflows")
	if err != nil {
		return err
	}

	return writeJSON(filepath.Join(dir, workflow.ID+".json"), workflow)
}

// DeleteWorkflow soft deletes a workflow by clearing its active flag.
func (fp *Persistence) DeleteWorkflow(_ context.Context, id string) error {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	workflow, err := fp.workflowByIDLocked(id)
	if err != nil {
		return err
	}

	workflow.Active = false
	workflow.UpdatedAt = time.Now().UTC()

	dir, err := fp.entityDir("workflows")
	if err != nil {
		return err
	}

	return writeJSON(filepath.Join(dir, id+".json"), workflow)
}
