package file_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manishsingh1309/ai-planet/pkg/models"
	"github.com/manishsingh1309/ai-planet/pkg/persistence"
	"github.com/manishsingh1309/ai-planet/pkg/persistence/file"
)

func newTestPersistence(t *testing.T) *file.Persistence {
	t.Helper()

	return file.NewPersistence(t.TempDir())
}

func TestPersistence_WorkflowLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestPersistence(t)

	wf := &models.Workflow{
		Name:        "Support Bot",
		Description: "Answers support questions",
		Nodes: []*models.WorkflowNode{
			{ID: "n1", Type: "userQuery"},
		},
		Active: true,
	}

	require.NoError(t, store.SaveWorkflow(ctx, wf))
	assert.NotEmpty(t, wf.ID)
	assert.False(t, wf.CreatedAt.IsZero())

	loaded, err := store.WorkflowByID(ctx, wf.ID)
	require.NoError(t, err)
	assert.Equal(t, "Support Bot", loaded.Name)
	require.Len(t, loaded.Nodes, 1)
	assert.Equal(t, "userQuery", loaded.Nodes[0].Type)

	all, err := store.Workflows(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, store.DeleteWorkflow(ctx, wf.ID))

	_, err = store.WorkflowByID(ctx, wf.ID)
	assert.True(t, persistence.IsWorkflowNotFound(err))

	all, err = store.Workflows(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPersistence_WorkflowNotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestPersistence(t)

	_, err := store.WorkflowByID(ctx, "missing")
	assert.True(t, persistence.IsWorkflowNotFound(err))

	err = store.DeleteWorkflow(ctx, "missing")
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestPersistence_DocumentLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestPersistence(t)

	document := &models.Document{
		Filename:         "abc_report.pdf",
		OriginalFilename: "report.pdf",
		ContentType:      "application/pdf",
		Size:             1024,
		Content:          "extracted text",
	}

	require.NoError(t, store.SaveDocument(ctx, document))
	require.NotEmpty(t, document.ID)

	loaded, err := store.DocumentByID(ctx, document.ID)
	require.NoError(t, err)
	assert.Equal(t, "extracted text", loaded.Content)

	document.EmbeddingIDs = []string{document.ID + "_chunk_0"}
	document.Processed = true
	require.NoError(t, store.SaveDocument(ctx, document))

	listed, err := store.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].Processed)
	assert.Empty(t, listed[0].Content)
	assert.Equal(t, 1, listed[0].ChunkCount())

	require.NoError(t, store.DeleteDocument(ctx, document.ID))

	_, err = store.DocumentByID(ctx, document.ID)
	assert.True(t, persistence.IsDocumentNotFound(err))
}

func TestPersistence_ChatHistory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestPersistence(t)

	first := &models.ChatHistoryEntry{
		SessionID: "s-1",
		Role:      models.ChatRoleUser,
		Content:   "hello",
	}
	second := &models.ChatHistoryEntry{
		SessionID: "s-1",
		Role:      models.ChatRoleAssistant,
		Content:   "hi there",
		Metadata:  map[string]any{"context_used": false},
	}

	require.NoError(t, store.AppendChatEntry(ctx, first))
	require.NoError(t, store.AppendChatEntry(ctx, second))

	entries, err := store.ChatHistory(ctx, "s-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.ChatRoleUser, entries[0].Role)
	assert.Equal(t, "hi there", entries[1].Content)

	empty, err := store.ChatHistory(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, store.DeleteChatHistory(ctx, "s-1"))

	entries, err = store.ChatHistory(ctx, "s-1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPersistence_PurgeChatHistoryBefore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestPersistence(t)

	old := &models.ChatHistoryEntry{
		SessionID: "s-1",
		Role:      models.ChatRoleUser,
		Content:   "old message",
		CreatedAt: time.Now().UTC().AddDate(0, 0, -40),
	}
	recent := &models.ChatHistoryEntry{
		SessionID: "s-1",
		Role:      models.ChatRoleUser,
		Content:   "recent message",
	}
	stale := &models.ChatHistoryEntry{
		SessionID: "s-2",
		Role:      models.ChatRoleUser,
		Content:   "entire session stale",
		CreatedAt: time.Now().UTC().AddDate(0, 0, -40),
	}

	require.NoError(t, store.AppendChatEntry(ctx, old))
	require.NoError(t, store.AppendChatEntry(ctx, recent))
	require.NoError(t, store.AppendChatEntry(ctx, stale))

	cutoff := time.Now().UTC().AddDate(0, 0, -30)

	purged, err := store.PurgeChatHistoryBefore(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(2), purged)

	remaining, err := store.ChatHistory(ctx, "s-1")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "recent message", remaining[0].Content)

	gone, err := store.ChatHistory(ctx, "s-2")
	require.NoError(t, err)
	assert.Empty(t, gone)
}

func TestPersistence_HealthCheck(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	store := newTestPersistence(t)
	require.NoError(t, store.HealthCheck(ctx))
	require.NoError(t, store.Close(ctx))

	missing := file.NewPersistence("/nonexistent/intelliflow-test")
	assert.Error(t, missing.HealthCheck(ctx))
}

func TestNewPersistence_StripsFileScheme(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := file.NewPersistence("file://" + dir)

	require.NoError(t, store.HealthCheck(context.Background()))
}
