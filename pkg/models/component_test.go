package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manishsingh1309/ai-planet/pkg/models"
)

func TestNewUserQueryConfig(t *testing.T) {
	t.Parallel()

	cfg, err := models.NewUserQueryConfig(map[string]any{"query": "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", cfg.Query)
	assert.Equal(t, models.DefaultPriority, cfg.Priority)

	_, err = models.NewUserQueryConfig(map[string]any{})
	assert.ErrorIs(t, err, models.ErrMissingField)
}

func TestNewKnowledgeBaseConfig(t *testing.T) {
	t.Parallel()

	cfg, err := models.NewKnowledgeBaseConfig(map[string]any{
		"source":    "text",
		"chunkSize": float64(500),
	})
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Source)
	assert.Equal(t, 500, cfg.ChunkSize)
	assert.Equal(t, models.DefaultOverlap, cfg.Overlap)

	_, err = models.NewKnowledgeBaseConfig(map[string]any{"textContent": "no source"})
	assert.ErrorIs(t, err, models.ErrMissingField)
}

func TestNewLLMEngineConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := models.NewLLMEngineConfig(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultModel, cfg.Model)
	assert.InDelta(t, models.DefaultTemperature, cfg.Temperature, 0.0001)
	assert.Equal(t, models.DefaultMaxTokens, cfg.MaxTokens)
	assert.True(t, cfg.UseContext)
	assert.False(t, cfg.StreamResponse)

	cfg, err = models.NewLLMEngineConfig(map[string]any{
		"model":       "gpt-4",
		"temperature": float64(0.1),
		"maxTokens":   float64(512),
	})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4", cfg.Model)
	assert.InDelta(t, 0.1, cfg.Temperature, 0.0001)
	assert.Equal(t, 512, cfg.MaxTokens)
}

func TestNewOutputConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := models.NewOutputConfig(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultFormat, cfg.Format)
	assert.Equal(t, models.DestinationDisplay, cfg.Destination)
	assert.True(t, cfg.Prettify)
}

func TestWorkflowNodesByType(t *testing.T) {
	t.Parallel()

	wf := &models.Workflow{
		Nodes: []*models.WorkflowNode{
			{ID: "a", Type: "userQuery"},
			{ID: "b", Type: "llmEngine"},
			{ID: "c", Type: "llmEngine"},
			{ID: "d", Type: "output"},
		},
	}

	engines := wf.NodesByType(models.ComponentLLMEngine)
	require.Len(t, engines, 2)
	assert.Equal(t, "b", engines[0].ID)
	assert.Equal(t, "c", engines[1].ID)

	assert.Empty(t, wf.NodesByType(models.ComponentKnowledgeBase))
}
