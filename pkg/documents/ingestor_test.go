package documents_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manishsingh1309/ai-planet/pkg/ai"
	"github.com/manishsingh1309/ai-planet/pkg/documents"
	"github.com/manishsingh1309/ai-planet/pkg/vectorstore"
)

func TestIngestor_RejectsEmptyText(t *testing.T) {
	t.Parallel()

	ingestor := documents.NewIngestor(ai.NewStubEmbedder(), vectorstore.NewMemoryStore(), slog.Default())

	_, err := ingestor.Ingest(context.Background(), "doc-1", "")
	assert.ErrorContains(t, err, "no chunks")
}

func TestIngestor_StoresNamespacedChunks(t *testing.T) {
	t.Parallel()

	store := vectorstore.NewMemoryStore()
	ingestor := documents.NewIngestor(ai.NewStubEmbedder(), store, slog.Default())

	ids, err := ingestor.Ingest(context.Background(), "doc-1", "some extracted text")
	require.NoError(t, err)
	require.Equal(t, []string{"doc-1_chunk_0"}, ids)
	assert.Equal(t, 1, store.Len())

	matches, err := ingestor.SearchSimilar(context.Background(), "some extracted text", 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "some extracted text", matches[0].Content)
}
