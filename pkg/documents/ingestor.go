package documents

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/manishsingh1309/ai-planet/pkg/ai"
	"github.com/manishsingh1309/ai-planet/pkg/models"
	"github.com/manishsingh1309/ai-planet/pkg/vectorstore"
)

// Ingestor chunks extracted document text, embeds the chunks as one batch,
// and upserts them into the vector store under ids namespaced by document id.
type Ingestor struct {
	embedder ai.Embedder
	store    vectorstore.Store
	logger   *slog.Logger
}

func NewIngestor(embedder ai.Embedder, store vectorstore.Store, logger *slog.Logger) *Ingestor {
	return &Ingestor{
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

// Ingest processes a document's text and returns the stored chunk ids.
func (i *Ingestor) Ingest(ctx context.Context, documentID, text string) ([]string, error) {
	chunks := ChunkText(text, models.DefaultChunkSize, models.DefaultOverlap)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no chunks produced for document %s", documentID)
	}

	embeddings, err := i.embedder.EmbedTexts(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("failed to embed document %s: %w", documentID, err)
	}

	stored := make([]vectorstore.Chunk, len(chunks))
	ids := make([]string, len(chunks))

	for idx, content := range chunks {
		id := fmt.Sprintf("%s_chunk_%d", documentID, idx)
		ids[idx] = id
		stored[idx] = vectorstore.Chunk{
			ID:         id,
			DocumentID: documentID,
			Index:      idx,
			Content:    content,
			Embedding:  embeddings[idx],
		}
	}

	if err := i.store.Upsert(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to store embeddings for document %s: %w", documentID, err)
	}

	i.logger.InfoContext(ctx, "Document ingested", "document_id", documentID, "chunks", len(chunks))

	return ids, nil
}

// SearchSimilar embeds the query and returns the nearest chunks.
func (i *Ingestor) SearchSimilar(ctx context.Context, query string, limit int) ([]vectorstore.Match, error) {
	embedding, err := i.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	return i.store.Search(ctx, embedding, limit)
}
