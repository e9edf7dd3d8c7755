package vectorstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// PgVectorStore keeps chunk embeddings in a Postgres table with a pgvector
// column and ranks matches by L2 distance.
type PgVectorStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPgVectorStore initializes the store and creates the chunk table if it
// does not exist yet.
func NewPgVectorStore(ctx context.Context, logger *slog.Logger, db *sql.DB, dim int) (*PgVectorStore, error) {
	if _, err := db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return nil, fmt.Errorf("failed to enable pgvector extension: %w", err)
	}

	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS document_chunks (
			id VARCHAR(255) PRIMARY KEY,
			document_id UUID NOT NULL,
			chunk_index INT NOT NULL,
			content TEXT NOT NULL,
			embedding vector(%d) NOT NULL
		)`, dim)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create document_chunks table: %w", err)
	}

	return &PgVectorStore{db: db, logger: logger}, nil
}

func (s *PgVectorStore) Upsert(ctx context.Context, chunks []Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := `
		INSERT INTO document_chunks (id, document_id, chunk_index, content, embedding)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding
	`

	for _, chunk := range chunks {
		_, err = tx.ExecContext(ctx, query,
			chunk.ID,
			chunk.DocumentID,
			chunk.Index,
			chunk.Content,
			pgvector.NewVector(chunk.Embedding),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert chunk %s: %w", chunk.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *PgVectorStore) Search(ctx context.Context, embedding []float32, limit int) ([]Match, error) {
	query := `
		SELECT content, document_id, chunk_index, embedding <-> $1 AS distance
		FROM document_chunks
		ORDER BY embedding <-> $1
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	var matches []Match

	for rows.Next() {
		var (
			match      Match
			documentID string
			chunkIndex int
		)

		if err := rows.Scan(&match.Content, &documentID, &chunkIndex, &match.Distance); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}

		match.Metadata = map[string]any{
			"document_id": documentID,
			"chunk_index": chunkIndex,
		}
		matches = append(matches, match)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chunks: %w", err)
	}

	return matches, nil
}

func (s *PgVectorStore) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := s.db.ExecContext(ctx, "DELETE FROM document_chunks WHERE id = ANY($1)", pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}

	return nil
}

func (s *PgVectorStore) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}
