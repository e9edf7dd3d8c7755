package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/manishsingh1309/ai-planet/pkg/models"
	"github.com/manishsingh1309/ai-planet/pkg/persistence"
)

// DocumentRepository handles document-related database operations.
type DocumentRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository.
func NewDocumentRepository(db *sql.DB, logger *slog.Logger) *DocumentRepository {
	return &DocumentRepository{db: db, logger: logger}
}

// GetAll returns all documents, newest first. Content is omitted from list
// results; it can be large and list callers only render metadata.
func (r *DocumentRepository) GetAll(ctx context.Context) ([]*models.Document, error) {
	query := `
		SELECT
			id
		  , filename
		  , original_filename
		  , content_type
		  , size
		  , embedding_ids
		  , created_at
		  , processed
		FROM documents
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	documents := make([]*models.Document, 0)

	for rows.Next() {
		var (
			document models.Document
			idsJSON  []byte
		)

		err := rows.Scan(
			&document.ID,
			&document.Filename,
			&document.OriginalFilename,
			&document.ContentType,
			&document.Size,
			&idsJSON,
			&document.CreatedAt,
			&document.Processed,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}

		if idsJSON != nil {
			if err := json.Unmarshal(idsJSON, &document.EmbeddingIDs); err != nil {
				return nil, fmt.Errorf("failed to unmarshal embedding ids: %w", err)
			}
		}

		documents = append(documents, &document)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}

	return documents, nil
}

// GetByID returns a document including its extracted content.
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := `
		SELECT
			id
		  , filename
		  , original_filename
		  , content_type
		  , size
		  , content
		  , embedding_ids
		  , created_at
		  , processed
		FROM documents
		WHERE id = $1
	`

	var (
		document models.Document
		content  sql.NullString
		idsJSON  []byte
	)

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&document.ID,
		&document.Filename,
		&document.OriginalFilename,
		&document.ContentType,
		&document.Size,
		&content,
		&idsJSON,
		&document.CreatedAt,
		&document.Processed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewStoreError("GetByID", id, persistence.ErrDocumentNotFound)
		}

		return nil, fmt.Errorf("failed to scan document: %w", err)
	}

	document.Content = content.String

	if idsJSON != nil {
		if err := json.Unmarshal(idsJSON, &document.EmbeddingIDs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal embedding ids: %w", err)
		}
	}

	return &document, nil
}

// Save inserts or updates a document record.
func (r *DocumentRepository) Save(ctx context.Context, document *models.Document) error {
	if document.CreatedAt.IsZero() {
		document.CreatedAt = time.Now().UTC()
	}

	if document.ID == "" {
		document.ID = uuid.NewString()
	}

	idsJSON, err := json.Marshal(document.EmbeddingIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal embedding ids: %w", err)
	}

	query := `
		INSERT INTO documents (id, filename, original_filename, content_type, size, content, embedding_ids, created_at, processed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			embedding_ids = EXCLUDED.embedding_ids,
			processed = EXCLUDED.processed
	`

	_, err = r.db.ExecContext(ctx, query,
		document.ID,
		document.Filename,
		document.OriginalFilename,
		document.ContentType,
		document.Size,
		document.Content,
		idsJSON,
		document.CreatedAt,
		document.Processed,
	)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	return nil
}

// Delete removes a document row. Vector-store chunks are deleted by the
// service layer before this is called.
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return persistence.NewStoreError("Delete", id, persistence.ErrDocumentNotFound)
	}

	return nil
}

// Persistence interface delegation.

func (p *Persistence) Documents(ctx context.Context) ([]*models.Document, error) {
	return p.documentRepo.GetAll(ctx)
}

func (p *Persistence) DocumentByID(ctx context.Context, id string) (*models.Document, error) {
	return p.documentRepo.GetByID(ctx, id)
}

func (p *Persistence) SaveDocument(ctx context.Context, document *models.Document) error {
	return p.documentRepo.Save(ctx, document)
}

func (p *Persistence) DeleteDocument(ctx context.Context, id string) error {
	return p.documentRepo.Delete(ctx, id)
}
