package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/manishsingh1309/ai-planet/pkg/documents"
	"github.com/manishsingh1309/ai-planet/pkg/eventbus"
	"github.com/manishsingh1309/ai-planet/pkg/events"
	"github.com/manishsingh1309/ai-planet/pkg/models"
	"github.com/manishsingh1309/ai-planet/pkg/persistence"
	"github.com/manishsingh1309/ai-planet/pkg/vectorstore"
)

// ErrDocumentNotFound is returned when a document is not found.
var ErrDocumentNotFound = persistence.ErrDocumentNotFound

// MaxUploadSize bounds accepted uploads at 10MB.
const MaxUploadSize = 10 * 1024 * 1024

// Document provides the upload pipeline: PDF validation, text extraction,
// chunking, embedding, and vector storage.
type Document struct {
	persistence persistence.Persistence
	ingestor    *documents.Ingestor
	vectors     vectorstore.Store
	bus         eventbus.EventPublisher
	logger      *slog.Logger
}

// NewDocument creates a new document service. The event bus may be nil;
// publishing is then skipped.
func NewDocument(
	persistence persistence.Persistence,
	ingestor *documents.Ingestor,
	vectors vectorstore.Store,
	bus eventbus.EventPublisher,
	logger *slog.Logger,
) *Document {
	return &Document{
		persistence: persistence,
		ingestor:    ingestor,
		vectors:     vectors,
		bus:         bus,
		logger:      logger.With("module", "document-service"),
	}
}

// UploadRequest carries one uploaded file.
type UploadRequest struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// UploadResult reports a processed upload.
type UploadResult struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	Size      int64  `json:"size"`
	Chunks    int    `json:"chunks"`
	Processed bool   `json:"processed"`
	Message   string `json:"message"`
}

// Upload validates and processes one PDF: the extracted text is persisted,
// then chunked, embedded and upserted as a single batch. The document row is
// saved before ingestion and updated after, so an ingestion fault leaves an
// unprocessed row behind rather than losing the upload.
func (d *Document) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	if !strings.HasSuffix(strings.ToLower(req.Filename), ".pdf") {
		return nil, ErrOnlyPDFSupported
	}

	if req.Size > MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	text, err := documents.ExtractText(req.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}

	if strings.TrimSpace(text) == "" {
		return nil, ErrNoTextContent
	}

	document := &models.Document{
		Filename:         uuid.NewString() + "_" + req.Filename,
		OriginalFilename: req.Filename,
		ContentType:      req.ContentType,
		Size:             req.Size,
		Content:          text,
		Processed:        false,
	}

	if err := d.persistence.SaveDocument(ctx, document); err != nil {
		return nil, err
	}

	embeddingIDs, err := d.ingestor.Ingest(ctx, document.ID, text)
	if err != nil {
		return nil, err
	}

	document.EmbeddingIDs = embeddingIDs
	document.Processed = true

	if err := d.persistence.SaveDocument(ctx, document); err != nil {
		return nil, err
	}

	d.logger.InfoContext(ctx, "Document uploaded and processed",
		"document_id", document.ID,
		"filename", req.Filename,
		"chunks", len(embeddingIDs),
	)

	d.publishIngested(ctx, document)

	return &UploadResult{
		ID:        document.ID,
		Filename:  document.OriginalFilename,
		Size:      document.Size,
		Chunks:    len(embeddingIDs),
		Processed: true,
		Message:   "Document uploaded and processed successfully",
	}, nil
}

// List returns all documents without their content.
func (d *Document) List(ctx context.Context) ([]*models.Document, error) {
	return d.persistence.Documents(ctx)
}

// Delete removes a document and its vector-store chunks. Chunks go first so a
// fault cannot orphan vectors behind a deleted row.
func (d *Document) Delete(ctx context.Context, id string) error {
	document, err := d.persistence.DocumentByID(ctx, id)
	if err != nil {
		return err
	}

	if len(document.EmbeddingIDs) > 0 {
		if err := d.vectors.DeleteByIDs(ctx, document.EmbeddingIDs); err != nil {
			return fmt.Errorf("failed to delete document embeddings: %w", err)
		}
	}

	return d.persistence.DeleteDocument(ctx, id)
}

func (d *Document) publishIngested(ctx context.Context, document *models.Document) {
	if d.bus == nil {
		return
	}

	event := events.DocumentIngested{
		BaseEvent:  events.NewBaseEvent(events.DocumentIngestedEvent, ""),
		DocumentID: document.ID,
		Filename:   document.OriginalFilename,
		ChunkCount: len(document.EmbeddingIDs),
	}

	if err := d.bus.Publish(ctx, document.ID, event); err != nil {
		d.logger.WarnContext(ctx, "failed to publish document ingested event", "error", err)
	}
}
