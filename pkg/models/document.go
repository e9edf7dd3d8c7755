package models

import "time"

// Document is an uploaded PDF after text extraction. Content holds the raw
// extracted text; the chunk embeddings live in the vector store under the ids
// recorded in EmbeddingIDs.
type Document struct {
	ID               string    `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	ContentType      string    `json:"content_type"`
	Size             int64     `json:"size"`
	Content          string    `json:"content,omitempty"`
	EmbeddingIDs     []string  `json:"embedding_ids,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	Processed        bool      `json:"processed"`
}

// ChunkCount reports how many embedded chunks the document produced.
func (d *Document) ChunkCount() int {
	return len(d.EmbeddingIDs)
}
