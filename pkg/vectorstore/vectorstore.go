// Package vectorstore provides similarity search over embedded document
// chunks. Chunk ids are namespaced by document id, so two concurrent uploads
// write disjoint id ranges without locking.
package vectorstore

import "context"

// Chunk is one embedded slice of a document.
type Chunk struct {
	ID         string
	DocumentID string
	Index      int
	Content    string
	Embedding  []float32
}

// Match is one nearest-neighbour result.
type Match struct {
	Content  string
	Distance float64
	Metadata map[string]any
}

// Store upserts and searches chunk embeddings.
type Store interface {
	Upsert(ctx context.Context, chunks []Chunk) error
	Search(ctx context.Context, embedding []float32, limit int) ([]Match, error)
	DeleteByIDs(ctx context.Context, ids []string) error
	HealthCheck(ctx context.Context) error
}
