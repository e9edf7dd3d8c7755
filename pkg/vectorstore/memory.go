package vectorstore

import (
	"context"
	"math"
	"sort"
	"sync"
)

// MemoryStore is a brute-force in-memory store for tests and the
// zero-dependency profile.
type MemoryStore struct {
	mu     sync.RWMutex
	chunks map[string]Chunk
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{chunks: make(map[string]Chunk)}
}

func (s *MemoryStore) Upsert(_ context.Context, chunks []Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, chunk := range chunks {
		s.chunks[chunk.ID] = chunk
	}

	return nil
}

func (s *MemoryStore) Search(_ context.Context, embedding []float32, limit int) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]Match, 0, len(s.chunks))

	for _, chunk := range s.chunks {
		matches = append(matches, Match{
			Content:  chunk.Content,
			Distance: l2Distance(embedding, chunk.Embedding),
			Metadata: map[string]any{
				"document_id": chunk.DocumentID,
				"chunk_index": chunk.Index,
			},
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	return matches, nil
}

func (s *MemoryStore) DeleteByIDs(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		delete(s.chunks, id)
	}

	return nil
}

func (s *MemoryStore) HealthCheck(_ context.Context) error {
	return nil
}

// Len reports the number of stored chunks.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.chunks)
}

func l2Distance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var sum float64

	for i := 0; i < n; i++ {
		d := float64(a[i] - b[i])
		sum += d * d
	}

	return math.Sqrt(sum)
}
