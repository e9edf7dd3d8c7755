package ai

import (
	"context"
	"fmt"
	"hash/fnv"
)

// StubLLM produces the deterministic demonstration response used when no
// generation provider is wired in. The text mirrors what the editor shows in
// demo mode.
type StubLLM struct{}

func NewStubLLM() *StubLLM {
	return &StubLLM{}
}

func (s *StubLLM) Generate(_ context.Context, req GenerateRequest) (string, error) {
	contextAvailable := "No"
	if req.Context != "" {
		contextAvailable = "Yes"
	}

	return fmt.Sprintf(`Based on your query: %q

Using model: %s
Temperature: %v

Context available: %s

This is a demonstration response. In the full implementation, this would be generated by the configured AI model using the provided context and parameters.`,
		req.Prompt, req.Model, req.Temperature, contextAvailable), nil
}

// StubEmbedder maps text to a deterministic pseudo-vector so the retrieval
// path stays exercisable without a provider key.
type StubEmbedder struct {
	dim int
}

func NewStubEmbedder() *StubEmbedder {
	return &StubEmbedder{dim: EmbeddingDim}
}

func (s *StubEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))

	for i, text := range texts {
		emb, err := s.EmbedQuery(ctx, text)
		if err != nil {
			return nil, err
		}

		out[i] = emb
	}

	return out, nil
}

func (s *StubEmbedder) EmbedQuery(_ context.Context, query string) ([]float32, error) {
	if query == "" {
		return nil, fmt.Errorf("empty query")
	}

	vec := make([]float32, s.dim)
	hash := fnv.New32a()

	for i := range vec {
		hash.Reset()
		_, _ = fmt.Fprintf(hash, "%d:%s", i, query)
		vec[i] = float32(hash.Sum32()%1000)/1000 - 0.5
	}

	return vec, nil
}
