// Package ai defines the external AI collaborator contracts: text generation,
// sentence embeddings, and web search. Implementations are constructed once at
// startup and passed into the request path explicitly; nothing here retries or
// imposes timeouts, callers own their deadlines through ctx.
package ai

import "context"

// GenerateRequest carries one text-generation call.
type GenerateRequest struct {
	Prompt      string
	Context     string
	Model       string
	Temperature float64
	MaxTokens   int
}

// LLM generates text from a prompt plus accumulated context.
type LLM interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// Embedder turns text into fixed-dimension vectors.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
}

// Searcher performs a web search and returns a plain-text digest.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// EmbeddingDim is the fixed vector dimension every Embedder must produce.
const EmbeddingDim = 768

// Degradation messages returned when a provider key is absent. The request
// still succeeds; the placeholder surfaces in the response body.
const (
	MsgLLMNotConfigured    = "Gemini API key not configured. Please add your API key to use AI features."
	MsgSearchNotConfigured = "Web search not available - SerpAPI key not configured."
)
