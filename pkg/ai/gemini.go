package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	geminiBaseURL    = "https://generativelanguage.googleapis.com/v1beta/models"
	geminiEmbedModel = "text-embedding-004"

	systemInstruction = "You are a helpful AI assistant for the IntelliFlow workflow builder. " +
		"Answer questions based on the provided context and help users build effective workflows."
)

// GeminiClient talks to the Google generative language REST API. It serves as
// both the LLM and the Embedder.
type GeminiClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewGeminiClient creates a client. An empty apiKey yields a client that
// degrades to placeholder responses instead of failing requests.
func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{
		apiKey:  apiKey,
		baseURL: geminiBaseURL,
		client:  http.DefaultClient,
	}
}

// Configured reports whether an API key is present.
func (g *GeminiClient) Configured() bool {
	return g.apiKey != ""
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type generateContentRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	GenerationConfig  struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	} `json:"generationConfig"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate calls generateContent with the prompt and optional context block.
func (g *GeminiClient) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if !g.Configured() {
		return MsgLLMNotConfigured, nil
	}

	var contents []geminiContent

	if req.Context != "" {
		contents = append(contents, geminiContent{
			Role:  "user",
			Parts: []geminiPart{{Text: "Context: " + req.Context}},
		})
	}

	contents = append(contents, geminiContent{
		Role:  "user",
		Parts: []geminiPart{{Text: req.Prompt}},
	})

	body := generateContentRequest{
		Contents:          contents,
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: systemInstruction}}},
	}
	body.GenerationConfig.Temperature = req.Temperature
	body.GenerationConfig.MaxOutputTokens = req.MaxTokens

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", g.baseURL, req.Model, g.apiKey)

	var resp generateContentResponse
	if err := g.post(ctx, url, body, &resp); err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	if resp.Error != nil {
		return "", fmt.Errorf("gemini generate: %s", resp.Error.Message)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini generate: empty response for model %s", req.Model)
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}

type embedContentRequest struct {
	Content geminiContent `json:"content"`
}

type embedContentResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// EmbedTexts embeds each chunk sequentially. Chunks of one document go out as
// a single batch from the caller's perspective; a failure aborts the batch.
func (g *GeminiClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))

	for i, text := range texts {
		emb, err := g.embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed embedding chunk %d: %w", i, err)
		}

		out[i] = emb
	}

	return out, nil
}

// EmbedQuery embeds a single query string.
func (g *GeminiClient) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	if query == "" {
		return nil, fmt.Errorf("empty query")
	}

	return g.embed(ctx, query)
}

func (g *GeminiClient) embed(ctx context.Context, text string) ([]float32, error) {
	if !g.Configured() {
		return nil, fmt.Errorf("gemini embed: API key not configured")
	}

	url := fmt.Sprintf("%s/%s:embedContent?key=%s", g.baseURL, geminiEmbedModel, g.apiKey)
	body := embedContentRequest{Content: geminiContent{Parts: []geminiPart{{Text: text}}}}

	var resp embedContentResponse
	if err := g.post(ctx, url, body, &resp); err != nil {
		return nil, err
	}

	if resp.Error != nil {
		return nil, fmt.Errorf("gemini embed: %s", resp.Error.Message)
	}

	if len(resp.Embedding.Values) != EmbeddingDim {
		return nil, fmt.Errorf("expected embedding dim %d, got %d", EmbeddingDim, len(resp.Embedding.Values))
	}

	return resp.Embedding.Values, nil
}

func (g *GeminiClient) post(ctx context.Context, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)

		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(raw))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
