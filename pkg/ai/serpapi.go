package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	serpAPIBaseURL    = "https://serpapi.com/search.json"
	searchResultLimit = 3
)

// SerpAPIClient performs Google searches through SerpAPI and condenses the
// organic results into a plain-text digest for prompt context.
type SerpAPIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewSerpAPIClient(apiKey string) *SerpAPIClient {
	return &SerpAPIClient{
		apiKey:  apiKey,
		baseURL: serpAPIBaseURL,
		client:  http.DefaultClient,
	}
}

type serpAPIResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
}

// Search returns up to three Title/Snippet blocks. A missing key degrades to
// the not-configured message; transport errors degrade to an error string so
// the surrounding request still succeeds.
func (s *SerpAPIClient) Search(ctx context.Context, query string) (string, error) {
	if s.apiKey == "" {
		return MsgSearchNotConfigured, nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("api_key", s.apiKey)
	params.Set("num", fmt.Sprintf("%d", searchResultLimit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Sprintf("Web search error: %v", err), nil
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	var result serpAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Sprintf("Web search error: %v", err), nil
	}

	if len(result.OrganicResults) == 0 {
		return "No web search results found.", nil
	}

	blocks := make([]string, 0, searchResultLimit)

	for i, r := range result.OrganicResults {
		if i == searchResultLimit {
			break
		}

		title, snippet := r.Title, r.Snippet
		if title == "" {
			title = "N/A"
		}

		if snippet == "" {
			snippet = "N/A"
		}

		blocks = append(blocks, fmt.Sprintf("Title: %s\nSnippet: %s", title, snippet))
	}

	return strings.Join(blocks, "\n\n"), nil
}
