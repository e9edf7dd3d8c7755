package workflow

import (
	"encoding/json"
	"time"
)

// Output formats recognized by FormatResponse. Anything else, including
// "text", passes the response through unchanged.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatHTML     = "html"
)

// FormatResponse applies the output component's pure text transform.
func FormatResponse(format, query, response, model string, now time.Time) string {
	switch format {
	case FormatMarkdown:
		return "# AI Response\n\n" + response
	case FormatJSON:
		payload, err := json.Marshal(map[string]any{
			"query":     query,
			"response":  response,
			"model":     model,
			"timestamp": now.Format(time.RFC3339Nano),
		})
		if err != nil {
			return response
		}

		return string(payload)
	case FormatHTML:
		return "<h1>AI Response</h1><p>" + response + "</p>"
	default:
		return response
	}
}
