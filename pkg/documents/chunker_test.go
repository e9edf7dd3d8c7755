package documents_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manishsingh1309/ai-planet/pkg/documents"
)

func TestChunkText(t *testing.T) {
	t.Parallel()

	t.Run("short text is a single chunk", func(t *testing.T) {
		t.Parallel()

		chunks := documents.ChunkText("hello world", 1000, 200)
		assert.Equal(t, []string{"hello world"}, chunks)
	})

	t.Run("text equal to chunk size is a single chunk", func(t *testing.T) {
		t.Parallel()

		text := strings.Repeat("a", 1000)
		chunks := documents.ChunkText(text, 1000, 200)
		assert.Equal(t, []string{text}, chunks)
	})

	t.Run("empty text yields nothing", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, documents.ChunkText("", 1000, 200))
	})

	t.Run("window advances by chunk size minus overlap", func(t *testing.T) {
		t.Parallel()

		text := strings.Repeat("a", 1800)
		chunks := documents.ChunkText(text, 1000, 200)

		require.Len(t, chunks, 3)
		assert.Len(t, chunks[0], 1000)
		assert.Len(t, chunks[1], 1000)
		// The final window starts at 1600 even though the previous chunk
		// already reached the end, leaving an overlap-only tail.
		assert.Len(t, chunks[2], 200)
	})

	t.Run("consecutive chunks share the boundary region", func(t *testing.T) {
		t.Parallel()

		var builder strings.Builder
		for i := 0; builder.Len() < 2500; i++ {
			builder.WriteString(strings.Repeat(string(rune('a'+i%26)), 100))
		}

		text := builder.String()[:2500]
		chunks := documents.ChunkText(text, 1000, 200)

		require.GreaterOrEqual(t, len(chunks), 2)
		assert.Equal(t, chunks[0][800:], chunks[1][:200])
	})

	t.Run("zero chunk size yields nothing", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, documents.ChunkText("hello", 0, 0))
	})
}
