// Package documents handles PDF ingestion: text extraction, chunking, and
// embedding into the vector store.
package documents

// ChunkText splits text into fixed-size chunks with trailing overlap. The
// window advances by chunkSize - overlap, so consecutive chunks share their
// boundary region.
func ChunkText(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 || text == "" {
		return nil
	}

	if len(text) <= chunkSize {
		return []string{text}
	}

	if overlap >= chunkSize {
		overlap = 0
	}

	var chunks []string

	// The window advances by chunkSize-overlap even past a chunk that already
	// reached the end, which can emit a final overlap-only tail. Kept as-is:
	// stored chunk ids are derived from this sequence.
	for start := 0; start < len(text); start = start + chunkSize - overlap {
		end := start + chunkSize
		if end > len(text) {
			end = len(text)
		}

		chunks = append(chunks, text[start:end])
	}

	return chunks
}
