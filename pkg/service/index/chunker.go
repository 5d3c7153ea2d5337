package index

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Chunk splits text into fixed-size character windows with overlap
// between consecutive windows. When a window would cut mid-sentence, the
// break moves back to the last period or newline as long as that point is
// past the window's midpoint, so chunks tend to end on sentence
// boundaries. Windows are measured in runes, never bytes, so a boundary
// cannot land inside a multi-byte character.
func Chunk(text string, size, overlap int) []string {
	if text == "" {
		return nil
	}
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
		if overlap >= size {
			overlap = size / 4
		}
	}

	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		breakAt := -1
		for i := end - 1; i >= start; i-- {
			if runes[i] == '.' || runes[i] == '\n' {
				breakAt = i - start
				break
			}
		}
		if breakAt > size/2 {
			end = start + breakAt + 1
		}

		chunks = append(chunks, string(runes[start:end]))

		next := end - overlap
		if next <= start {
			// Overlap must never stall the scan.
			next = end
		}
		start = next
	}
	return chunks
}
