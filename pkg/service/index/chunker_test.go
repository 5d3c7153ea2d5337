package index_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/m-mizutani/gt"

	"github.com/jari1882/simkb/pkg/service/index"
)

func TestChunk(t *testing.T) {
	t.Run("empty text yields no chunks", func(t *testing.T) {
		gt.Array(t, index.Chunk("", 100, 20)).Length(0)
	})

	t.Run("short text is a single chunk", func(t *testing.T) {
		chunks := index.Chunk("short text", 100, 20)
		gt.Array(t, chunks).Length(1)
		gt.Value(t, chunks[0]).Equal("short text")
	})

	t.Run("chunks never exceed the window size", func(t *testing.T) {
		text := strings.Repeat("a", 950)
		chunks := index.Chunk(text, 100, 20)
		gt.Value(t, len(chunks) > 1).Equal(true)
		for _, chunk := range chunks {
			gt.Value(t, len(chunk) <= 100).Equal(true)
		}
	})

	t.Run("adjacent chunks overlap", func(t *testing.T) {
		text := strings.Repeat("a", 250)
		chunks := index.Chunk(text, 100, 20)

		// No break points in the text, so windows are exact: each chunk
		// starts 80 characters after the previous one.
		gt.Array(t, chunks).Length(3)
		gt.Value(t, chunks[0]).Equal(strings.Repeat("a", 100))
		gt.Value(t, len(chunks[1])).Equal(100)
		gt.Value(t, chunks[2]).Equal(strings.Repeat("a", 90))
	})

	t.Run("breaks at sentence boundary past the midpoint", func(t *testing.T) {
		sentence := strings.Repeat("b", 79) + "."
		text := sentence + strings.Repeat("c", 200)

		chunks := index.Chunk(text, 100, 0)
		gt.Value(t, chunks[0]).Equal(sentence)
	})

	t.Run("ignores sentence boundary before the midpoint", func(t *testing.T) {
		text := strings.Repeat("b", 19) + "." + strings.Repeat("c", 300)

		chunks := index.Chunk(text, 100, 0)
		gt.Value(t, len(chunks[0])).Equal(100)
	})

	t.Run("concatenation without overlap reconstructs the text", func(t *testing.T) {
		text := strings.Repeat("x", 333)
		chunks := index.Chunk(text, 100, 0)

		gt.Value(t, strings.Join(chunks, "")).Equal(text)
	})

	t.Run("windows are measured in runes, not bytes", func(t *testing.T) {
		text := strings.Repeat("é", 300)
		chunks := index.Chunk(text, 101, 20)

		gt.Value(t, len(chunks) > 1).Equal(true)
		for _, chunk := range chunks {
			gt.Value(t, utf8.ValidString(chunk)).Equal(true)
			gt.Value(t, utf8.RuneCountInString(chunk) <= 101).Equal(true)
		}
	})

	t.Run("multi-byte text reconstructs without overlap", func(t *testing.T) {
		text := strings.Repeat("引受と報酬。", 60)
		chunks := index.Chunk(text, 100, 0)

		gt.Value(t, strings.Join(chunks, "")).Equal(text)
		for _, chunk := range chunks {
			gt.Value(t, utf8.ValidString(chunk)).Equal(true)
		}
	})
}
