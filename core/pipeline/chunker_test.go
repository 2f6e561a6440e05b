package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowChunker(t *testing.T) {
	t.Run("Empty text produces no segments", func(t *testing.T) {
		chunker := WindowChunker(100, 20)
		segments, err := chunker("")
		require.NoError(t, err)
		assert.Empty(t, segments)

		segments, err = chunker("   \n\t  ")
		require.NoError(t, err)
		assert.Empty(t, segments)
	})

	t.Run("Short text yields a single segment", func(t *testing.T) {
		chunker := WindowChunker(100, 20)
		segments, err := chunker("A short disclosure.")
		require.NoError(t, err)
		require.Len(t, segments, 1)
		assert.Equal(t, "A short disclosure.", segments[0].Content)
		assert.Equal(t, 0, segments[0].ChunkIndex)
		assert.Equal(t, len("A short disclosure."), segments[0].Length)
	})

	t.Run("Long text is split into overlapping windows", func(t *testing.T) {
		sentence := "Our emissions fell again this year across all sites. "
		text := strings.Repeat(sentence, 30)

		chunker := WindowChunker(200, 50)
		segments, err := chunker(text)
		require.NoError(t, err)
		require.Greater(t, len(segments), 1, "Expected multiple segments")

		for i, segment := range segments {
			assert.Equal(t, i, segment.ChunkIndex, "Expected contiguous chunk indexes")
			assert.LessOrEqual(t, len(segment.Content), 200, "Expected segments to stay within the window")
			assert.NotEmpty(t, segment.Content)
		}
	})

	t.Run("Consecutive windows overlap", func(t *testing.T) {
		sentence := "The company reports progress on renewable energy adoption. "
		text := strings.Repeat(sentence, 20)

		chunker := WindowChunker(200, 50)
		segments, err := chunker(text)
		require.NoError(t, err)
		require.Greater(t, len(segments), 1)

		for i := 1; i < len(segments); i++ {
			assert.Less(t, segments[i].StartPos, segments[i-1].StartPos+200,
				"Expected each window to start inside the previous one")
			assert.Greater(t, segments[i].StartPos, segments[i-1].StartPos,
				"Expected windows to advance")
		}
	})

	t.Run("Break prefers sentence boundaries", func(t *testing.T) {
		// Two sentences; the second ends beyond the window, so the break
		// should land right after the first
		text := "This is the first full sentence of the document. This second sentence continues on and on well beyond the window limit set here."

		chunker := WindowChunker(80, 10)
		segments, err := chunker(text)
		require.NoError(t, err)
		require.NotEmpty(t, segments)
		assert.Equal(t, "This is the first full sentence of the document.", segments[0].Content)
	})

	t.Run("Chunk count follows the window formula on boundary-free text", func(t *testing.T) {
		// Without separators every cut is a hard one, so the count is
		// ceil((L-O)/(W-O)) and indexes run 0..n-1 with step W-O
		const length, window, overlap = 2000, 200, 50
		text := strings.Repeat("x", length)

		chunker := WindowChunker(window, overlap)
		segments, err := chunker(text)
		require.NoError(t, err)

		step := window - overlap
		expected := (length - overlap + step - 1) / step
		require.Len(t, segments, expected)
		for i, segment := range segments {
			assert.Equal(t, i, segment.ChunkIndex, "Expected sequential chunk indexes")
			assert.Equal(t, i*step, segment.StartPos, "Expected windows to advance by size minus overlap")
		}
	})

	t.Run("Hard cut without any boundary", func(t *testing.T) {
		text := strings.Repeat("x", 500)

		chunker := WindowChunker(100, 0)
		segments, err := chunker(text)
		require.NoError(t, err)
		require.Len(t, segments, 5)
		for _, segment := range segments {
			assert.Equal(t, 100, len(segment.Content))
		}
	})

	t.Run("Invalid chunk size fails", func(t *testing.T) {
		chunker := WindowChunker(0, 0)
		_, err := chunker("some text")
		assert.Error(t, err)
	})

	t.Run("Overlap not below chunk size fails", func(t *testing.T) {
		chunker := WindowChunker(100, 100)
		_, err := chunker("some text")
		assert.Error(t, err)

		chunker = WindowChunker(100, -1)
		_, err = chunker("some text")
		assert.Error(t, err)
	})
}

func TestBreakPoint(t *testing.T) {
	t.Run("Paragraph break wins over sentence break", func(t *testing.T) {
		text := "First paragraph ends here. More text.\n\nSecond paragraph follows with more content."
		// Window covers both; paragraph break is in the second half
		cut := breakPoint(text, 0, 60)
		assert.Equal(t, strings.Index(text, "\n\n")+2, cut)
	})

	t.Run("Boundary in first half of window is ignored", func(t *testing.T) {
		text := "Short. " + strings.Repeat("y", 100)
		cut := breakPoint(text, 0, 80)
		// The only sentence break sits at position 6, well before the
		// window midpoint, so the cut is a hard one
		assert.Equal(t, 80, cut)
	})

	t.Run("Whitespace used when no sentence boundary exists", func(t *testing.T) {
		text := strings.Repeat("z", 70) + " " + strings.Repeat("z", 50)
		cut := breakPoint(text, 0, 100)
		assert.Equal(t, 71, cut)
	})
}
