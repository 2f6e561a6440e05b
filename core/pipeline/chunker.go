package pipeline

import (
	"fmt"
	"strings"
)

// sentence and line separators tried after paragraph breaks, in order
var sentenceSeparators = []string{". ", "! ", "? ", "\n"}

// WindowChunker creates a sliding-window chunker with the given target
// chunk size and overlap, both in characters. Each window prefers to
// break at a paragraph boundary, then a sentence boundary, then
// whitespace, and only falls back to a hard character cut. This order
// minimizes mid-sentence truncation, which would corrupt downstream
// keyword and date extraction.
func WindowChunker(chunkSize int, overlap int) ChunkFunc {
	return func(text string) ([]Segment, error) {
		if chunkSize <= 0 {
			return nil, fmt.Errorf("chunk size must be positive")
		}
		if overlap < 0 || overlap >= chunkSize {
			return nil, fmt.Errorf("overlap must be non-negative and smaller than chunk size")
		}

		if strings.TrimSpace(text) == "" {
			return []Segment{}, nil
		}

		var segments []Segment
		start := 0
		chunkIdx := 0

		for start < len(text) {
			end := start + chunkSize
			if end >= len(text) {
				end = len(text)
			} else {
				end = breakPoint(text, start, end)
			}

			content := strings.TrimSpace(text[start:end])
			if content != "" {
				segments = append(segments, Segment{
					Content:    content,
					ChunkIndex: chunkIdx,
					Length:     len(content),
					StartPos:   start,
				})
				chunkIdx++
			}

			if end == len(text) {
				break
			}

			next := end - overlap
			if next <= start {
				// Window too small to step with overlap, advance without it
				next = end
			}
			start = next
		}

		return segments, nil
	}
}

// breakPoint picks the cut position inside (start, limit], preferring
// paragraph over sentence over whitespace boundaries. Boundaries in the
// first half of the window are ignored so chunks stay near the target
// size; without a usable boundary the cut is a hard one at limit.
func breakPoint(text string, start int, limit int) int {
	window := text[start:limit]
	minBreak := len(window) / 2

	if i := strings.LastIndex(window, "\n\n"); i >= minBreak {
		return start + i + 2
	}

	for _, sep := range sentenceSeparators {
		if i := strings.LastIndex(window, sep); i >= minBreak {
			return start + i + len(sep)
		}
	}

	if i := strings.LastIndexByte(window, ' '); i >= minBreak {
		return start + i + 1
	}

	return limit
}
