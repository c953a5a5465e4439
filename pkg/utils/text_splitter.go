package utils

import (
	"strings"
	"unicode/utf8"
)

// minChunkLength filters out near-empty fragments that would waste an
// embedding call (rune count, since knowledge files are mostly Korean).
const minChunkLength = 10

// CountTokens approximates the token count of a text as its whitespace
// delimited word count. This is intentionally NOT a real tokenizer; chunk
// size guarantees are approximate by design.
func CountTokens(text string) int {
	return len(strings.Fields(text))
}

// ChunkText splits raw source text into segments of at most maxTokens
// (approximate). Character sheets use bracketed headings ("[성격]", "[배경]")
// as section markers; sections are split first so a chunk never straddles a
// heading, then sentences are greedily packed into a running buffer until
// the budget is hit. Chunks shorter than minChunkLength runes are dropped.
//
// Pure and deterministic. Empty input yields nil.
func ChunkText(text string, maxTokens int) []string {
	var chunks []string

	sections := strings.Split(text, "[")
	for i, section := range sections {
		if strings.TrimSpace(section) == "" {
			continue
		}
		// Restore the heading marker consumed by the split. The leading
		// piece before the first "[" has no heading to restore.
		sectionText := section
		if i > 0 {
			sectionText = "[" + section
		}
		chunks = append(chunks, chunkSection(sectionText, maxTokens)...)
	}

	filtered := chunks[:0]
	for _, chunk := range chunks {
		if utf8.RuneCountInString(chunk) > minChunkLength {
			filtered = append(filtered, chunk)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return filtered
}

// chunkSection greedily accumulates sentences into buffers bounded by
// maxTokens. A single sentence larger than the budget becomes its own chunk.
func chunkSection(section string, maxTokens int) []string {
	var chunks []string
	var current strings.Builder

	for _, sentence := range strings.Split(section, ".") {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		sentence += "."

		candidate := sentence
		if current.Len() > 0 {
			candidate = current.String() + " " + sentence
		}

		if CountTokens(candidate) <= maxTokens {
			if current.Len() > 0 {
				current.WriteString(" ")
			}
			current.WriteString(sentence)
			continue
		}

		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		current.WriteString(sentence)
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
