package speech

import (
	"strings"
	"unicode"
)

// SplitChunks breaks text into sentence-bounded chunks no longer than limit
// runes, so platform utterance-length limits never truncate narration.
// Sentences are packed greedily; a single sentence longer than the limit is
// split on word boundaries.
func SplitChunks(text string, limit int) []string {
	if limit <= 0 {
		limit = 220
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
	}

	for _, sentence := range splitSentences(text) {
		for _, piece := range splitLongSentence(sentence, limit) {
			if current.Len() > 0 && current.Len()+len(piece)+1 > limit {
				flush()
			}
			if current.Len() > 0 {
				current.WriteByte(' ')
			}
			current.WriteString(piece)
		}
	}
	flush()

	return chunks
}

// splitSentences cuts text after terminal punctuation followed by space or
// end of input. Devanagari danda counts as a terminator alongside ASCII
// sentence endings.
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(strings.TrimSpace(text))
	start := 0

	for i := 0; i < len(runes); i++ {
		if !isSentenceEnd(runes[i]) {
			continue
		}
		// Consume runs of terminators and trailing quotes.
		j := i
		for j+1 < len(runes) && (isSentenceEnd(runes[j+1]) || runes[j+1] == '"' || runes[j+1] == '\'') {
			j++
		}
		if j+1 >= len(runes) || unicode.IsSpace(runes[j+1]) {
			if s := strings.TrimSpace(string(runes[start : j+1])); s != "" {
				sentences = append(sentences, s)
			}
			start = j + 1
			i = j
		}
	}
	if start < len(runes) {
		if s := strings.TrimSpace(string(runes[start:])); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '।' // danda
}

func splitLongSentence(sentence string, limit int) []string {
	if len(sentence) <= limit {
		return []string{sentence}
	}

	var pieces []string
	var current strings.Builder
	for _, word := range strings.Fields(sentence) {
		if current.Len() > 0 && current.Len()+len(word)+1 > limit {
			pieces = append(pieces, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		pieces = append(pieces, current.String())
	}
	return pieces
}
