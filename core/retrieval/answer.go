package retrieval

import (
	"regexp"
	"sort"
	"strings"
)

// Fixed answers for the two empty-result outcomes. Returning these instead
// of a best-but-irrelevant sentence prevents presenting noise as an answer.
const (
	NoDirectAnswer     = "The document does not provide a direct answer to this question."
	NoRelevantInfoFound = "No relevant information found."
)

// minAnswerSentenceLength discards fragments that survived sentence splitting
const minAnswerSentenceLength = 30

var (
	keywordPattern = regexp.MustCompile(`[a-zA-Z]{3,}`)
	yearPattern    = regexp.MustCompile(`\b(18|19|20)\d{2}\b`)
)

var stopWords = map[string]struct{}{
	"what": {}, "when": {}, "where": {}, "who": {}, "how": {},
	"is": {}, "are": {}, "the": {}, "their": {}, "them": {},
}

// factCues mark questions whose expected answer is a single discrete value
// (date, count, name) rather than an explanation
var factCues = []string{
	"year", "when", "how many", "number", "date", "incorporated", "founded",
}

// IsFactQuestion reports whether the question asks for a single fact.
// Fact lookups need the single best match, not a spread of candidates.
func IsFactQuestion(question string) bool {
	lower := strings.ToLower(question)
	for _, cue := range factCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}

// ExtractAnswer selects the most keyword-salient sentence(s) of the context
// for the question. This is a deterministic extractive heuristic, not a
// generative step: sentences are scored by question keyword matches with a
// +2 bonus for year-like tokens, which are strong signals for ESG target
// and date questions. Fact questions return the single top sentence,
// descriptive questions up to the top two.
func ExtractAnswer(question string, context string) string {
	questionLower := strings.ToLower(question)
	keywords := extractKeywords(questionLower)

	type scoredSentence struct {
		score    int
		sentence string
	}

	var scored []scoredSentence
	for _, sentence := range splitSentences(context) {
		sentenceLower := strings.ToLower(sentence)

		score := 0
		for _, keyword := range keywords {
			if strings.Contains(sentenceLower, keyword) {
				score++
			}
		}
		if yearPattern.MatchString(sentence) {
			score += 2
		}

		if score > 0 && len(sentence) > minAnswerSentenceLength {
			scored = append(scored, scoredSentence{score: score, sentence: sentence})
		}
	}

	if len(scored) == 0 {
		return NoDirectAnswer
	}

	// Stable sort preserves document order on ties
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if IsFactQuestion(questionLower) {
		return scored[0].sentence
	}

	limit := 2
	if len(scored) < limit {
		limit = len(scored)
	}
	parts := make([]string, 0, limit)
	for _, s := range scored[:limit] {
		parts = append(parts, s.sentence)
	}
	return strings.Join(parts, " ")
}

// extractKeywords returns the stopword-filtered alphabetic tokens of
// length >= 3 from the (lowercased) question
func extractKeywords(question string) []string {
	var keywords []string
	for _, word := range keywordPattern.FindAllString(question, -1) {
		if _, ok := stopWords[word]; ok {
			continue
		}
		keywords = append(keywords, word)
	}
	return keywords
}

// splitSentences breaks text at sentence-final punctuation
func splitSentences(text string) []string {
	text = strings.ReplaceAll(text, "! ", "!|")
	text = strings.ReplaceAll(text, "? ", "?|")
	text = strings.ReplaceAll(text, ". ", ".|")

	var sentences []string
	for _, s := range strings.Split(text, "|") {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
