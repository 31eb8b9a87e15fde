package summarize

import (
	"context"
	"regexp"
	"sort"
	"strings"
)

// FrequencySummarizer is an extractive summarizer: it scores each sentence by
// the normalized frequency of its non-stopword tokens and keeps the highest
// scoring sentences in original order.
type FrequencySummarizer struct{}

// NewFrequencySummarizer returns a summarizer with the default stopword list.
func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{}
}

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"but": {}, "by": {}, "for": {}, "from": {}, "has": {}, "have": {},
	"he": {}, "her": {}, "his": {}, "i": {}, "if": {}, "in": {}, "is": {},
	"it": {}, "its": {}, "of": {}, "on": {}, "or": {}, "our": {}, "she": {},
	"that": {}, "the": {}, "their": {}, "them": {}, "there": {}, "they": {},
	"this": {}, "to": {}, "was": {}, "we": {}, "were": {}, "will": {},
	"with": {}, "you": {}, "your": {},
}

var (
	sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]?`)
	tokenRe    = regexp.MustCompile(`[a-zA-Z']+`)
)

type scoredSentence struct {
	index int
	text  string
	score float64
}

// Summarize keeps the maxSentences highest-scoring sentences, preserving
// their original order.
func (s *FrequencySummarizer) Summarize(_ context.Context, text string, maxSentences int) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" || maxSentences <= 0 {
		return "", nil
	}

	sentences := splitSentences(text)
	if len(sentences) <= maxSentences {
		return strings.Join(sentences, " "), nil
	}

	// Word frequencies across the whole text, stopwords excluded.
	freq := make(map[string]float64)
	var maxFreq float64
	for _, sent := range sentences {
		for _, tok := range tokenize(sent) {
			if _, skip := stopwords[tok]; skip {
				continue
			}
			freq[tok]++
			if freq[tok] > maxFreq {
				maxFreq = freq[tok]
			}
		}
	}
	if maxFreq == 0 {
		return strings.Join(sentences[:maxSentences], " "), nil
	}
	for tok := range freq {
		freq[tok] /= maxFreq
	}

	scored := make([]scoredSentence, 0, len(sentences))
	for i, sent := range sentences {
		var score float64
		for _, tok := range tokenize(sent) {
			score += freq[tok]
		}
		scored = append(scored, scoredSentence{index: i, text: sent, score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	top := scored[:maxSentences]
	sort.Slice(top, func(i, j int) bool { return top[i].index < top[j].index })

	parts := make([]string, 0, len(top))
	for _, s := range top {
		parts = append(parts, s.text)
	}
	return strings.Join(parts, " "), nil
}

func splitSentences(text string) []string {
	matches := sentenceRe.FindAllString(text, -1)
	sentences := make([]string, 0, len(matches))
	for _, m := range matches {
		m = strings.TrimSpace(m)
		if m != "" {
			sentences = append(sentences, m)
		}
	}
	return sentences
}

func tokenize(sentence string) []string {
	raw := tokenRe.FindAllString(strings.ToLower(sentence), -1)
	return raw
}
