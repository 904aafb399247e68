package domain

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	DefaultKeywordCount   = 8
	DefaultSummaryWords   = 15
	NoSummaryPlaceholder  = "No summary available"
	minKeywordLength      = 4
	summaryTruncateMarker = "..."
)

var (
	nonWordPattern    = regexp.MustCompile(`[^\p{L}\p{N}_\p{Z}\s]`)
	sentenceSeparator = regexp.MustCompile(`[.!?]+`)
)

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {}, "at": {}, "to": {},
	"for": {}, "of": {}, "with": {}, "by": {}, "was": {}, "were": {}, "is": {}, "are": {},
	"am": {}, "be": {}, "been": {}, "being": {}, "have": {}, "has": {}, "had": {}, "do": {},
	"does": {}, "did": {}, "will": {}, "would": {}, "could": {}, "should": {}, "may": {},
	"might": {}, "must": {}, "can": {}, "a": {}, "an": {}, "this": {}, "that": {},
	"these": {}, "those": {}, "i": {}, "you": {}, "he": {}, "she": {}, "it": {}, "we": {},
	"they": {}, "me": {}, "him": {}, "her": {}, "us": {}, "them": {}, "my": {}, "your": {},
	"his": {}, "its": {}, "our": {}, "their": {},
}

// IsStopWord reports whether w is in the stop-word set.
func IsStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}

// ExtractKeywords returns the topN most frequent content words of text.
// Anything but letters, digits, underscores and spaces is stripped, words
// shorter than four letters and stop words are dropped, and equal counts keep
// first-occurrence order.
func ExtractKeywords(text string, topN int) []string {
	if topN <= 0 {
		topN = DefaultKeywordCount
	}

	clean := nonWordPattern.ReplaceAllString(strings.ToLower(text), "")

	counts := make(map[string]int)
	var order []string
	for _, w := range strings.Fields(clean) {
		if utf8.RuneCountInString(w) < minKeywordLength || IsStopWord(w) {
			continue
		}
		if _, seen := counts[w]; !seen {
			order = append(order, w)
		}
		counts[w]++
	}

	return TopByCount(order, counts, topN)
}

// TopByCount sorts keys by descending count, keeping the given order for ties,
// and returns at most n of them.
func TopByCount(order []string, counts map[string]int, n int) []string {
	ranked := append([]string(nil), order...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i]] > counts[ranked[j]]
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Summarize returns the first sentence of text capped at maxWords words.
// A sentence within the cap ends with a period; a truncated one ends with
// three dots.
func Summarize(text string, maxWords int) string {
	if maxWords <= 0 {
		maxWords = DefaultSummaryWords
	}

	var first string
	for _, s := range sentenceSeparator.Split(strings.TrimSpace(text), -1) {
		if s = strings.TrimSpace(s); s != "" {
			first = s
			break
		}
	}
	if first == "" {
		return NoSummaryPlaceholder
	}

	words := strings.Fields(first)
	if len(words) <= maxWords {
		return first + "."
	}
	return strings.Join(words[:maxWords], " ") + summaryTruncateMarker
}
