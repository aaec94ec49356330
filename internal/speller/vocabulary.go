// Package speller corrects misspelled Portuguese words using a word frequency
// vocabulary learned from a corpus and an edit-distance candidate search.
package speller

import (
	"sort"
)

// Vocabulary maps lowercase words to their corpus frequency.
// It is immutable after construction and safe for concurrent reads.
type Vocabulary struct {
	counts map[string]int
	total  int
}

// Stats summarises a vocabulary.
type Stats struct {
	Words int `json:"words"`
	Total int `json:"total"`
}

// CountWords extracts every word run from text, lowercases it and counts occurrences.
func CountWords(text string) map[string]int {
	counts := make(map[string]int)
	for _, w := range Words(text) {
		counts[w]++
	}
	return counts
}

// NewVocabulary copies counts into a new Vocabulary. Non-positive counts are
// dropped, and when minFrequency > 1 so are words seen fewer times than that.
// The total is the sum of the retained counts, or 1 when nothing is retained.
func NewVocabulary(counts map[string]int, minFrequency int) *Vocabulary {
	v := &Vocabulary{counts: make(map[string]int, len(counts))}
	for w, c := range counts {
		if c <= 0 || (minFrequency > 1 && c < minFrequency) {
			continue
		}
		v.counts[w] = c
		v.total += c
	}
	if v.total == 0 {
		v.total = 1
	}
	return v
}

// BuildVocabulary counts the words of a corpus text and builds a Vocabulary.
func BuildVocabulary(text string, minFrequency int) *Vocabulary {
	return NewVocabulary(CountWords(text), minFrequency)
}

// EmptyVocabulary returns a vocabulary with no words.
func EmptyVocabulary() *Vocabulary {
	return NewVocabulary(nil, 1)
}

// Probability returns count(word)/N, or 0 for unknown words.
func (v *Vocabulary) Probability(word string) float64 {
	return float64(v.counts[word]) / float64(v.total)
}

// Contains reports whether word is in the vocabulary.
func (v *Vocabulary) Contains(word string) bool {
	_, ok := v.counts[word]
	return ok
}

// Frequency returns the corpus count of word (0 if absent).
func (v *Vocabulary) Frequency(word string) int {
	return v.counts[word]
}

// Total returns N, the sum of all frequencies (never zero).
func (v *Vocabulary) Total() int {
	return v.total
}

// Len returns the number of distinct words.
func (v *Vocabulary) Len() int {
	return len(v.counts)
}

// Words returns all words in lexicographic order.
func (v *Vocabulary) Words() []string {
	words := make([]string, 0, len(v.counts))
	for w := range v.counts {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// Each calls fn for every word and its frequency, in lexicographic order.
func (v *Vocabulary) Each(fn func(word string, frequency int)) {
	for _, w := range v.Words() {
		fn(w, v.counts[w])
	}
}

// Stats returns the word count and total frequency.
func (v *Vocabulary) Stats() Stats {
	return Stats{Words: len(v.counts), Total: v.total}
}
