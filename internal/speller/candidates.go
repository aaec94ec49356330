package speller

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

// eachEdit1 calls fn for every string one edit away from word: deletions,
// adjacent transpositions, substitutions and insertions over the alphabet.
// The same string may be produced more than once.
func eachEdit1(word []rune, fn func(string)) {
	n := len(word)
	buf := make([]rune, 0, n+1)
	for i := 0; i <= n; i++ {
		left, right := word[:i], word[i:]
		if len(right) > 0 {
			// deletion
			buf = append(append(buf[:0], left...), right[1:]...)
			fn(string(buf))
		}
		if len(right) > 1 {
			// transposition
			buf = append(append(buf[:0], left...), right[1], right[0])
			buf = append(buf, right[2:]...)
			fn(string(buf))
		}
		for _, c := range alphabet {
			if len(right) > 0 {
				// substitution
				buf = append(append(buf[:0], left...), c)
				buf = append(buf, right[1:]...)
				fn(string(buf))
			}
			// insertion
			buf = append(append(buf[:0], left...), c)
			buf = append(buf, right...)
			fn(string(buf))
		}
	}
}

// edits1 returns the set of strings one edit away from word.
func edits1(word string) map[string]struct{} {
	set := make(map[string]struct{})
	eachEdit1([]rune(word), func(e string) {
		set[e] = struct{}{}
	})
	return set
}

// knownEdits1 returns the vocabulary words one edit away from word.
func (s *Speller) knownEdits1(word string) map[string]struct{} {
	known := make(map[string]struct{})
	eachEdit1([]rune(word), func(e string) {
		if s.vocab.Contains(e) {
			known[e] = struct{}{}
		}
	})
	return known
}

// knownEdits2 returns the vocabulary words two edits away from word. The
// second-level edits are filtered while they are generated instead of being
// collected, which keeps memory proportional to the first level.
func (s *Speller) knownEdits2(ctx context.Context, word string) (map[string]struct{}, error) {
	known := make(map[string]struct{})
	for e1 := range edits1(word) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		eachEdit1([]rune(e1), func(e2 string) {
			if s.vocab.Contains(e2) {
				known[e2] = struct{}{}
			}
		})
	}
	return known, nil
}

// closest scans the whole vocabulary for the word nearest to word. Ties go to
// the more frequent word, then to the lexicographically smaller one. It returns
// false when the vocabulary is empty.
func (s *Speller) closest(ctx context.Context, word string) (string, bool, error) {
	best := ""
	bestDist := -1
	for i, w := range s.words {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return "", false, err
			}
		}
		d := LevenshteinDistance(word, w)
		if bestDist < 0 || d < bestDist ||
			(d == bestDist && s.vocab.Frequency(w) > s.vocab.Frequency(best)) {
			best, bestDist = w, d
		}
	}
	return best, bestDist >= 0, nil
}

// Candidates returns the sorted, non-empty set of possible corrections for a
// lowercase word.
func (s *Speller) Candidates(word string) []string {
	c, _ := s.candidates(context.Background(), word)
	return c
}

func (s *Speller) candidates(ctx context.Context, word string) ([]string, error) {
	if s.vocab.Contains(word) {
		return []string{word}, nil
	}
	if s.maxWordLength > 0 && len([]rune(word)) > s.maxWordLength {
		s.logger.Debug("word exceeds max length, skipping candidate search",
			zap.String("word", word), zap.Int("max_word_length", s.maxWordLength))
		return []string{word}, nil
	}

	if known := s.knownEdits1(word); len(known) > 0 {
		return sortedSet(known), nil
	}

	known, err := s.knownEdits2(ctx, word)
	if err != nil {
		return nil, err
	}
	if len(known) > 0 {
		return sortedSet(known), nil
	}

	s.logger.Debug("no candidates within two edits, scanning vocabulary",
		zap.String("word", word), zap.Int("vocabulary_size", len(s.words)))
	best, ok, err := s.closest(ctx, word)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []string{word}, nil
	}
	return []string{best}, nil
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for w := range set {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
