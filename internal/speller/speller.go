package speller

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// Result is the outcome of checking a text.
type Result struct {
	Original  string            `json:"original"`
	Corrected string            `json:"corrected"`
	Changes   map[string]string `json:"changes"`
	IsCorrect bool              `json:"is_correct"`
}

// Speller corrects words and sentences against a Vocabulary.
// A Speller holds no mutable state and may be shared between goroutines.
type Speller struct {
	vocab         *Vocabulary
	words         []string // vocabulary words in lexicographic order, for the full scan
	maxWordLength int
	logger        *zap.Logger
}

// Option is a functional option for configuring Speller.
type Option func(*Speller)

// WithMaxWordLength bounds candidate generation: words longer than n runes
// are returned unchanged. Zero or negative means no limit.
func WithMaxWordLength(n int) Option {
	return func(s *Speller) {
		if n > 0 {
			s.maxWordLength = n
		}
	}
}

// WithLogger sets a logger for debug output about expensive fallbacks.
func WithLogger(l *zap.Logger) Option {
	return func(s *Speller) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Speller backed by vocab. A nil vocab behaves as empty.
func New(vocab *Vocabulary, opts ...Option) *Speller {
	if vocab == nil {
		vocab = EmptyVocabulary()
	}
	s := &Speller{
		vocab:  vocab,
		words:  vocab.Words(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Vocabulary returns the vocabulary the speller was built with.
func (s *Speller) Vocabulary() *Vocabulary {
	return s.vocab
}

// Correct returns the suggested spelling for a single word. Known words and
// words without any suggestion come back unchanged; a leading capital is kept.
func (s *Speller) Correct(word string) string {
	out, _ := s.CorrectContext(context.Background(), word)
	return out
}

// CorrectContext is Correct with cancellation. It returns ctx.Err() if the
// context ends during the candidate search.
func (s *Speller) CorrectContext(ctx context.Context, word string) (string, error) {
	out, _, err := s.Suggest(ctx, word)
	return out, err
}

// Suggest returns the correction of word together with the candidates it was
// chosen from, running the candidate search once. An empty word has no
// candidates.
func (s *Speller) Suggest(ctx context.Context, word string) (string, []string, error) {
	if word == "" {
		return word, nil, nil
	}
	lower := strings.ToLower(norm.NFC.String(word))
	cands, err := s.candidates(ctx, lower)
	if err != nil {
		return "", nil, err
	}

	best := s.best(lower, cands)
	if best == "" {
		return word, cands, nil
	}
	first, _ := utf8.DecodeRuneInString(word)
	if unicode.IsUpper(first) {
		return capitalize(best), cands, nil
	}
	return best, cands, nil
}

// best picks the candidate closest to word; frequency only breaks distance
// ties, and the lexicographically smaller candidate wins remaining ties.
func (s *Speller) best(word string, cands []string) string {
	best := ""
	bestDist := -1
	for _, c := range cands {
		d := LevenshteinDistance(word, c)
		switch {
		case bestDist < 0 || d < bestDist:
			best, bestDist = c, d
		case d == bestDist:
			pc, pb := s.vocab.Probability(c), s.vocab.Probability(best)
			if pc > pb || (pc == pb && c < best) {
				best = c
			}
		}
	}
	return best
}

// CorrectSentence corrects every word of text, copying separators verbatim.
// The returned map holds original word -> correction for each word whose
// correction differs from it ignoring case.
func (s *Speller) CorrectSentence(text string) (string, map[string]string) {
	out, changes, _ := s.CorrectSentenceContext(context.Background(), text)
	return out, changes
}

// CorrectSentenceContext is CorrectSentence with cancellation.
func (s *Speller) CorrectSentenceContext(ctx context.Context, text string) (string, map[string]string, error) {
	changes := make(map[string]string)
	var b strings.Builder
	b.Grow(len(text))
	for _, tok := range Tokenize(text) {
		if !tok.Word {
			b.WriteString(tok.Text)
			continue
		}
		corrected, err := s.CorrectContext(ctx, tok.Text)
		if err != nil {
			return "", nil, err
		}
		b.WriteString(corrected)
		if !sameWord(tok.Text, corrected) {
			changes[tok.Text] = corrected
		}
	}
	return b.String(), changes, nil
}

// Check corrects text and reports whether it needed any change.
func (s *Speller) Check(ctx context.Context, text string) (*Result, error) {
	corrected, changes, err := s.CorrectSentenceContext(ctx, text)
	if err != nil {
		return nil, err
	}
	return &Result{
		Original:  text,
		Corrected: corrected,
		Changes:   changes,
		IsCorrect: len(changes) == 0,
	}, nil
}

// sameWord reports whether a and b spell the same word ignoring case and
// Unicode composition.
func sameWord(a, b string) bool {
	return strings.EqualFold(norm.NFC.String(a), norm.NFC.String(b))
}

// capitalize uppercases the first rune of s and leaves the rest as is.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
