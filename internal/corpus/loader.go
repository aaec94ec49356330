package corpus

import (
	"github.com/hyperjump/corretor/internal/speller"
	"go.uber.org/zap"
)

// Source names where corpus text comes from: a file when Path is set,
// otherwise the inline Text.
type Source struct {
	Path string
	Text string
}

// String describes the source for logs.
func (s Source) String() string {
	if s.Path != "" {
		return s.Path
	}
	return "inline"
}

// Read returns the corpus text.
func (s Source) Read(e *Extractor) (string, error) {
	if s.Path == "" {
		return s.Text, nil
	}
	return e.Extract(s.Path)
}

// LoadVocabulary builds a vocabulary from src. A missing or unreadable
// source is logged and yields an empty vocabulary, so every correction
// becomes a no-op instead of failing.
func LoadVocabulary(src Source, minFrequency int, logger *zap.Logger) *speller.Vocabulary {
	if logger == nil {
		logger = zap.NewNop()
	}
	text, err := src.Read(NewExtractor())
	if err != nil {
		logger.Warn("corpus unavailable, using empty vocabulary",
			zap.String("source", src.String()), zap.Error(err))
		return speller.EmptyVocabulary()
	}
	vocab := speller.BuildVocabulary(text, minFrequency)
	logger.Info("vocabulary built",
		zap.String("source", src.String()),
		zap.Int("words", vocab.Len()),
		zap.Int("total", vocab.Total()),
		zap.Int("min_frequency", minFrequency),
	)
	return vocab
}
