package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hyperjump/corretor/internal/config"
	"github.com/hyperjump/corretor/internal/corpus"
	"github.com/hyperjump/corretor/internal/speller"
	"github.com/hyperjump/corretor/internal/store"
	"go.uber.org/zap"
)

// Components holds initialized services.
type Components struct {
	Speller *speller.Speller
	// Source describes where the vocabulary came from.
	Source string
}

// initializeComponents loads the vocabulary and builds the speller. An existing
// snapshot is preferred over the corpus; any failure degrades to the next
// source and finally to an empty vocabulary.
func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) *Components {
	vocab, source := loadVocabulary(ctx, cfg, logger)
	sp := speller.New(vocab,
		speller.WithMaxWordLength(cfg.Speller.MaxWordLength),
		speller.WithLogger(logger),
	)
	return &Components{Speller: sp, Source: source}
}

func loadVocabulary(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*speller.Vocabulary, string) {
	if path := cfg.Corpus.SnapshotPath; path != "" {
		if _, err := os.Stat(path); err == nil {
			vocab, err := loadSnapshot(ctx, path, cfg.Corpus.MinFrequency)
			if err == nil {
				logger.Info("vocabulary loaded from snapshot",
					zap.String("path", path),
					zap.Int("words", vocab.Len()),
					zap.Int("total", vocab.Total()),
				)
				return vocab, "snapshot:" + path
			}
			logger.Warn("snapshot load failed, reading corpus", zap.String("path", path), zap.Error(err))
		}
	}
	src := corpusSource(cfg)
	return corpus.LoadVocabulary(src, cfg.Corpus.MinFrequency, logger), src.String()
}

func loadSnapshot(ctx context.Context, path string, minFrequency int) (*speller.Vocabulary, error) {
	st, err := store.NewSQLiteStore(path)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.LoadVocabulary(ctx, minFrequency)
}

// buildSnapshot counts the configured corpus and saves the raw counts to a
// snapshot at path. Unlike startup loading, an unreadable corpus is an error.
func buildSnapshot(ctx context.Context, cfg *config.Config, path string, logger *zap.Logger) (*store.Snapshot, error) {
	src := corpusSource(cfg)
	text, err := src.Read(corpus.NewExtractor())
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	vocab := speller.BuildVocabulary(text, 1)
	if vocab.Len() == 0 {
		return nil, errors.New("corpus contains no words")
	}

	st, err := store.NewSQLiteStore(path)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	snap, err := st.SaveVocabulary(ctx, vocab, src.String())
	if err != nil {
		return nil, err
	}
	logger.Info("snapshot saved",
		zap.String("id", snap.ID),
		zap.String("path", path),
		zap.Int("words", snap.Words),
	)
	return snap, nil
}

// recordSnapshotPath points corpus.snapshot_path in the config file at
// configPath to snapshotPath, so the next start loads the snapshot. It reports
// whether the file was rewritten.
func recordSnapshotPath(configPath string, cfg *config.Config, snapshotPath string) (bool, error) {
	abs, err := filepath.Abs(snapshotPath)
	if err != nil {
		return false, fmt.Errorf("resolve snapshot path: %w", err)
	}
	if cfg.Corpus.SnapshotPath == abs {
		return false, nil
	}
	cfg.Corpus.SnapshotPath = abs
	if err := config.Save(configPath, cfg); err != nil {
		return false, err
	}
	return true, nil
}

func corpusSource(cfg *config.Config) corpus.Source {
	return corpus.Source{Path: cfg.Corpus.Path, Text: cfg.Corpus.Text}
}
