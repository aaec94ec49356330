// Package store persists vocabulary snapshots so a server can start without
// re-reading a large corpus.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/hyperjump/corretor/internal/speller"
)

// ErrNoSnapshot is returned when a store holds no vocabulary yet.
var ErrNoSnapshot = errors.New("no vocabulary snapshot")

// Snapshot describes a saved vocabulary.
type Snapshot struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Words     int       `json:"words"`
	Total     int       `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

// VocabularyStore saves and loads vocabulary snapshots.
type VocabularyStore interface {
	SaveVocabulary(ctx context.Context, vocab *speller.Vocabulary, source string) (*Snapshot, error)
	LoadVocabulary(ctx context.Context, minFrequency int) (*speller.Vocabulary, error)
	LatestSnapshot(ctx context.Context) (*Snapshot, error)
	Close() error
}
