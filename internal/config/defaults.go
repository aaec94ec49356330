package config

import "time"

// DefaultCorpusPath is used when neither a corpus path nor inline text is configured.
const DefaultCorpusPath = "/usr/local/var/corretor/vocab.txt"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.MaxTextLength == 0 {
		cfg.Server.MaxTextLength = 10000
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 30 * time.Second
	}
	if cfg.Corpus.Path == "" && cfg.Corpus.Text == "" {
		cfg.Corpus.Path = DefaultCorpusPath
	}
	if cfg.Corpus.MinFrequency == 0 {
		cfg.Corpus.MinFrequency = 1
	}
	if cfg.Speller.MaxWordLength == 0 {
		cfg.Speller.MaxWordLength = 30
	}
}
