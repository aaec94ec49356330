// Package cli provides output helpers for the corretor command.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/hyperjump/corretor/internal/speller"
)

// OutputFormat is the format for check result output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is one JSON object per result, for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputText, OutputJSON:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("invalid output format %q (use text or json)", s)
	}
}

// WriteCheckResult writes result to w in the given format.
func WriteCheckResult(w io.Writer, result *speller.Result, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return json.NewEncoder(w).Encode(result)
	default:
		return writeCheckResultText(w, result)
	}
}

func writeCheckResultText(w io.Writer, result *speller.Result) error {
	if result.IsCorrect {
		_, err := fmt.Fprintf(w, "Texto correto: %s\n", result.Corrected)
		return err
	}
	if _, err := fmt.Fprintf(w, "Será que você não quis dizer: %s\n", result.Corrected); err != nil {
		return err
	}
	for _, word := range sortedKeys(result.Changes) {
		if _, err := fmt.Fprintf(w, "  %s -> %s\n", word, result.Changes[word]); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
