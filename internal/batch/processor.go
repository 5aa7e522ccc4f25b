package batch

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Entry is one line of a batch file
type Entry struct {
	// Source is the sentence as typed, possibly in another language
	Source string
	// Target is the English sentence, if the line provides one
	Target string
}

// ReadBatchFile reads sentences from a file.
// Supports formats:
// - Sentence only: "I want water"
// - With translation: "ನನಗೆ ನೀರು ಬೇಕು = I want water"
// - English only: "= I want water"
// Lines starting with # are comments.
func ReadBatchFile(filename string) ([]Entry, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		source, target, found := strings.Cut(line, "=")
		if !found {
			entries = append(entries, Entry{Source: line})
			continue
		}

		source = strings.TrimSpace(source)
		target = strings.TrimSpace(target)
		if source == "" && target == "" {
			continue
		}
		entries = append(entries, Entry{Source: source, Target: target})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	return entries, nil
}

// Sentence returns the English sentence when known, otherwise the source
func (e Entry) Sentence() string {
	if e.Target != "" {
		return e.Target
	}
	return e.Source
}
